package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const configPathEnv = "WALLET_CONFIG_PATH"

type WalletConfig struct {
	Env             string `yaml:"env" env:"WALLET_ENV" env-default:"local"`
	IPFSDomain      string `yaml:"ipfs_domain" env:"IPFS_DOMAIN"`
	HTTPServer      `yaml:"http_server"`
	GRPCServer      `yaml:"grpc_server"`
	WalletDB        `yaml:"wallet_db"`
	LogConfig       `yaml:"log_config"`
	CheckoutService `yaml:"checkout-service"`
	Chain           `yaml:"chain"`
	Community       `yaml:"community"`
	KafkaService    `yaml:"kafka-service"`
	Sync            `yaml:"sync"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"9090"`
}

type WalletDB struct {
	Dsn            string `yaml:"dsn" env:"WALLET_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"WALLET_DB_MIGRATIONS"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"text"`
}

type CheckoutService struct {
	URL     string        `yaml:"url" env:"CHECKOUT_API_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type Chain struct {
	RPCURL      string `yaml:"rpc_url" env:"CHAIN_RPC_URL"`
	CardManager string `yaml:"card_manager"`
	Instance    string `yaml:"instance" env:"CARD_MANAGER_INSTANCE"`
}

type Community struct {
	ConfigPath string `yaml:"config_path" env:"COMMUNITY_CONFIG_PATH" env-default:"community.json"`
}

type KafkaService struct {
	Enabled    bool   `yaml:"enabled" env:"KAFKA_ENABLED"`
	Host       string `yaml:"host" env:"KAFKA_HOST"`
	Port       string `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	Topic      string `yaml:"topic" env-default:"wallet-transactions"`
	Username   string `yaml:"username" env:"KAFKA_USERNAME"`
	Password   string `yaml:"password" env:"KAFKA_PASSWORD"`
	Mechanism  string `yaml:"mechanism"`
	TLSEnabled bool   `yaml:"tls_enabled"`
}

type Sync struct {
	Limit          int           `yaml:"limit" env-default:"10"`
	PollInterval   time.Duration `yaml:"poll_interval" env-default:"2s"`
	ReloadInterval time.Duration `yaml:"reload_interval" env-default:"30s"`
	SessionTTL     time.Duration `yaml:"session_ttl" env-default:"15m"`
	JanitorPeriod  time.Duration `yaml:"janitor_period" env-default:"1m"`
}

var (
	ErrMissingCheckoutURL = errors.New("checkout api base url is not set")
	ErrMissingIPFSDomain  = errors.New("ipfs domain is not set")
)

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*WalletConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg WalletConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails on values the wallet cannot start without.
func (c *WalletConfig) Validate() error {
	if c.CheckoutService.URL == "" {
		return ErrMissingCheckoutURL
	}
	if c.IPFSDomain == "" {
		return ErrMissingIPFSDomain
	}
	return nil
}

func (c *WalletConfig) KafkaBrokers() []string {
	return []string{fmt.Sprintf("%s:%s", c.KafkaService.Host, c.KafkaService.Port)}
}

func MustLoad() *WalletConfig {
	configPath := os.Getenv(configPathEnv)
	if configPath == "" {
		log.Fatalf("%s was not found\n", configPathEnv)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
