package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
env: test
ipfs_domain: ipfs.internal.citizenwallet.xyz
checkout-service:
  url: https://checkout.example.org
sync:
  poll_interval: 5s
kafka-service:
  enabled: true
  host: kafka
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "https://checkout.example.org", cfg.CheckoutService.URL)
	assert.Equal(t, 10*time.Second, cfg.CheckoutService.Timeout)
	assert.Equal(t, 10, cfg.Sync.Limit)
	assert.Equal(t, 5*time.Second, cfg.Sync.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.Sync.ReloadInterval)
	assert.Equal(t, "8080", cfg.HTTPServer.Port)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers())
	assert.Equal(t, "wallet-transactions", cfg.KafkaService.Topic)
}

func TestLoadRequiresCheckoutURL(t *testing.T) {
	path := writeConfig(t, "ipfs_domain: ipfs.example.org\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissingCheckoutURL)
}

func TestLoadRequiresIPFSDomain(t *testing.T) {
	path := writeConfig(t, "checkout-service:\n  url: https://checkout.example.org\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissingIPFSDomain)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
