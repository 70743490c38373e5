package kafka

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

type KafkaConfig struct {
	Brokers    []string
	Topic      string
	Username   string
	Password   string
	Mechanism  string
	TLSEnabled bool
}

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(cfg KafkaConfig) (*DefaultKafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}

	transport := &kafka.Transport{}
	if cfg.Username != "" {
		mechanism, err := saslMechanism(cfg)
		if err != nil {
			return nil, err
		}
		transport.SASL = mechanism
	}
	if cfg.TLSEnabled {
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.Hash{},
			Transport:    transport,
			RequiredAcks: kafka.RequireOne,
		},
		topic: cfg.Topic,
	}, nil
}

func saslMechanism(cfg KafkaConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "", "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	}
	return nil, fmt.Errorf("unsupported sasl mechanism %q", cfg.Mechanism)
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Topic: topic,
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
		})
	}
	return k.writer.WriteMessages(ctx, km...)
}

func (k *DefaultKafkaPublisher) Topic() string {
	return k.topic
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

// TransactionEventPublisher turns polled transactions into events keyed by
// account so that all events of an account stay ordered in one partition.
type TransactionEventPublisher struct {
	Port       domain.PublisherPort
	Topic      string
	MaxRetries int
	// Timeout bounds one Hook call.
	Timeout time.Duration
	Logger  *slog.Logger
	now     func() time.Time
}

func NewTransactionEventPublisher(port domain.PublisherPort, topic string, logger *slog.Logger) *TransactionEventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionEventPublisher{
		Port:       port,
		Topic:      topic,
		MaxRetries: 3,
		Timeout:    10 * time.Second,
		Logger:     logger,
		now:        time.Now,
	}
}

func (p *TransactionEventPublisher) Build(account string, txs []domain.Transaction) ([]domain.Message, error) {
	observed := p.now()
	msgs := make([]domain.Message, 0, len(txs))
	for _, tx := range txs {
		v, err := json.Marshal(NewTransactionEvent(account, tx, observed))
		if err != nil {
			p.Logger.Error("failed to marshal transaction event", "transaction_id", tx.ID, "error", err)
			continue
		}
		msgs = append(msgs, domain.Message{Key: []byte(account), Value: v})
	}
	if len(msgs) == 0 {
		return nil, errors.New("no valid messages to publish")
	}
	return msgs, nil
}

// PublishTransactions publishes one event per transaction, retrying the
// whole batch with a linear backoff.
func (p *TransactionEventPublisher) PublishTransactions(ctx context.Context, account string, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	msgs, err := p.Build(account, txs)
	if err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		err = p.Port.Publish(ctx, p.Topic, msgs...)
		if err == nil {
			return nil
		}
		if attempt >= p.MaxRetries {
			return fmt.Errorf("publish %d transaction events after %d attempts: %w", len(msgs), attempt, err)
		}
		p.Logger.Warn("transaction event publish failed", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}
}

// Hook adapts the publisher to the transaction poller. It runs under the
// poll context, so stopping the poller aborts a pending publish. Failures are
// logged and never reach the wallet view.
func (p *TransactionEventPublisher) Hook(ctx context.Context, account string, txs []domain.Transaction) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	if err := p.PublishTransactions(ctx, account, txs); err != nil {
		p.Logger.Error("failed to publish transaction events", "account", account, "count", len(txs), "error", err)
	}
}
