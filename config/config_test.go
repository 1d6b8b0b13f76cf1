package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Port:               "8080",
		WebhookSecret:      "s3cret",
		MaxPayloadSizeMB:   5,
		NATSURL:            "nats://localhost:4222",
		NATSStream:         "WEBHOOKS",
		NATSPublishTimeout: 5 * time.Second,
		NATSMaxRetries:     5,
		NATSRetryBaseDelay: 200 * time.Millisecond,
		RequestTimeout:     15 * time.Second,
		LogLevel:           "info",
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("error - missing webhook secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.WebhookSecret = ""

		assert.ErrorContains(t, cfg.Validate(), "WEBHOOK_SECRET is required")
	})

	t.Run("error - non-positive payload cap", func(t *testing.T) {
		cfg := validConfig()
		cfg.MaxPayloadSizeMB = 0

		assert.ErrorContains(t, cfg.Validate(), "MAX_PAYLOAD_SIZE_MB")
	})

	t.Run("error - retries below one", func(t *testing.T) {
		cfg := validConfig()
		cfg.NATSMaxRetries = 0

		assert.ErrorContains(t, cfg.Validate(), "NATS_MAX_RETRIES")
	})
}

func TestMaxPayloadBytes(t *testing.T) {
	cfg := validConfig()
	cfg.MaxPayloadSizeMB = 2

	assert.Equal(t, int64(2*1024*1024), cfg.MaxPayloadBytes())
}
