package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Poderia ser uma lib externa*/

type Config struct {
	Port               string        `mapstructure:"PORT"`
	WebhookSecret      string        `mapstructure:"WEBHOOK_SECRET"`
	MaxPayloadSizeMB   int           `mapstructure:"MAX_PAYLOAD_SIZE_MB"`
	NATSURL            string        `mapstructure:"NATS_URL"`
	NATSStream         string        `mapstructure:"NATS_STREAM"`
	NATSPublishTimeout time.Duration `mapstructure:"NATS_PUBLISH_TIMEOUT"`
	NATSMaxRetries     int           `mapstructure:"NATS_MAX_RETRIES"`
	NATSRetryBaseDelay time.Duration `mapstructure:"NATS_RETRY_BASE_DELAY"`
	RequestTimeout     time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	ProvidersFile      string        `mapstructure:"PROVIDERS_FILE"`
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Defaults also register the keys so AutomaticEnv feeds Unmarshal
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("WEBHOOK_SECRET", "")
	viper.SetDefault("MAX_PAYLOAD_SIZE_MB", 5)
	viper.SetDefault("NATS_URL", "nats://localhost:4222")
	viper.SetDefault("NATS_STREAM", "WEBHOOKS")
	viper.SetDefault("NATS_PUBLISH_TIMEOUT", "5s")
	viper.SetDefault("NATS_MAX_RETRIES", 5)
	viper.SetDefault("NATS_RETRY_BASE_DELAY", "200ms")
	viper.SetDefault("REQUEST_TIMEOUT", "15s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PROVIDERS_FILE", "")

	err := viper.ReadInConfig()
	if err != nil {
		// The .env file is optional; env vars alone are enough
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var config Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks values that would only surface as runtime failures later
func (c *Config) Validate() error {
	if c.WebhookSecret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is required")
	}
	if c.MaxPayloadSizeMB <= 0 {
		return fmt.Errorf("MAX_PAYLOAD_SIZE_MB must be positive (got %d)", c.MaxPayloadSizeMB)
	}
	if c.NATSMaxRetries < 1 {
		return fmt.Errorf("NATS_MAX_RETRIES must be at least 1 (got %d)", c.NATSMaxRetries)
	}
	if c.NATSPublishTimeout <= 0 {
		return fmt.Errorf("NATS_PUBLISH_TIMEOUT must be positive")
	}
	if c.NATSRetryBaseDelay <= 0 {
		return fmt.Errorf("NATS_RETRY_BASE_DELAY must be positive")
	}
	return nil
}

// MaxPayloadBytes returns the request body cap in bytes
func (c *Config) MaxPayloadBytes() int64 {
	return int64(c.MaxPayloadSizeMB) * 1024 * 1024
}
