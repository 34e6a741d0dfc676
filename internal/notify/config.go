package notify

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// NotifyConfig holds the outbound notification settings
type NotifyConfig struct {
	AMQPURL  string `env:"NOTIFY_AMQP_URL"`
	Exchange string `env:"NOTIFY_EXCHANGE" envDefault:"archive.activity"`
}

// LoadNotifyConfig loads the notification configuration from the
// environment
func LoadNotifyConfig() (*NotifyConfig, error) {
	cfg := &NotifyConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse notify config: %w", err)
	}
	return cfg, nil
}

// AMQPEnabled reports whether the AMQP publisher should be used
func (c *NotifyConfig) AMQPEnabled() bool {
	return c.AMQPURL != ""
}
