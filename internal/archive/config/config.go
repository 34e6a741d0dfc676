package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// ArchiveConfig holds archive module configuration
type ArchiveConfig struct {
	// Redis connection for the activity stream
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDatabase int    `env:"REDIS_DATABASE" envDefault:"0"`
	RedisTLS      bool   `env:"REDIS_TLS" envDefault:"false"`

	// Activity stream settings
	StreamMaxLen    int64 `env:"ACTIVITY_STREAM_MAX_LEN" envDefault:"10000"`
	ActivityEnabled bool  `env:"ACTIVITY_ENABLED" envDefault:"true"`

	// Pagination caps
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"20"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE" envDefault:"100"`
}

// LoadArchiveConfig loads archive configuration from environment
func LoadArchiveConfig() (*ArchiveConfig, error) {
	cfg := &ArchiveConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse archive config: %w", err)
	}
	return cfg, nil
}

// RedisAddr returns the host:port address of the Redis server
func (c *ArchiveConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
