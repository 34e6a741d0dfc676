package config

import (
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a Redis client for the activity stream store
func NewRedisClient(cfg *ArchiveConfig) *redis.Client {
	options := &redis.Options{
		Addr:       cfg.RedisAddr(),
		Password:   cfg.RedisPassword,
		DB:         cfg.RedisDatabase,
		MaxRetries: 3,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,

		ConnMaxIdleTime: 30 * time.Minute,
		ConnMaxLifetime: time.Hour,
	}

	if cfg.RedisTLS {
		options.TLSConfig = &tls.Config{
			ServerName: cfg.RedisHost,
		}
	}

	return redis.NewClient(options)
}
