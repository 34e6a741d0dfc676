// Package di wires the application modules together with explicit
// lifecycle management.
package di

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"motive-archive/internal/archive"
	archiveconfig "motive-archive/internal/archive/config"
	"motive-archive/internal/auth"
	authconfig "motive-archive/internal/auth/config"
	"motive-archive/internal/media"
	mediaconfig "motive-archive/internal/media/config"
	"motive-archive/internal/notify"
	"motive-archive/internal/search"
	searchconfig "motive-archive/internal/search/config"
	"motive-archive/internal/shared/eventbus"
	"motive-archive/internal/shared/logger"
)

// Container holds the application modules and shared infrastructure
type Container struct {
	mu sync.RWMutex

	AuthModule    *auth.AuthModule
	ArchiveModule *archive.ArchiveModule
	SearchModule  *search.SearchModule
	MediaModule   *media.MediaModule
	Notifier      notify.Notifier

	MongoDB *mongo.Database
	Redis   *redis.Client
	Bus     eventbus.EventBusInterface
	Logger  logger.Logger
}

// NewContainer creates an empty DI container
func NewContainer(log logger.Logger) *Container {
	return &Container{Logger: log}
}

// InitializeInfrastructure stores the shared connections and creates
// the event bus
func (c *Container) InitializeInfrastructure(mongoDB *mongo.Database, redisClient *redis.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.Redis = redisClient
	c.Bus = eventbus.NewEventBusWithConfig(c.Logger, eventbus.BusConfig{AsyncProcessing: true})
}

// InitializeAuth initializes the authentication module
func (c *Container) InitializeAuth(ctx context.Context, cfg *authconfig.AuthConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MongoDB == nil {
		return fmt.Errorf("infrastructure must be initialized before the auth module")
	}

	authModule, err := auth.NewAuthModule(ctx, c.MongoDB, cfg, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	c.AuthModule = authModule
	return nil
}

// InitializeArchive initializes the archive module
func (c *Container) InitializeArchive(cfg *archiveconfig.ArchiveConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MongoDB == nil || c.Bus == nil {
		return fmt.Errorf("infrastructure must be initialized before the archive module")
	}

	archiveModule, err := archive.NewArchiveModule(c.MongoDB, c.Redis, c.Bus, cfg, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create archive module: %w", err)
	}
	c.ArchiveModule = archiveModule
	return nil
}

// InitializeSearch initializes the research search module
func (c *Container) InitializeSearch(cfg *searchconfig.SearchConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MongoDB == nil {
		return fmt.Errorf("infrastructure must be initialized before the search module")
	}

	searchModule, err := search.NewSearchModule(c.MongoDB, cfg, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create search module: %w", err)
	}
	c.SearchModule = searchModule
	return nil
}

// InitializeMedia initializes the media module. It reuses the archive
// module's repositories, so the archive module must come first.
func (c *Container) InitializeMedia(cfg *mediaconfig.MediaConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ArchiveModule == nil {
		return fmt.Errorf("archive module must be initialized before the media module")
	}

	c.MediaModule = media.NewMediaModule(
		c.ArchiveModule.CarRepository(),
		c.ArchiveModule.ImageMetadataRepository(),
		cfg,
		c.Logger,
	)
	return nil
}

// InitializeNotify wires the outbound notifier onto the event bus
func (c *Container) InitializeNotify(cfg *notify.NotifyConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Bus == nil {
		return fmt.Errorf("infrastructure must be initialized before notifications")
	}

	var notifier notify.Notifier
	if cfg.AMQPEnabled() {
		amqpNotifier, err := notify.NewAMQPNotifier(cfg.AMQPURL, cfg.Exchange)
		if err != nil {
			return fmt.Errorf("failed to create amqp notifier: %w", err)
		}
		notifier = amqpNotifier
	} else {
		c.Logger.Warnf("NOTIFY_AMQP_URL not set, notifications go to the log")
		notifier = notify.NewConsoleNotifier(c.Logger)
	}

	notify.SubscribeActivity(c.Bus, notifier, c.Logger)
	c.Notifier = notifier
	return nil
}

// HealthCheck verifies the shared infrastructure is reachable
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("mongodb health check failed: %w", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}
	return nil
}

// Cleanup shuts down modules and services in reverse initialization
// order
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.Notifier != nil {
		if err := c.Notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close notifier: %w", err))
		}
		c.Notifier = nil
	}

	c.MediaModule = nil
	c.SearchModule = nil
	c.ArchiveModule = nil
	c.AuthModule = nil

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// Close shuts down the container with a timeout
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.Warnf("Cleanup errors during shutdown: %v", err)
	}
	return nil
}
