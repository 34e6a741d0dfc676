package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// MediaConfig holds the image pipeline and Cloudflare Images settings
type MediaConfig struct {
	CloudflareAccountID string `env:"CLOUDFLARE_ACCOUNT_ID"`
	CloudflareAPIToken  string `env:"CLOUDFLARE_API_TOKEN"`

	// metadata migration worker
	MigrationBatchSize  int           `env:"MIGRATION_BATCH_SIZE" envDefault:"3"`
	MigrationBatchDelay time.Duration `env:"MIGRATION_BATCH_DELAY" envDefault:"1s"`

	// processing endpoints
	MaxUploadBytes int `env:"MEDIA_MAX_UPLOAD_BYTES" envDefault:"26214400"`
	JPEGQuality    int `env:"MEDIA_JPEG_QUALITY" envDefault:"92"`
}

// LoadMediaConfig loads the media configuration from the environment
func LoadMediaConfig() (*MediaConfig, error) {
	cfg := &MediaConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse media config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values
func (c *MediaConfig) Validate() error {
	if c.MigrationBatchSize < 1 {
		return fmt.Errorf("MIGRATION_BATCH_SIZE must be at least 1")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("MEDIA_JPEG_QUALITY must be between 1 and 100")
	}
	return nil
}

// CloudflareEnabled reports whether the Cloudflare Images client can
// be constructed
func (c *MediaConfig) CloudflareEnabled() bool {
	return c.CloudflareAccountID != "" && c.CloudflareAPIToken != ""
}
