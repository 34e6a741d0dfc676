package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// AuthConfig holds authentication service configuration
type AuthConfig struct {
	// JWT settings
	JWTSecret          string        `env:"JWT_SECRET,required"`
	JWTIssuer          string        `env:"JWT_ISSUER" envDefault:"motive-archive"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"168h"`

	// Firebase Admin SDK credentials, raw service-account JSON
	FirebaseKeyData   string `env:"KEY_DATA"`
	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`

	// API token settings
	APITokenExpiry time.Duration `env:"API_TOKEN_EXPIRY" envDefault:"2160h"`

	// Password policy
	BcryptCost        int `env:"BCRYPT_COST" envDefault:"12"`
	MinPasswordLength int `env:"MIN_PASSWORD_LENGTH" envDefault:"8"`

	// Cookie settings
	CookieDomain string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`
}

// LoadAuthConfig loads authentication configuration from environment
func LoadAuthConfig() (*AuthConfig, error) {
	cfg := &AuthConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse auth config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants
func (c *AuthConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}
	if c.AccessTokenExpiry <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRY must be positive")
	}
	if c.RefreshTokenExpiry <= c.AccessTokenExpiry {
		return fmt.Errorf("REFRESH_TOKEN_EXPIRY must be greater than ACCESS_TOKEN_EXPIRY")
	}
	if c.BcryptCost < 10 || c.BcryptCost > 15 {
		return fmt.Errorf("BCRYPT_COST must be between 10 and 15")
	}
	return nil
}
