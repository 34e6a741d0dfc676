package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// SearchConfig holds research search configuration
type SearchConfig struct {
	OpenAIAPIKey   string `env:"OPENAI_API_KEY"`
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	ChatModel      string `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`

	ChunkSize int `env:"SEARCH_CHUNK_SIZE" envDefault:"2000"`
	TopK      int `env:"SEARCH_TOP_K" envDefault:"5"`

	// Retry policy for OpenAI calls
	MaxAttempts int `env:"OPENAI_MAX_ATTEMPTS" envDefault:"3"`
}

// LoadSearchConfig loads search configuration from environment
func LoadSearchConfig() (*SearchConfig, error) {
	cfg := &SearchConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse search config: %w", err)
	}
	return cfg, nil
}

// Enabled reports whether the search module can call OpenAI
func (c *SearchConfig) Enabled() bool {
	return c.OpenAIAPIKey != ""
}
