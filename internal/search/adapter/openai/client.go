package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"motive-archive/internal/search/config"
	"motive-archive/internal/search/domain/repository"
	"motive-archive/internal/shared/logger"
)

// Client wraps the OpenAI API for embedding and answer synthesis
type Client struct {
	api         openai.Client
	cfg         *config.SearchConfig
	log         logger.Logger
	maxAttempts int
}

// NewClient creates an OpenAI client from search configuration
func NewClient(cfg *config.SearchConfig, log logger.Logger) *Client {
	return &Client{
		api:         openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey)),
		cfg:         cfg,
		log:         log.WithComponent("openai_client"),
		maxAttempts: cfg.MaxAttempts,
	}
}

// Embed produces one embedding vector per input text
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	var resp *openai.CreateEmbeddingResponse
	err := withRetry(ctx, c.log, c.maxAttempts, "embeddings", func() error {
		var callErr error
		resp, callErr = c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: texts,
			},
		})
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response size mismatch: got %d, want %d", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// Synthesize answers a question against a context block of research excerpts
func (c *Client) Synthesize(ctx context.Context, question, contextBlock string) (string, error) {
	system := "You are a research assistant for an automotive archive. " +
		"Answer using only the provided research excerpts. " +
		"If the excerpts do not contain the answer, say so."
	user := fmt.Sprintf("Research excerpts:\n\n%s\n\nQuestion: %s", contextBlock, question)

	var resp *openai.ChatCompletion
	err := withRetry(ctx, c.log, c.maxAttempts, "chat completion", func() error {
		var callErr error
		resp, callErr = c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(c.cfg.ChatModel),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(system),
				openai.UserMessage(user),
			},
		})
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

var (
	_ repository.Embedder    = (*Client)(nil)
	_ repository.Synthesizer = (*Client)(nil)
)
