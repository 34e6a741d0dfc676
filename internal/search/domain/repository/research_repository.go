package repository

import (
	"context"

	"motive-archive/internal/search/domain/model"
)

// ResearchRepository defines persistence operations for research files
type ResearchRepository interface {
	Create(ctx context.Context, file *model.ResearchFile) error
	GetByID(ctx context.Context, id string) (*model.ResearchFile, error)
	ListByCar(ctx context.Context, carID string) ([]*model.ResearchFile, error)
	KeywordSearch(ctx context.Context, carID, query string, limit int) ([]*model.SearchResult, error)
	Delete(ctx context.Context, id string) error
}

// Embedder produces embedding vectors for text
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Synthesizer produces an answer from a question and context block
type Synthesizer interface {
	Synthesize(ctx context.Context, question, contextBlock string) (string, error)
}
