package search

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	searchhttp "motive-archive/internal/search/adapter/http"
	"motive-archive/internal/search/adapter/openai"
	"motive-archive/internal/search/adapter/persistence/mongodb"
	"motive-archive/internal/search/config"
	"motive-archive/internal/search/domain/repository"
	"motive-archive/internal/search/usecase"
	"motive-archive/internal/shared/logger"
)

// SearchModule wires research file storage, embeddings and hybrid search
type SearchModule struct {
	usecase usecase.SearchUsecase
	handler *searchhttp.SearchHandler
	config  *config.SearchConfig
	log     logger.Logger
}

// NewSearchModule creates the search module. When no OpenAI key is
// configured the module still serves keyword search; vector search and
// answer synthesis are disabled.
func NewSearchModule(db *mongo.Database, cfg *config.SearchConfig, log logger.Logger) (*SearchModule, error) {
	files, err := mongodb.NewMongoResearchRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create research repository: %w", err)
	}

	var client *openai.Client
	if cfg.Enabled() {
		client = openai.NewClient(cfg, log)
	} else {
		log.Warnf("OPENAI_API_KEY not set, search runs in keyword-only mode")
	}

	var (
		embedder    repository.Embedder
		synthesizer repository.Synthesizer
	)
	if client != nil {
		embedder = client
		synthesizer = client
	}

	uc := usecase.NewSearchUsecase(files, embedder, synthesizer, log, cfg.ChunkSize, cfg.TopK)

	return &SearchModule{
		usecase: uc,
		handler: searchhttp.NewSearchHandler(uc, log),
		config:  cfg,
		log:     log,
	}, nil
}

// RegisterRoutes mounts research routes on the API router behind the
// given auth middleware
func (m *SearchModule) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	m.handler.RegisterRoutes(router, protect)
}

// Usecase returns the search usecase for other modules
func (m *SearchModule) Usecase() usecase.SearchUsecase {
	return m.usecase
}
