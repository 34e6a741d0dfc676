package archive

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	archivehttp "motive-archive/internal/archive/adapter/http"
	"motive-archive/internal/archive/adapter/persistence/mongodb"
	"motive-archive/internal/archive/adapter/persistence/redisstream"
	"motive-archive/internal/archive/config"
	"motive-archive/internal/archive/domain/model"
	"motive-archive/internal/archive/domain/repository"
	"motive-archive/internal/archive/usecase"
	"motive-archive/internal/shared/eventbus"
	"motive-archive/internal/shared/logger"
)

// ArchiveModule wires the archive domain: repositories, usecase,
// activity stream, HTTP and WebSocket surfaces
type ArchiveModule struct {
	usecase   usecase.ArchiveUsecase
	handler   *archivehttp.ArchiveHandler
	wsHandler *archivehttp.WSActivityHandler
	hub       *archivehttp.ActivityHub
	activity  repository.ActivityStore
	cars      repository.CarRepository
	imageMeta repository.ImageMetadataRepository
	redis     *redis.Client
	config    *config.ArchiveConfig
	log       logger.Logger
}

// NewArchiveModule creates the archive module. The Redis client may be
// nil; the module then runs without a persisted activity feed.
func NewArchiveModule(
	db *mongo.Database,
	redisClient *redis.Client,
	bus eventbus.EventBusInterface,
	cfg *config.ArchiveConfig,
	log logger.Logger,
) (*ArchiveModule, error) {
	cars, err := mongodb.NewMongoCarRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create car repository: %w", err)
	}
	makes, err := mongodb.NewMongoMakeRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create make repository: %w", err)
	}
	carModels, err := mongodb.NewMongoCarModelRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create car model repository: %w", err)
	}
	auctions, err := mongodb.NewMongoAuctionRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create auction repository: %w", err)
	}
	projects, err := mongodb.NewMongoProjectRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create project repository: %w", err)
	}
	deliverables, err := mongodb.NewMongoDeliverableRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create deliverable repository: %w", err)
	}
	events, err := mongodb.NewMongoEventRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create event repository: %w", err)
	}
	imageMeta, err := mongodb.NewMongoImageMetadataRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create image metadata repository: %w", err)
	}

	var activity repository.ActivityStore
	if redisClient != nil && cfg.ActivityEnabled {
		store := redisstream.NewRedisActivityStore(redisClient, log, cfg.StreamMaxLen)
		activity = store
		subscribeActivityPersistence(bus, store, log)
	}

	uc := usecase.NewArchiveUsecase(usecase.Params{
		Cars:            cars,
		Makes:           makes,
		CarModels:       carModels,
		Auctions:        auctions,
		Projects:        projects,
		Deliverables:    deliverables,
		Events:          events,
		Activity:        activity,
		Bus:             bus,
		Logger:          log,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	})

	hub := archivehttp.NewActivityHub(bus, log)

	return &ArchiveModule{
		usecase:   uc,
		handler:   archivehttp.NewArchiveHandler(uc, log),
		wsHandler: archivehttp.NewWSActivityHandler(hub, log),
		hub:       hub,
		activity:  activity,
		cars:      cars,
		imageMeta: imageMeta,
		redis:     redisClient,
		config:    cfg,
		log:       log,
	}, nil
}

// subscribeActivityPersistence appends every archive mutation event to
// the Redis activity stream
func subscribeActivityPersistence(bus eventbus.EventBusInterface, store repository.ActivityStore, log logger.Logger) {
	handler := func(ctx context.Context, event eventbus.Event) error {
		activityEvent, ok := event.Data().(*model.ActivityEvent)
		if !ok {
			return nil
		}
		if _, err := store.Append(ctx, activityEvent); err != nil {
			log.Warnf("Failed to persist activity event %s: %v", event.Type(), err)
		}
		// feed persistence failures never propagate to the mutation
		return nil
	}

	collections := []string{"cars", "auctions", "projects", "deliverables", "events"}
	actions := []string{model.ActivityCreated, model.ActivityUpdated, model.ActivityDeleted}
	for _, collection := range collections {
		for _, action := range actions {
			bus.Subscribe(collection+"."+action, handler)
		}
	}
}

// RegisterRoutes mounts archive routes on the API router behind the
// given auth middleware
func (m *ArchiveModule) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	m.handler.RegisterRoutes(router, protect)
}

// RegisterWebSocket mounts the live activity endpoint on the app root
func (m *ArchiveModule) RegisterWebSocket(app *fiber.App) {
	m.wsHandler.RegisterRoutes(app)
}

// Usecase returns the archive usecase for other modules
func (m *ArchiveModule) Usecase() usecase.ArchiveUsecase {
	return m.usecase
}

// CarRepository exposes the car repository for the media pipeline
func (m *ArchiveModule) CarRepository() repository.CarRepository {
	return m.cars
}

// ImageMetadataRepository exposes the image metadata repository for the
// media pipeline
func (m *ArchiveModule) ImageMetadataRepository() repository.ImageMetadataRepository {
	return m.imageMeta
}
