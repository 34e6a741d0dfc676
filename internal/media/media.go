package media

import (
	"github.com/gofiber/fiber/v2"

	archiverepo "motive-archive/internal/archive/domain/repository"
	"motive-archive/internal/media/adapter/cloudflare"
	mediahttp "motive-archive/internal/media/adapter/http"
	"motive-archive/internal/media/config"
	"motive-archive/internal/media/usecase"
	"motive-archive/internal/shared/logger"
)

// MediaModule wires the image pipeline, the Cloudflare Images client
// and the metadata migration worker
type MediaModule struct {
	handler  *mediahttp.MediaHandler
	migrator *usecase.MetadataMigrator
	config   *config.MediaConfig
	log      logger.Logger
}

// NewMediaModule creates the media module. Without Cloudflare
// credentials the processing endpoints still work; migration is off.
func NewMediaModule(
	cars archiverepo.CarRepository,
	metadata archiverepo.ImageMetadataRepository,
	cfg *config.MediaConfig,
	log logger.Logger,
) *MediaModule {
	var migrator *usecase.MetadataMigrator
	if cfg.CloudflareEnabled() {
		images := cloudflare.NewClient(cfg.CloudflareAccountID, cfg.CloudflareAPIToken, log)
		migrator = usecase.NewMetadataMigrator(cars, metadata, images, log, cfg.MigrationBatchSize, cfg.MigrationBatchDelay)
	} else {
		log.Warnf("Cloudflare Images credentials not set, metadata migration disabled")
	}

	return &MediaModule{
		handler:  mediahttp.NewMediaHandler(migrator, metadata, log, cfg.JPEGQuality),
		migrator: migrator,
		config:   cfg,
		log:      log,
	}
}

// RegisterRoutes mounts media routes behind the auth middleware
func (m *MediaModule) RegisterRoutes(router fiber.Router, protect, requireAdmin fiber.Handler) {
	m.handler.RegisterRoutes(router, protect, requireAdmin)
}
