package usecase

import (
	"context"
	"time"

	archivemodel "motive-archive/internal/archive/domain/model"
	archiverepo "motive-archive/internal/archive/domain/repository"
	"motive-archive/internal/media/adapter/cloudflare"
	apperrors "motive-archive/internal/shared/errors"
	"motive-archive/internal/shared/logger"
)

// MigrationItem records the outcome for a single image
type MigrationItem struct {
	ImageID string `json:"imageId"`
	CarID   string `json:"carId"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// item statuses
const (
	MigrationMigrated = "migrated"
	MigrationSkipped  = "skipped"
	MigrationFailed   = "failed"
)

// MigrationReport summarizes a metadata migration run
type MigrationReport struct {
	Scanned  int             `json:"scanned"`
	Migrated int             `json:"migrated"`
	Skipped  int             `json:"skipped"`
	Failed   int             `json:"failed"`
	Items    []MigrationItem `json:"items"`
}

// MetadataMigrator pulls image metadata from Cloudflare Images into the
// local image_metadata collection
type MetadataMigrator struct {
	cars       archiverepo.CarRepository
	metadata   archiverepo.ImageMetadataRepository
	images     cloudflare.ImagesAPI
	log        logger.Logger
	batchSize  int
	batchDelay time.Duration
}

// NewMetadataMigrator creates the migration worker
func NewMetadataMigrator(
	cars archiverepo.CarRepository,
	metadata archiverepo.ImageMetadataRepository,
	images cloudflare.ImagesAPI,
	log logger.Logger,
	batchSize int,
	batchDelay time.Duration,
) *MetadataMigrator {
	if batchSize < 1 {
		batchSize = 3
	}
	if batchDelay <= 0 {
		batchDelay = time.Second
	}
	return &MetadataMigrator{
		cars:       cars,
		metadata:   metadata,
		images:     images,
		log:        log.WithComponent("metadata_migrator"),
		batchSize:  batchSize,
		batchDelay: batchDelay,
	}
}

type migrationTarget struct {
	imageID string
	carID   string
	url     string
}

// Run scans all cars with images, dedupes their delivery URLs, skips
// IDs already stored, and fetches the rest from Cloudflare in batches.
// Individual failures are recorded, never aborting the run.
func (m *MetadataMigrator) Run(ctx context.Context) (*MigrationReport, error) {
	targets, err := m.collectTargets(ctx)
	if err != nil {
		return nil, err
	}

	report := &MigrationReport{Scanned: len(targets), Items: []MigrationItem{}}
	if len(targets) == 0 {
		return report, nil
	}

	existing, err := m.existingIDs(ctx, targets)
	if err != nil {
		return nil, err
	}

	var pending []migrationTarget
	for _, target := range targets {
		if existing[target.imageID] {
			report.Skipped++
			report.Items = append(report.Items, MigrationItem{
				ImageID: target.imageID,
				CarID:   target.carID,
				Status:  MigrationSkipped,
			})
			continue
		}
		pending = append(pending, target)
	}

	for start := 0; start < len(pending); start += m.batchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		end := start + m.batchSize
		if end > len(pending) {
			end = len(pending)
		}

		for _, target := range pending[start:end] {
			item := m.migrateOne(ctx, target)
			report.Items = append(report.Items, item)
			if item.Status == MigrationMigrated {
				report.Migrated++
			} else {
				report.Failed++
			}
		}

		if end < len(pending) {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(m.batchDelay):
			}
		}
	}

	m.log.WithContext(ctx).Infof("Metadata migration finished: %d scanned, %d migrated, %d skipped, %d failed",
		report.Scanned, report.Migrated, report.Skipped, report.Failed)
	return report, nil
}

// collectTargets walks every car and dedupes image IDs across the fleet
func (m *MetadataMigrator) collectTargets(ctx context.Context) ([]migrationTarget, error) {
	seen := map[string]bool{}
	var targets []migrationTarget

	page := archivemodel.Page{Number: 1, Size: 100}
	for {
		cars, total, err := m.cars.List(ctx, archivemodel.CarFilter{}, page)
		if err != nil {
			return nil, err
		}
		for _, car := range cars {
			carID := car.ID.Hex()
			for _, url := range car.Images {
				imageID := cloudflare.ExtractImageID(url)
				if imageID == "" || seen[imageID] {
					continue
				}
				seen[imageID] = true
				targets = append(targets, migrationTarget{imageID: imageID, carID: carID, url: url})
			}
		}
		if int64(page.Number*page.Size) >= total || len(cars) == 0 {
			break
		}
		page.Number++
	}
	return targets, nil
}

func (m *MetadataMigrator) existingIDs(ctx context.Context, targets []migrationTarget) (map[string]bool, error) {
	ids := make([]string, len(targets))
	for i, target := range targets {
		ids[i] = target.imageID
	}
	return m.metadata.ExistingImageIDs(ctx, ids)
}

func (m *MetadataMigrator) migrateOne(ctx context.Context, target migrationTarget) MigrationItem {
	item := MigrationItem{ImageID: target.imageID, CarID: target.carID}

	details, err := m.fetchWithRateLimitRetry(ctx, target.imageID)
	if err != nil {
		m.log.WithContext(ctx).Warnf("Failed to fetch image %s: %v", target.imageID, err)
		item.Status = MigrationFailed
		item.Error = err.Error()
		return item
	}

	meta := &archivemodel.ImageMetadata{
		ImageID:    target.imageID,
		CarID:      target.carID,
		URL:        target.url,
		Metadata:   details.Metadata,
		UploadedAt: &details.Uploaded,
	}
	if err := m.metadata.Upsert(ctx, meta); err != nil {
		m.log.WithContext(ctx).Warnf("Failed to store metadata for image %s: %v", target.imageID, err)
		item.Status = MigrationFailed
		item.Error = err.Error()
		return item
	}

	item.Status = MigrationMigrated
	return item
}

// fetchWithRateLimitRetry retries a rate-limited fetch once after the
// batch delay
func (m *MetadataMigrator) fetchWithRateLimitRetry(ctx context.Context, imageID string) (*cloudflare.ImageDetails, error) {
	details, err := m.images.GetImage(ctx, imageID)
	if err == nil || !apperrors.IsRateLimited(err) {
		return details, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(m.batchDelay):
	}
	return m.images.GetImage(ctx, imageID)
}
