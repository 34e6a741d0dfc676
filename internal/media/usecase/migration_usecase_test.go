package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	archivemodel "motive-archive/internal/archive/domain/model"
	"motive-archive/internal/media/adapter/cloudflare"
	"motive-archive/internal/shared/logger"
)

type stubCarRepo struct {
	cars []*archivemodel.Car
}

func (s *stubCarRepo) Create(ctx context.Context, car *archivemodel.Car) error { return nil }
func (s *stubCarRepo) GetByID(ctx context.Context, id string) (*archivemodel.Car, error) {
	return nil, nil
}
func (s *stubCarRepo) List(ctx context.Context, filter archivemodel.CarFilter, page archivemodel.Page) ([]*archivemodel.Car, int64, error) {
	if page.Number > 1 {
		return nil, int64(len(s.cars)), nil
	}
	return s.cars, int64(len(s.cars)), nil
}
func (s *stubCarRepo) Update(ctx context.Context, car *archivemodel.Car) error { return nil }
func (s *stubCarRepo) Delete(ctx context.Context, id string) error             { return nil }

type stubMetadataRepo struct {
	mu       sync.Mutex
	existing map[string]bool
	upserted []*archivemodel.ImageMetadata
}

func (s *stubMetadataRepo) Upsert(ctx context.Context, meta *archivemodel.ImageMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, meta)
	return nil
}
func (s *stubMetadataRepo) GetByImageID(ctx context.Context, imageID string) (*archivemodel.ImageMetadata, error) {
	return nil, nil
}
func (s *stubMetadataRepo) ExistingImageIDs(ctx context.Context, imageIDs []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, id := range imageIDs {
		if s.existing[id] {
			out[id] = true
		}
	}
	return out, nil
}
func (s *stubMetadataRepo) ListByCar(ctx context.Context, carID string) ([]*archivemodel.ImageMetadata, error) {
	return nil, nil
}
func (s *stubMetadataRepo) Delete(ctx context.Context, imageID string) error { return nil }

type stubImagesAPI struct {
	mu      sync.Mutex
	fetched []string
	fail    map[string]error
}

func (s *stubImagesAPI) GetImage(ctx context.Context, imageID string) (*cloudflare.ImageDetails, error) {
	s.mu.Lock()
	s.fetched = append(s.fetched, imageID)
	s.mu.Unlock()
	if err, ok := s.fail[imageID]; ok {
		return nil, err
	}
	return &cloudflare.ImageDetails{
		ID:       imageID,
		Uploaded: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Metadata: map[string]interface{}{"angle": "front"},
	}, nil
}

func (s *stubImagesAPI) DeleteImage(ctx context.Context, imageID string) error { return nil }

func carWithImages(urls ...string) *archivemodel.Car {
	return &archivemodel.Car{ID: primitive.NewObjectID(), Images: urls}
}

func deliveryURL(id string) string {
	return fmt.Sprintf("https://imagedelivery.net/acct/%s/public", id)
}

func TestMigrationSkipsExistingAndDedupes(t *testing.T) {
	cars := &stubCarRepo{cars: []*archivemodel.Car{
		carWithImages(deliveryURL("img1"), deliveryURL("img2")),
		// img1 appears on a second car, must only be fetched once
		carWithImages(deliveryURL("img1"), deliveryURL("img3")),
	}}
	metadata := &stubMetadataRepo{existing: map[string]bool{"img2": true}}
	images := &stubImagesAPI{}

	migrator := NewMetadataMigrator(cars, metadata, images, logger.NewLogger(), 3, time.Millisecond)
	report, err := migrator.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Migrated)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Failed)
	assert.ElementsMatch(t, []string{"img1", "img3"}, images.fetched)
	assert.Len(t, metadata.upserted, 2)
}

func TestMigrationCollectsPerItemFailures(t *testing.T) {
	cars := &stubCarRepo{cars: []*archivemodel.Car{
		carWithImages(deliveryURL("good"), deliveryURL("bad")),
	}}
	metadata := &stubMetadataRepo{}
	images := &stubImagesAPI{fail: map[string]error{"bad": fmt.Errorf("upstream gone")}}

	migrator := NewMetadataMigrator(cars, metadata, images, logger.NewLogger(), 3, time.Millisecond)
	report, err := migrator.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Migrated)
	assert.Equal(t, 1, report.Failed)

	var failed *MigrationItem
	for i := range report.Items {
		if report.Items[i].Status == MigrationFailed {
			failed = &report.Items[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "bad", failed.ImageID)
	assert.Contains(t, failed.Error, "upstream gone")
}

func TestMigrationIgnoresNonDeliveryURLs(t *testing.T) {
	cars := &stubCarRepo{cars: []*archivemodel.Car{
		carWithImages("https://example.com/photo.jpg", deliveryURL("img1")),
	}}
	metadata := &stubMetadataRepo{}
	images := &stubImagesAPI{}

	migrator := NewMetadataMigrator(cars, metadata, images, logger.NewLogger(), 3, time.Millisecond)
	report, err := migrator.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, []string{"img1"}, images.fetched)
}

func TestMigrationEmptyFleet(t *testing.T) {
	migrator := NewMetadataMigrator(&stubCarRepo{}, &stubMetadataRepo{}, &stubImagesAPI{}, logger.NewLogger(), 3, time.Millisecond)

	report, err := migrator.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Scanned)
	assert.Empty(t, report.Items)
}

func TestMigrationBatchesWithDelay(t *testing.T) {
	var urls []string
	for i := 0; i < 7; i++ {
		urls = append(urls, deliveryURL(fmt.Sprintf("img%d", i)))
	}
	cars := &stubCarRepo{cars: []*archivemodel.Car{carWithImages(urls...)}}
	metadata := &stubMetadataRepo{}
	images := &stubImagesAPI{}

	delay := 20 * time.Millisecond
	migrator := NewMetadataMigrator(cars, metadata, images, logger.NewLogger(), 3, delay)

	start := time.Now()
	report, err := migrator.Run(context.Background())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 7, report.Migrated)
	// 7 items in batches of 3 means two inter-batch delays
	assert.GreaterOrEqual(t, elapsed, 2*delay)
}

func TestMigrationStoredMetadataCarriesUpload(t *testing.T) {
	cars := &stubCarRepo{cars: []*archivemodel.Car{carWithImages(deliveryURL("img1"))}}
	metadata := &stubMetadataRepo{}
	images := &stubImagesAPI{}

	migrator := NewMetadataMigrator(cars, metadata, images, logger.NewLogger(), 3, time.Millisecond)
	_, err := migrator.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, metadata.upserted, 1)
	stored := metadata.upserted[0]
	assert.Equal(t, "img1", stored.ImageID)
	assert.Equal(t, deliveryURL("img1"), stored.URL)
	assert.Equal(t, "front", stored.Metadata["angle"])
	require.NotNil(t, stored.UploadedAt)
	assert.Equal(t, 2024, stored.UploadedAt.Year())
}
