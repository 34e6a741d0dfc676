package repository

import (
	"context"

	"motive-archive/internal/archive/domain/model"
)

// CarRepository defines persistence operations for cars
type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	GetByID(ctx context.Context, id string) (*model.Car, error)
	List(ctx context.Context, filter model.CarFilter, page model.Page) ([]*model.Car, int64, error)
	Update(ctx context.Context, car *model.Car) error
	Delete(ctx context.Context, id string) error
}

// MakeRepository defines persistence operations for vehicle makes
type MakeRepository interface {
	Create(ctx context.Context, mk *model.Make) error
	GetByID(ctx context.Context, id string) (*model.Make, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Make, error)
	Update(ctx context.Context, mk *model.Make) error
	Delete(ctx context.Context, id string) error
}

// CarModelRepository defines persistence operations for vehicle models
type CarModelRepository interface {
	Create(ctx context.Context, m *model.CarModel) error
	GetByID(ctx context.Context, id string) (*model.CarModel, error)
	ListByMake(ctx context.Context, make string) ([]*model.CarModel, error)
	Update(ctx context.Context, m *model.CarModel) error
	Delete(ctx context.Context, id string) error
}

// AuctionRepository defines persistence operations for auctions
type AuctionRepository interface {
	Create(ctx context.Context, auction *model.Auction) error
	GetByID(ctx context.Context, id string) (*model.Auction, error)
	List(ctx context.Context, filter model.AuctionFilter, page model.Page) ([]*model.Auction, int64, error)
	Update(ctx context.Context, auction *model.Auction) error
	Delete(ctx context.Context, id string) error
}

// ProjectRepository defines persistence operations for projects
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, filter model.ProjectFilter, page model.Page) ([]*model.Project, int64, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
}

// DeliverableRepository defines persistence operations for deliverables
type DeliverableRepository interface {
	Create(ctx context.Context, d *model.Deliverable) error
	GetByID(ctx context.Context, id string) (*model.Deliverable, error)
	List(ctx context.Context, filter model.DeliverableFilter, page model.Page) ([]*model.Deliverable, int64, error)
	Update(ctx context.Context, d *model.Deliverable) error
	Delete(ctx context.Context, id string) error
}

// EventRepository defines persistence operations for calendar events
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, filter model.EventFilter, page model.Page) ([]*model.Event, int64, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
}

// ImageMetadataRepository defines persistence operations for image metadata
type ImageMetadataRepository interface {
	Upsert(ctx context.Context, meta *model.ImageMetadata) error
	GetByImageID(ctx context.Context, imageID string) (*model.ImageMetadata, error)
	ExistingImageIDs(ctx context.Context, imageIDs []string) (map[string]bool, error)
	ListByCar(ctx context.Context, carID string) ([]*model.ImageMetadata, error)
	Delete(ctx context.Context, imageID string) error
}

// ActivityStore persists and serves the activity feed
type ActivityStore interface {
	Append(ctx context.Context, event *model.ActivityEvent) (string, error)
	Recent(ctx context.Context, collection string, afterID string, count int64) ([]*model.ActivityEvent, error)
}
