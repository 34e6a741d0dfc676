package usecase

import (
	"context"
	"time"

	"motive-archive/internal/archive/domain/model"
	"motive-archive/internal/archive/domain/repository"
	"motive-archive/internal/shared/eventbus"
	"motive-archive/internal/shared/logger"
	"motive-archive/internal/shared/utils"
)

// ArchiveUsecase exposes the domain operations of the archive
type ArchiveUsecase interface {
	CreateCar(ctx context.Context, car *model.Car) error
	GetCar(ctx context.Context, id string) (*model.Car, error)
	ListCars(ctx context.Context, filter model.CarFilter, page model.Page) (*model.PagedResult[*model.Car], error)
	UpdateCar(ctx context.Context, car *model.Car) error
	DeleteCar(ctx context.Context, id string) error

	ListMakes(ctx context.Context, activeOnly bool) ([]*model.Make, error)
	CreateMake(ctx context.Context, mk *model.Make) error
	DeleteMake(ctx context.Context, id string) error
	ListModels(ctx context.Context, make string) ([]*model.CarModel, error)
	CreateModel(ctx context.Context, m *model.CarModel) error
	DeleteModel(ctx context.Context, id string) error

	CreateAuction(ctx context.Context, auction *model.Auction) error
	GetAuction(ctx context.Context, id string) (*model.Auction, error)
	ListAuctions(ctx context.Context, filter model.AuctionFilter, page model.Page) (*model.PagedResult[*model.Auction], error)
	UpdateAuction(ctx context.Context, auction *model.Auction) error
	DeleteAuction(ctx context.Context, id string) error

	CreateProject(ctx context.Context, project *model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context, filter model.ProjectFilter, page model.Page) (*model.PagedResult[*model.Project], error)
	UpdateProject(ctx context.Context, project *model.Project) error
	DeleteProject(ctx context.Context, id string) error

	CreateDeliverable(ctx context.Context, d *model.Deliverable) error
	GetDeliverable(ctx context.Context, id string) (*model.Deliverable, error)
	ListDeliverables(ctx context.Context, filter model.DeliverableFilter, page model.Page) (*model.PagedResult[*model.Deliverable], error)
	UpdateDeliverable(ctx context.Context, d *model.Deliverable) error
	DeleteDeliverable(ctx context.Context, id string) error

	CreateEvent(ctx context.Context, event *model.Event) error
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context, filter model.EventFilter, page model.Page) (*model.PagedResult[*model.Event], error)
	UpdateEvent(ctx context.Context, event *model.Event) error
	DeleteEvent(ctx context.Context, id string) error

	GetActivity(ctx context.Context, collection string, afterID string, count int64) ([]*model.ActivityEvent, error)
}

type archiveUsecase struct {
	cars         repository.CarRepository
	makes        repository.MakeRepository
	carModels    repository.CarModelRepository
	auctions     repository.AuctionRepository
	projects     repository.ProjectRepository
	deliverables repository.DeliverableRepository
	events       repository.EventRepository
	activity     repository.ActivityStore
	bus          eventbus.EventBusInterface
	log          logger.Logger

	defaultPageSize int
	maxPageSize     int
}

// Params bundles the dependencies of the archive usecase
type Params struct {
	Cars         repository.CarRepository
	Makes        repository.MakeRepository
	CarModels    repository.CarModelRepository
	Auctions     repository.AuctionRepository
	Projects     repository.ProjectRepository
	Deliverables repository.DeliverableRepository
	Events       repository.EventRepository
	Activity     repository.ActivityStore
	Bus          eventbus.EventBusInterface
	Logger       logger.Logger

	DefaultPageSize int
	MaxPageSize     int
}

// NewArchiveUsecase creates the archive usecase
func NewArchiveUsecase(p Params) ArchiveUsecase {
	if p.DefaultPageSize <= 0 {
		p.DefaultPageSize = 20
	}
	if p.MaxPageSize <= 0 {
		p.MaxPageSize = 100
	}
	return &archiveUsecase{
		cars:            p.Cars,
		makes:           p.Makes,
		carModels:       p.CarModels,
		auctions:        p.Auctions,
		projects:        p.Projects,
		deliverables:    p.Deliverables,
		events:          p.Events,
		activity:        p.Activity,
		bus:             p.Bus,
		log:             p.Logger.WithComponent("archive_usecase"),
		defaultPageSize: p.DefaultPageSize,
		maxPageSize:     p.MaxPageSize,
	}
}

// publishActivity emits a mutation event on the in-process bus. Feed
// persistence happens in a subscriber, so a Redis outage never fails
// the write that triggered it.
func (uc *archiveUsecase) publishActivity(ctx context.Context, action, collection, entityID string, data map[string]interface{}) {
	if uc.bus == nil {
		return
	}

	event := &model.ActivityEvent{
		Action:     action,
		Collection: collection,
		EntityID:   entityID,
		Actor:      utils.GetUserIDOrDefault(ctx, "system"),
		Data:       data,
		Timestamp:  time.Now(),
	}
	uc.bus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
		collection+"."+action, event, "archive"))
}

func (uc *archiveUsecase) normalize(page model.Page) model.Page {
	return page.Normalize(uc.defaultPageSize, uc.maxPageSize)
}

// Cars

func (uc *archiveUsecase) CreateCar(ctx context.Context, car *model.Car) error {
	if err := uc.cars.Create(ctx, car); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityCreated, "cars", car.ID.Hex(), map[string]interface{}{
		"make": car.Make, "model": car.Model, "year": car.Year,
	})
	return nil
}

func (uc *archiveUsecase) GetCar(ctx context.Context, id string) (*model.Car, error) {
	return uc.cars.GetByID(ctx, id)
}

func (uc *archiveUsecase) ListCars(ctx context.Context, filter model.CarFilter, page model.Page) (*model.PagedResult[*model.Car], error) {
	page = uc.normalize(page)
	items, total, err := uc.cars.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &model.PagedResult[*model.Car]{Items: items, Total: total, Page: page.Number, PageSize: page.Size}, nil
}

func (uc *archiveUsecase) UpdateCar(ctx context.Context, car *model.Car) error {
	if err := uc.cars.Update(ctx, car); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityUpdated, "cars", car.ID.Hex(), map[string]interface{}{
		"status": car.Status,
	})
	return nil
}

func (uc *archiveUsecase) DeleteCar(ctx context.Context, id string) error {
	if err := uc.cars.Delete(ctx, id); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityDeleted, "cars", id, nil)
	return nil
}

// Reference data

func (uc *archiveUsecase) ListMakes(ctx context.Context, activeOnly bool) ([]*model.Make, error) {
	return uc.makes.List(ctx, activeOnly)
}

func (uc *archiveUsecase) CreateMake(ctx context.Context, mk *model.Make) error {
	return uc.makes.Create(ctx, mk)
}

func (uc *archiveUsecase) DeleteMake(ctx context.Context, id string) error {
	return uc.makes.Delete(ctx, id)
}

func (uc *archiveUsecase) ListModels(ctx context.Context, make string) ([]*model.CarModel, error) {
	return uc.carModels.ListByMake(ctx, make)
}

func (uc *archiveUsecase) CreateModel(ctx context.Context, m *model.CarModel) error {
	return uc.carModels.Create(ctx, m)
}

func (uc *archiveUsecase) DeleteModel(ctx context.Context, id string) error {
	return uc.carModels.Delete(ctx, id)
}

// Auctions

func (uc *archiveUsecase) CreateAuction(ctx context.Context, auction *model.Auction) error {
	if err := uc.auctions.Create(ctx, auction); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityCreated, "auctions", auction.ID.Hex(), map[string]interface{}{
		"platform": auction.Platform, "title": auction.Title,
	})
	return nil
}

func (uc *archiveUsecase) GetAuction(ctx context.Context, id string) (*model.Auction, error) {
	return uc.auctions.GetByID(ctx, id)
}

func (uc *archiveUsecase) ListAuctions(ctx context.Context, filter model.AuctionFilter, page model.Page) (*model.PagedResult[*model.Auction], error) {
	page = uc.normalize(page)
	items, total, err := uc.auctions.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &model.PagedResult[*model.Auction]{Items: items, Total: total, Page: page.Number, PageSize: page.Size}, nil
}

func (uc *archiveUsecase) UpdateAuction(ctx context.Context, auction *model.Auction) error {
	if err := uc.auctions.Update(ctx, auction); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityUpdated, "auctions", auction.ID.Hex(), map[string]interface{}{
		"status": auction.Status,
	})
	return nil
}

func (uc *archiveUsecase) DeleteAuction(ctx context.Context, id string) error {
	if err := uc.auctions.Delete(ctx, id); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityDeleted, "auctions", id, nil)
	return nil
}

// Projects

func (uc *archiveUsecase) CreateProject(ctx context.Context, project *model.Project) error {
	if err := uc.projects.Create(ctx, project); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityCreated, "projects", project.ID.Hex(), map[string]interface{}{
		"title": project.Title, "type": project.Type,
	})
	return nil
}

func (uc *archiveUsecase) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return uc.projects.GetByID(ctx, id)
}

func (uc *archiveUsecase) ListProjects(ctx context.Context, filter model.ProjectFilter, page model.Page) (*model.PagedResult[*model.Project], error) {
	page = uc.normalize(page)
	items, total, err := uc.projects.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &model.PagedResult[*model.Project]{Items: items, Total: total, Page: page.Number, PageSize: page.Size}, nil
}

func (uc *archiveUsecase) UpdateProject(ctx context.Context, project *model.Project) error {
	if err := uc.projects.Update(ctx, project); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityUpdated, "projects", project.ID.Hex(), map[string]interface{}{
		"status": project.Status,
	})
	return nil
}

func (uc *archiveUsecase) DeleteProject(ctx context.Context, id string) error {
	if err := uc.projects.Delete(ctx, id); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityDeleted, "projects", id, nil)
	return nil
}

// Deliverables

func (uc *archiveUsecase) CreateDeliverable(ctx context.Context, d *model.Deliverable) error {
	if err := uc.deliverables.Create(ctx, d); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityCreated, "deliverables", d.ID.Hex(), map[string]interface{}{
		"title": d.Title, "platform": d.Platform,
	})
	return nil
}

func (uc *archiveUsecase) GetDeliverable(ctx context.Context, id string) (*model.Deliverable, error) {
	return uc.deliverables.GetByID(ctx, id)
}

func (uc *archiveUsecase) ListDeliverables(ctx context.Context, filter model.DeliverableFilter, page model.Page) (*model.PagedResult[*model.Deliverable], error) {
	page = uc.normalize(page)
	items, total, err := uc.deliverables.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &model.PagedResult[*model.Deliverable]{Items: items, Total: total, Page: page.Number, PageSize: page.Size}, nil
}

func (uc *archiveUsecase) UpdateDeliverable(ctx context.Context, d *model.Deliverable) error {
	if err := uc.deliverables.Update(ctx, d); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityUpdated, "deliverables", d.ID.Hex(), map[string]interface{}{
		"status": d.Status,
	})
	return nil
}

func (uc *archiveUsecase) DeleteDeliverable(ctx context.Context, id string) error {
	if err := uc.deliverables.Delete(ctx, id); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityDeleted, "deliverables", id, nil)
	return nil
}

// Calendar events

func (uc *archiveUsecase) CreateEvent(ctx context.Context, event *model.Event) error {
	if err := uc.events.Create(ctx, event); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityCreated, "events", event.ID.Hex(), map[string]interface{}{
		"type": event.Type, "title": event.Title,
	})
	return nil
}

func (uc *archiveUsecase) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return uc.events.GetByID(ctx, id)
}

func (uc *archiveUsecase) ListEvents(ctx context.Context, filter model.EventFilter, page model.Page) (*model.PagedResult[*model.Event], error) {
	page = uc.normalize(page)
	items, total, err := uc.events.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &model.PagedResult[*model.Event]{Items: items, Total: total, Page: page.Number, PageSize: page.Size}, nil
}

func (uc *archiveUsecase) UpdateEvent(ctx context.Context, event *model.Event) error {
	if err := uc.events.Update(ctx, event); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityUpdated, "events", event.ID.Hex(), nil)
	return nil
}

func (uc *archiveUsecase) DeleteEvent(ctx context.Context, id string) error {
	if err := uc.events.Delete(ctx, id); err != nil {
		return err
	}
	uc.publishActivity(ctx, model.ActivityDeleted, "events", id, nil)
	return nil
}

// Activity feed

func (uc *archiveUsecase) GetActivity(ctx context.Context, collection string, afterID string, count int64) ([]*model.ActivityEvent, error) {
	if uc.activity == nil {
		return []*model.ActivityEvent{}, nil
	}
	return uc.activity.Recent(ctx, collection, afterID, count)
}

var _ ArchiveUsecase = (*archiveUsecase)(nil)
