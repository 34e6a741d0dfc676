package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"motive-archive/internal/archive/domain/model"
	"motive-archive/internal/shared/eventbus"
	"motive-archive/internal/shared/logger"
)

type mockCarRepo struct {
	mock.Mock
}

func (m *mockCarRepo) Create(ctx context.Context, car *model.Car) error {
	return m.Called(ctx, car).Error(0)
}

func (m *mockCarRepo) GetByID(ctx context.Context, id string) (*model.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Car), args.Error(1)
}

func (m *mockCarRepo) List(ctx context.Context, filter model.CarFilter, page model.Page) ([]*model.Car, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Car), args.Get(1).(int64), args.Error(2)
}

func (m *mockCarRepo) Update(ctx context.Context, car *model.Car) error {
	return m.Called(ctx, car).Error(0)
}

func (m *mockCarRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// activityRecorder captures bus events for assertions
type activityRecorder struct {
	mu     sync.Mutex
	events []*model.ActivityEvent
	seen   chan struct{}
}

func newActivityRecorder(bus eventbus.EventBusInterface, eventTypes ...string) *activityRecorder {
	rec := &activityRecorder{seen: make(chan struct{}, 16)}
	for _, et := range eventTypes {
		bus.Subscribe(et, func(ctx context.Context, event eventbus.Event) error {
			if activity, ok := event.Data().(*model.ActivityEvent); ok {
				rec.mu.Lock()
				rec.events = append(rec.events, activity)
				rec.mu.Unlock()
				rec.seen <- struct{}{}
			}
			return nil
		})
	}
	return rec
}

func (r *activityRecorder) wait(t *testing.T) *model.ActivityEvent {
	t.Helper()
	select {
	case <-r.seen:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for activity event")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func TestCreateCar_PublishesActivity(t *testing.T) {
	cars := new(mockCarRepo)
	cars.On("Create", mock.Anything, mock.Anything).Return(nil)

	bus := eventbus.NewEventBus(logger.NewLogger())
	rec := newActivityRecorder(bus, "cars.created")

	uc := NewArchiveUsecase(Params{Cars: cars, Bus: bus, Logger: logger.NewLogger()})

	car := &model.Car{ID: primitive.NewObjectID(), Make: "BMW", Model: "E30 M3", Year: 1988}
	require.NoError(t, uc.CreateCar(context.Background(), car))

	event := rec.wait(t)
	assert.Equal(t, model.ActivityCreated, event.Action)
	assert.Equal(t, "cars", event.Collection)
	assert.Equal(t, car.ID.Hex(), event.EntityID)
	assert.Equal(t, "system", event.Actor)
}

func TestDeleteCar_PublishesActivity(t *testing.T) {
	cars := new(mockCarRepo)
	id := primitive.NewObjectID().Hex()
	cars.On("Delete", mock.Anything, id).Return(nil)

	bus := eventbus.NewEventBus(logger.NewLogger())
	rec := newActivityRecorder(bus, "cars.deleted")

	uc := NewArchiveUsecase(Params{Cars: cars, Bus: bus, Logger: logger.NewLogger()})
	require.NoError(t, uc.DeleteCar(context.Background(), id))

	event := rec.wait(t)
	assert.Equal(t, model.ActivityDeleted, event.Action)
	assert.Equal(t, id, event.EntityID)
}

func TestListCars_NormalizesPage(t *testing.T) {
	cars := new(mockCarRepo)
	cars.On("List", mock.Anything, model.CarFilter{}, model.Page{Number: 1, Size: 100}).
		Return([]*model.Car{}, int64(0), nil)

	uc := NewArchiveUsecase(Params{Cars: cars, Logger: logger.NewLogger()})

	result, err := uc.ListCars(context.Background(), model.CarFilter{}, model.Page{Number: -1, Size: 9999})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 100, result.PageSize)
	cars.AssertExpectations(t)
}

func TestGetActivity_NilStoreReturnsEmpty(t *testing.T) {
	uc := NewArchiveUsecase(Params{Logger: logger.NewLogger()})
	events, err := uc.GetActivity(context.Background(), "cars", "", 100)
	require.NoError(t, err)
	assert.Empty(t, events)
}
