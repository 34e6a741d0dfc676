package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishSync(t *testing.T) {
	bus := NewEventBus(nil)

	var called int32
	bus.Subscribe(EventTypeCarCreated, func(ctx context.Context, event Event) error {
		atomic.AddInt32(&called, 1)
		assert.Equal(t, EventTypeCarCreated, event.Type())
		return nil
	})

	err := bus.Publish(context.Background(), NewBasicEvent(EventTypeCarCreated, map[string]string{"carId": "abc"}))
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&called))
}

func TestEventBus_NoHandlers(t *testing.T) {
	bus := NewEventBus(nil)
	err := bus.Publish(context.Background(), NewBasicEvent(EventTypeProjectDeleted, nil))
	assert.NoError(t, err)
}

func TestEventBus_RetryOnFailure(t *testing.T) {
	bus := NewEventBusWithConfig(nil, BusConfig{
		AsyncProcessing: false,
		MaxRetries:      2,
		RetryDelay:      time.Millisecond,
	})

	var attempts int32
	bus.Subscribe(EventTypeAuctionUpdated, func(ctx context.Context, event Event) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient failure")
		}
		return nil
	})

	err := bus.Publish(context.Background(), NewBasicEvent(EventTypeAuctionUpdated, nil))
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestEventBus_RetryExhausted(t *testing.T) {
	bus := NewEventBusWithConfig(nil, BusConfig{
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	})

	bus.Subscribe(EventTypeCarDeleted, func(ctx context.Context, event Event) error {
		return errors.New("permanent failure")
	})

	err := bus.Publish(context.Background(), NewBasicEvent(EventTypeCarDeleted, nil))
	assert.Error(t, err)
}

func TestEventBus_MultipleHandlers(t *testing.T) {
	bus := NewEventBus(nil)

	var count int32
	handler := func(ctx context.Context, event Event) error {
		atomic.AddInt32(&count, 1)
		return nil
	}
	bus.Subscribe(EventTypeDeliverableCreated, handler)
	bus.Subscribe(EventTypeDeliverableCreated, handler)

	require.NoError(t, bus.Publish(context.Background(), NewBasicEvent(EventTypeDeliverableCreated, nil)))
	assert.Equal(t, int32(2), atomic.LoadInt32(&count))
	assert.Equal(t, 2, bus.GetSubscriberCount(EventTypeDeliverableCreated))
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(nil)
	bus.Subscribe(EventTypeProjectCreated, func(ctx context.Context, event Event) error { return nil })
	bus.Unsubscribe(EventTypeProjectCreated)
	assert.Equal(t, 0, bus.GetSubscriberCount(EventTypeProjectCreated))
}

func TestBasicEvent_Fields(t *testing.T) {
	ev := NewBasicEventWithSource(EventTypeUserAuthenticated, "payload", "auth")
	assert.Equal(t, EventTypeUserAuthenticated, ev.Type())
	assert.Equal(t, "payload", ev.Data())
	assert.Equal(t, "auth", ev.Source())
	assert.WithinDuration(t, time.Now(), ev.Timestamp(), time.Second)
}
