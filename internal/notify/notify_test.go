package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	archivemodel "motive-archive/internal/archive/domain/model"
	"motive-archive/internal/shared/eventbus"
	"motive-archive/internal/shared/logger"
)

type recordingNotifier struct {
	mu       sync.Mutex
	received []*Notification
	fail     bool
}

func (r *recordingNotifier) Notify(ctx context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return fmt.Errorf("broker unavailable")
	}
	r.received = append(r.received, n)
	return nil
}

func (r *recordingNotifier) Close() error { return nil }

func (r *recordingNotifier) notifications() []*Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Notification{}, r.received...)
}

func newSyncBus() eventbus.EventBusInterface {
	return eventbus.NewEventBus(logger.NewLogger())
}

func activityEvent(collection, action, entityID string) eventbus.Event {
	activity := &archivemodel.ActivityEvent{
		Action:     action,
		Collection: collection,
		EntityID:   entityID,
		Actor:      "curator@example.com",
		Timestamp:  time.Now(),
	}
	return eventbus.NewBasicEventWithSource(collection+"."+action, activity, "archive")
}

func TestSubscribeActivityForwardsProjectEvents(t *testing.T) {
	bus := newSyncBus()
	notifier := &recordingNotifier{}
	SubscribeActivity(bus, notifier, logger.NewLogger())

	err := bus.Publish(context.Background(), activityEvent("projects", archivemodel.ActivityCreated, "p1"))
	require.NoError(t, err)

	received := notifier.notifications()
	require.Len(t, received, 1)
	assert.Equal(t, "projects.created", received[0].EventType)
	assert.Equal(t, "p1", received[0].EntityID)
	assert.Equal(t, "curator@example.com", received[0].Actor)
}

func TestSubscribeActivityForwardsDeliverableEvents(t *testing.T) {
	bus := newSyncBus()
	notifier := &recordingNotifier{}
	SubscribeActivity(bus, notifier, logger.NewLogger())

	err := bus.Publish(context.Background(), activityEvent("deliverables", archivemodel.ActivityUpdated, "d1"))
	require.NoError(t, err)

	received := notifier.notifications()
	require.Len(t, received, 1)
	assert.Equal(t, "deliverables.updated", received[0].EventType)
}

func TestSubscribeActivityIgnoresUnwatchedCollections(t *testing.T) {
	bus := newSyncBus()
	notifier := &recordingNotifier{}
	SubscribeActivity(bus, notifier, logger.NewLogger())

	err := bus.Publish(context.Background(), activityEvent("cars", archivemodel.ActivityCreated, "c1"))
	require.NoError(t, err)

	assert.Empty(t, notifier.notifications())
}

func TestSubscribeActivityDeliveryFailureDoesNotPropagate(t *testing.T) {
	bus := newSyncBus()
	notifier := &recordingNotifier{fail: true}
	SubscribeActivity(bus, notifier, logger.NewLogger())

	err := bus.Publish(context.Background(), activityEvent("projects", archivemodel.ActivityDeleted, "p1"))
	assert.NoError(t, err)
}

func TestConsoleNotifier(t *testing.T) {
	notifier := NewConsoleNotifier(logger.NewLogger())

	err := notifier.Notify(context.Background(), &Notification{
		EventType:  "projects.created",
		Collection: "projects",
		EntityID:   "p1",
		Actor:      "system",
		Timestamp:  time.Now(),
	})

	assert.NoError(t, err)
	assert.NoError(t, notifier.Close())
}
