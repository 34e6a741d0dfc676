package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motive-archive/internal/archive/domain/model"
	"motive-archive/internal/shared/eventbus"
	"motive-archive/internal/shared/logger"
)

func publishActivity(t *testing.T, bus eventbus.EventBusInterface, collection, action string) *model.ActivityEvent {
	t.Helper()
	event := &model.ActivityEvent{
		Action:     action,
		Collection: collection,
		EntityID:   "entity-1",
		Actor:      "tester",
		Timestamp:  time.Now(),
	}
	require.NoError(t, bus.Publish(context.Background(),
		eventbus.NewBasicEventWithSource(collection+"."+action, event, "archive")))
	return event
}

func TestActivityHub_FansOutToAllClients(t *testing.T) {
	bus := eventbus.NewEventBus(logger.NewLogger())
	hub := NewActivityHub(bus, logger.NewLogger())

	first := hub.register("")
	second := hub.register("")
	defer hub.unregister(first)
	defer hub.unregister(second)

	sent := publishActivity(t, bus, "cars", "created")

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	got := <-first
	assert.Equal(t, sent.Collection, got.Collection)
	assert.Equal(t, sent.Action, got.Action)
}

func TestActivityHub_FiltersByCollection(t *testing.T) {
	bus := eventbus.NewEventBus(logger.NewLogger())
	hub := NewActivityHub(bus, logger.NewLogger())

	projectsOnly := hub.register("projects")
	all := hub.register("")
	defer hub.unregister(projectsOnly)
	defer hub.unregister(all)

	publishActivity(t, bus, "cars", "updated")
	publishActivity(t, bus, "projects", "created")

	require.Len(t, projectsOnly, 1, "filtered client should only see its collection")
	assert.Equal(t, "projects", (<-projectsOnly).Collection)
	assert.Len(t, all, 2, "unfiltered client sees everything")
}

func TestActivityHub_DropsEventsForSlowClient(t *testing.T) {
	bus := eventbus.NewEventBus(logger.NewLogger())
	hub := NewActivityHub(bus, logger.NewLogger())

	slow := hub.register("")
	healthy := hub.register("")
	defer hub.unregister(slow)
	defer hub.unregister(healthy)

	for i := 0; i < cap(slow); i++ {
		slow <- &model.ActivityEvent{Collection: "cars", Action: "created"}
	}

	done := make(chan struct{})
	go func() {
		event := &model.ActivityEvent{Collection: "cars", Action: "deleted"}
		bus.Publish(context.Background(),
			eventbus.NewBasicEventWithSource("cars.deleted", event, "archive"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a client with a full buffer")
	}

	assert.Len(t, slow, cap(slow), "full client buffer stays at capacity")
	assert.Len(t, healthy, 1, "other clients still receive the event")
}

func TestActivityHub_UnregisterStopsDelivery(t *testing.T) {
	bus := eventbus.NewEventBus(logger.NewLogger())
	hub := NewActivityHub(bus, logger.NewLogger())

	ch := hub.register("")
	hub.unregister(ch)

	publishActivity(t, bus, "cars", "created")

	_, open := <-ch
	assert.False(t, open, "unregistered channel should be closed")
}
