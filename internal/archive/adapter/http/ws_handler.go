package http

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"motive-archive/internal/archive/domain/model"
	"motive-archive/internal/shared/eventbus"
	"motive-archive/internal/shared/logger"
)

// watchedEventTypes lists the bus event types forwarded to live clients
var watchedEventTypes = []string{
	"cars.created", "cars.updated", "cars.deleted",
	"auctions.created", "auctions.updated", "auctions.deleted",
	"projects.created", "projects.updated", "projects.deleted",
	"deliverables.created", "deliverables.updated", "deliverables.deleted",
	"events.created", "events.updated", "events.deleted",
}

// ActivityHub fans activity events out to connected WebSocket clients
type ActivityHub struct {
	mu      sync.RWMutex
	clients map[chan *model.ActivityEvent]string
	logger  logger.Logger
}

// NewActivityHub creates a hub and subscribes it to the event bus
func NewActivityHub(bus eventbus.EventBusInterface, log logger.Logger) *ActivityHub {
	hub := &ActivityHub{
		clients: make(map[chan *model.ActivityEvent]string),
		logger:  log.WithComponent("activity_hub"),
	}

	for _, eventType := range watchedEventTypes {
		bus.Subscribe(eventType, hub.onEvent)
	}
	return hub
}

func (h *ActivityHub) onEvent(ctx context.Context, event eventbus.Event) error {
	activity, ok := event.Data().(*model.ActivityEvent)
	if !ok {
		return nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch, collection := range h.clients {
		if collection != "" && collection != activity.Collection {
			continue
		}
		select {
		case ch <- activity:
		default:
			// slow client, drop rather than block the bus
		}
	}
	return nil
}

// register adds a client channel, optionally filtered to one collection
func (h *ActivityHub) register(collection string) chan *model.ActivityEvent {
	ch := make(chan *model.ActivityEvent, 64)
	h.mu.Lock()
	h.clients[ch] = collection
	h.mu.Unlock()
	return ch
}

func (h *ActivityHub) unregister(ch chan *model.ActivityEvent) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

// WSActivityHandler serves the live activity WebSocket endpoint
type WSActivityHandler struct {
	hub    *ActivityHub
	logger logger.Logger
}

// NewWSActivityHandler creates the WebSocket activity handler
func NewWSActivityHandler(hub *ActivityHub, log logger.Logger) *WSActivityHandler {
	return &WSActivityHandler{
		hub:    hub,
		logger: log.WithComponent("ws_activity"),
	}
}

// RegisterRoutes mounts the WebSocket endpoint at /ws/v1/activity
func (h *WSActivityHandler) RegisterRoutes(app *fiber.App) {
	app.Use("/ws/v1/activity", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("collection", c.Query("collection"))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/v1/activity", websocket.New(h.handleConnection))
}

func (h *WSActivityHandler) handleConnection(conn *websocket.Conn) {
	collection, _ := conn.Locals("collection").(string)

	ch := h.hub.register(collection)
	defer h.hub.unregister(ch)

	h.logger.Info("Activity WebSocket connected",
		zap.String("collection", collection),
		zap.String("remote", conn.RemoteAddr().String()))

	done := make(chan struct{})

	// reader goroutine: keep-alive and close detection only, the feed
	// is one-directional
	go func() {
		defer close(done)
		for {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug("Activity WebSocket write failed", zap.Error(err))
				return
			}
		case <-done:
			h.logger.Debug("Activity WebSocket closed by client")
			return
		}
	}
}
