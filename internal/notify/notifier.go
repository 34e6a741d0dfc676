// Package notify forwards archive activity to outbound channels. The
// AMQP publisher feeds downstream consumers (dashboards, digests); the
// console notifier covers local development.
package notify

import (
	"context"
	"time"

	"motive-archive/internal/shared/logger"
)

// Notification is the outbound message shape
type Notification struct {
	EventType  string                 `json:"eventType"`
	Collection string                 `json:"collection"`
	EntityID   string                 `json:"entityId"`
	Actor      string                 `json:"actor"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// Notifier delivers notifications to an outbound channel
type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
	Close() error
}

// ConsoleNotifier writes notifications to the log
type ConsoleNotifier struct {
	log logger.Logger
}

// NewConsoleNotifier creates a log-backed notifier
func NewConsoleNotifier(log logger.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log.WithComponent("console_notifier")}
}

// Notify logs the notification
func (c *ConsoleNotifier) Notify(ctx context.Context, n *Notification) error {
	c.log.WithContext(ctx).Infof("Notification %s: %s %s by %s",
		n.EventType, n.Collection, n.EntityID, n.Actor)
	return nil
}

// Close is a no-op for the console notifier
func (c *ConsoleNotifier) Close() error { return nil }

var _ Notifier = (*ConsoleNotifier)(nil)
