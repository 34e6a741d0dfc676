package model

import "time"

// Activity actions
const (
	ActivityCreated = "created"
	ActivityUpdated = "updated"
	ActivityDeleted = "deleted"
)

// ActivityEvent records a mutation against an archive collection. Events
// flow through the in-process bus into the Redis activity stream.
type ActivityEvent struct {
	ID         string                 `json:"id,omitempty"`
	Action     string                 `json:"action"`
	Collection string                 `json:"collection"`
	EntityID   string                 `json:"entityId"`
	Actor      string                 `json:"actor,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// StreamKey returns the Redis stream key for the event's collection
func (e *ActivityEvent) StreamKey() string {
	return "activity:" + e.Collection
}
