package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types
const (
	EventTypeShoot    = "shoot"
	EventTypeEdit     = "edit"
	EventTypeDelivery = "delivery"
	EventTypeOther    = "other"
)

// Event is a scheduled calendar entry attached to a car or project
type Event struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CarID     string             `json:"carId,omitempty" bson:"car_id,omitempty"`
	ProjectID string             `json:"projectId,omitempty" bson:"project_id,omitempty"`
	Type      string             `json:"type" bson:"type"`
	Title     string             `json:"title" bson:"title"`
	Start     time.Time          `json:"start" bson:"start"`
	End       *time.Time         `json:"end,omitempty" bson:"end,omitempty"`
	AllDay    bool               `json:"allDay" bson:"all_day"`
	Assignees []string           `json:"assignees" bson:"assignees"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// EventFilter narrows event list queries by parent and time window
type EventFilter struct {
	CarID     string
	ProjectID string
	Type      string
	From      *time.Time
	To        *time.Time
	Assignee  string
}
