package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project statuses
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// Timeline bounds a project's schedule
type Timeline struct {
	StartDate *time.Time `json:"startDate,omitempty" bson:"start_date,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty" bson:"end_date,omitempty"`
}

// Project is a content-production engagement, photoshoots, films, listings
type Project struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Type        string             `json:"type" bson:"type"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Status      string             `json:"status" bson:"status"`
	ClientID    string             `json:"clientId,omitempty" bson:"client_id,omitempty"`
	CarIDs      []string           `json:"carIds" bson:"car_ids"`
	MemberIDs   []string           `json:"memberIds" bson:"member_ids"`
	Timeline    Timeline           `json:"timeline" bson:"timeline"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ProjectFilter narrows project list queries
type ProjectFilter struct {
	Status   string
	Type     string
	ClientID string
	MemberID string
}

// Deliverable statuses
const (
	DeliverableNotStarted = "not_started"
	DeliverableInProgress = "in_progress"
	DeliverableDone       = "done"
)

// Deliverable is a unit of content owed to a client, a cut, a gallery, a post
type Deliverable struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID   string             `json:"projectId,omitempty" bson:"project_id,omitempty"`
	CarID       string             `json:"carId,omitempty" bson:"car_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Platform    string             `json:"platform" bson:"platform"`
	Type        string             `json:"type" bson:"type"`
	Status      string             `json:"status" bson:"status"`
	Editor      string             `json:"editor,omitempty" bson:"editor,omitempty"`
	AspectRatio string             `json:"aspectRatio,omitempty" bson:"aspect_ratio,omitempty"`
	Duration    int                `json:"duration,omitempty" bson:"duration,omitempty"`
	ReleaseDate *time.Time         `json:"releaseDate,omitempty" bson:"release_date,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// DeliverableFilter narrows deliverable list queries
type DeliverableFilter struct {
	ProjectID string
	CarID     string
	Status    string
	Platform  string
	Editor    string
}
