package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Auction statuses
const (
	AuctionStatusLive     = "live"
	AuctionStatusEnded    = "ended"
	AuctionStatusUpcoming = "upcoming"
)

// Auction is an external auction listing tracked by the archive
type Auction struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	Make       string             `json:"make" bson:"make"`
	Model      string             `json:"model" bson:"model"`
	Year       int                `json:"year" bson:"year"`
	Platform   string             `json:"platform" bson:"platform"`
	Link       string             `json:"link" bson:"link"`
	Excerpt    string             `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	Images     []string           `json:"images" bson:"images"`
	CurrentBid *float64           `json:"currentBid,omitempty" bson:"current_bid,omitempty"`
	EndDate    *time.Time         `json:"endDate,omitempty" bson:"end_date,omitempty"`
	Status     string             `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
}

// AuctionFilter narrows auction list queries. Zero values are ignored.
type AuctionFilter struct {
	Make       string
	Platform   string
	YearMin    int
	YearMax    int
	EndsAfter  *time.Time
	EndsBefore *time.Time
	Status     string
}
