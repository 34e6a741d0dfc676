package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResearchFile is an ingested research document scoped to a car. The
// embedding is the unit-normalized average of the file's chunk
// embeddings, so scoring a query is a single dot product per file.
type ResearchFile struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CarID     string             `json:"carId" bson:"car_id"`
	Filename  string             `json:"filename" bson:"filename"`
	Content   string             `json:"content" bson:"content"`
	Embedding []float64          `json:"-" bson:"embedding,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// SearchResult is a scored research file reference
type SearchResult struct {
	FileID   string  `json:"fileId"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
	Snippet  string  `json:"snippet,omitempty"`
}

// Answer is a synthesized response over the top search results
type Answer struct {
	Text    string         `json:"text"`
	Sources []SearchResult `json:"sources"`
}
