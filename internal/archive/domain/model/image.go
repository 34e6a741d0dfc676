package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageMetadata mirrors the metadata Cloudflare Images holds for a
// delivery URL, cached locally so galleries never round-trip to the CDN
type ImageMetadata struct {
	ID         primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	ImageID    string                 `json:"imageId" bson:"image_id"`
	CarID      string                 `json:"carId,omitempty" bson:"car_id,omitempty"`
	URL        string                 `json:"url,omitempty" bson:"url,omitempty"`
	Width      int                    `json:"width,omitempty" bson:"width,omitempty"`
	Height     int                    `json:"height,omitempty" bson:"height,omitempty"`
	Category   string                 `json:"category,omitempty" bson:"category,omitempty"`
	Angle      string                 `json:"angle,omitempty" bson:"angle,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	UploadedAt *time.Time             `json:"uploadedAt,omitempty" bson:"uploaded_at,omitempty"`
	CreatedAt  time.Time              `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time              `json:"updatedAt" bson:"updated_at"`
}
