package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"motive-archive/internal/archive/domain/model"
	"motive-archive/internal/archive/domain/repository"
	apperrors "motive-archive/internal/shared/errors"
)

// MongoImageMetadataRepository implements ImageMetadataRepository using MongoDB
type MongoImageMetadataRepository struct {
	collection *mongo.Collection
}

// NewMongoImageMetadataRepository creates a new image metadata repository and ensures indexes
func NewMongoImageMetadataRepository(db *mongo.Database) (*MongoImageMetadataRepository, error) {
	repo := &MongoImageMetadataRepository{collection: db.Collection("image_metadata")}

	ctx := context.Background()
	imageIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "image_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, imageIDIndex); err != nil {
		return nil, err
	}

	carIndex := mongo.IndexModel{Keys: bson.D{{Key: "car_id", Value: 1}}}
	if _, err := repo.collection.Indexes().CreateOne(ctx, carIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// Upsert inserts or replaces metadata keyed by image_id
func (r *MongoImageMetadataRepository) Upsert(ctx context.Context, meta *model.ImageMetadata) error {
	now := time.Now()
	meta.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"car_id":      meta.CarID,
			"url":         meta.URL,
			"width":       meta.Width,
			"height":      meta.Height,
			"category":    meta.Category,
			"angle":       meta.Angle,
			"metadata":    meta.Metadata,
			"uploaded_at": meta.UploadedAt,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"image_id":   meta.ImageID,
			"created_at": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"image_id": meta.ImageID},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

// GetByImageID finds metadata for a Cloudflare image id
func (r *MongoImageMetadataRepository) GetByImageID(ctx context.Context, imageID string) (*model.ImageMetadata, error) {
	var meta model.ImageMetadata
	err := r.collection.FindOne(ctx, bson.M{"image_id": imageID}).Decode(&meta)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFoundError("image metadata")
		}
		return nil, err
	}
	return &meta, nil
}

// ExistingImageIDs reports which of the given image ids already have
// stored metadata. The migration worker uses this to skip known images.
func (r *MongoImageMetadataRepository) ExistingImageIDs(ctx context.Context, imageIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(imageIDs))
	if len(imageIDs) == 0 {
		return existing, nil
	}

	cursor, err := r.collection.Find(ctx,
		bson.M{"image_id": bson.M{"$in": imageIDs}},
		options.Find().SetProjection(bson.M{"image_id": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ImageID string `bson:"image_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		existing[doc.ImageID] = true
	}
	return existing, nil
}

// ListByCar returns all stored metadata for a car's images
func (r *MongoImageMetadataRepository) ListByCar(ctx context.Context, carID string) ([]*model.ImageMetadata, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"car_id": carID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	metas := []*model.ImageMetadata{}
	if err := cursor.All(ctx, &metas); err != nil {
		return nil, err
	}
	return metas, nil
}

// Delete removes metadata for an image id
func (r *MongoImageMetadataRepository) Delete(ctx context.Context, imageID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"image_id": imageID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError("image metadata")
	}
	return nil
}

var _ repository.ImageMetadataRepository = (*MongoImageMetadataRepository)(nil)
