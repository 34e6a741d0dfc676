package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"motive-archive/internal/archive/domain/model"
	"motive-archive/internal/archive/domain/repository"
	apperrors "motive-archive/internal/shared/errors"
)

// MongoDeliverableRepository implements DeliverableRepository using MongoDB
type MongoDeliverableRepository struct {
	collection *mongo.Collection
}

// NewMongoDeliverableRepository creates a new deliverable repository and ensures indexes
func NewMongoDeliverableRepository(db *mongo.Database) (*MongoDeliverableRepository, error) {
	repo := &MongoDeliverableRepository{collection: db.Collection("deliverables")}

	ctx := context.Background()
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "car_id", Value: 1}}},
		{Keys: bson.D{{Key: "release_date", Value: 1}}},
	}
	if _, err := repo.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}

	return repo, nil
}

// Create inserts a new deliverable
func (r *MongoDeliverableRepository) Create(ctx context.Context, d *model.Deliverable) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	if d.Status == "" {
		d.Status = model.DeliverableNotStarted
	}

	_, err := r.collection.InsertOne(ctx, d)
	return err
}

// GetByID finds a deliverable by id
func (r *MongoDeliverableRepository) GetByID(ctx context.Context, id string) (*model.Deliverable, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var d model.Deliverable
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrDeliverableNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns a filtered, paginated page of deliverables
func (r *MongoDeliverableRepository) List(ctx context.Context, filter model.DeliverableFilter, page model.Page) ([]*model.Deliverable, int64, error) {
	query := buildDeliverableFilter(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "release_date", Value: 1}, {Key: "created_at", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())

	cursor, err := r.collection.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	deliverables := []*model.Deliverable{}
	if err := cursor.All(ctx, &deliverables); err != nil {
		return nil, 0, err
	}
	return deliverables, total, nil
}

// Update replaces the mutable fields of a deliverable
func (r *MongoDeliverableRepository) Update(ctx context.Context, d *model.Deliverable) error {
	d.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"project_id":   d.ProjectID,
		"car_id":       d.CarID,
		"title":        d.Title,
		"platform":     d.Platform,
		"type":         d.Type,
		"status":       d.Status,
		"editor":       d.Editor,
		"aspect_ratio": d.AspectRatio,
		"duration":     d.Duration,
		"release_date": d.ReleaseDate,
		"updated_at":   d.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": d.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrDeliverableNotFound
	}
	return nil
}

// Delete removes a deliverable
func (r *MongoDeliverableRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrDeliverableNotFound
	}
	return nil
}

var _ repository.DeliverableRepository = (*MongoDeliverableRepository)(nil)
