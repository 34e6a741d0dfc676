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

// MongoEventRepository implements EventRepository using MongoDB
type MongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates a new calendar event repository and ensures indexes
func NewMongoEventRepository(db *mongo.Database) (*MongoEventRepository, error) {
	repo := &MongoEventRepository{collection: db.Collection("events")}

	ctx := context.Background()
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "start", Value: 1}}},
		{Keys: bson.D{{Key: "car_id", Value: 1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}}},
	}
	if _, err := repo.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}

	return repo, nil
}

// Create inserts a new event
func (r *MongoEventRepository) Create(ctx context.Context, event *model.Event) error {
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Assignees == nil {
		event.Assignees = []string{}
	}

	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// GetByID finds an event by id
func (r *MongoEventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var event model.Event
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// List returns a filtered, paginated page of events ordered by start time
func (r *MongoEventRepository) List(ctx context.Context, filter model.EventFilter, page model.Page) ([]*model.Event, int64, error) {
	query := buildEventFilter(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "start", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())

	cursor, err := r.collection.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	events := []*model.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Update replaces the mutable fields of an event
func (r *MongoEventRepository) Update(ctx context.Context, event *model.Event) error {
	event.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"car_id":     event.CarID,
		"project_id": event.ProjectID,
		"type":       event.Type,
		"title":      event.Title,
		"start":      event.Start,
		"end":        event.End,
		"all_day":    event.AllDay,
		"assignees":  event.Assignees,
		"updated_at": event.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": event.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Delete removes an event
func (r *MongoEventRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

var _ repository.EventRepository = (*MongoEventRepository)(nil)
