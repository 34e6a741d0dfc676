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

// MongoCarRepository implements CarRepository using MongoDB
type MongoCarRepository struct {
	collection *mongo.Collection
}

// NewMongoCarRepository creates a new car repository and ensures indexes
func NewMongoCarRepository(db *mongo.Database) (*MongoCarRepository, error) {
	repo := &MongoCarRepository{collection: db.Collection("cars")}

	ctx := context.Background()
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "make", Value: 1}, {Key: "model", Value: 1}, {Key: "year", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{
			{Key: "make", Value: "text"},
			{Key: "model", Value: "text"},
			{Key: "description", Value: "text"},
		}},
	}
	if _, err := repo.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}

	return repo, nil
}

// Create inserts a new car
func (r *MongoCarRepository) Create(ctx context.Context, car *model.Car) error {
	now := time.Now()
	car.CreatedAt = now
	car.UpdatedAt = now
	if car.ID.IsZero() {
		car.ID = primitive.NewObjectID()
	}
	if car.Images == nil {
		car.Images = []string{}
	}
	if car.Status == "" {
		car.Status = model.CarStatusAvailable
	}

	_, err := r.collection.InsertOne(ctx, car)
	return err
}

// GetByID finds a car by id
func (r *MongoCarRepository) GetByID(ctx context.Context, id string) (*model.Car, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var car model.Car
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&car)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrCarNotFound
		}
		return nil, err
	}
	return &car, nil
}

// List returns a filtered, paginated page of cars with the total count
func (r *MongoCarRepository) List(ctx context.Context, filter model.CarFilter, page model.Page) ([]*model.Car, int64, error) {
	query := buildCarFilter(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())

	cursor, err := r.collection.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	cars := []*model.Car{}
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

// Update replaces the mutable fields of a car
func (r *MongoCarRepository) Update(ctx context.Context, car *model.Car) error {
	car.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"make":        car.Make,
		"model":       car.Model,
		"year":        car.Year,
		"vin":         car.VIN,
		"color":       car.Color,
		"mileage":     car.Mileage,
		"price":       car.Price,
		"status":      car.Status,
		"description": car.Description,
		"images":      car.Images,
		"client_id":   car.ClientID,
		"updated_at":  car.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": car.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrCarNotFound
	}
	return nil
}

// Delete removes a car
func (r *MongoCarRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrCarNotFound
	}
	return nil
}

var _ repository.CarRepository = (*MongoCarRepository)(nil)
