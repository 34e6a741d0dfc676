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

// MongoMakeRepository implements MakeRepository using MongoDB
type MongoMakeRepository struct {
	collection *mongo.Collection
}

// NewMongoMakeRepository creates a new make repository and ensures indexes
func NewMongoMakeRepository(db *mongo.Database) (*MongoMakeRepository, error) {
	repo := &MongoMakeRepository{collection: db.Collection("makes")}

	nameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.collection.Indexes().CreateOne(context.Background(), nameIndex); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoMakeRepository) Create(ctx context.Context, mk *model.Make) error {
	now := time.Now()
	mk.CreatedAt = now
	mk.UpdatedAt = now
	if mk.ID.IsZero() {
		mk.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, mk)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("make already exists")
		}
		return err
	}
	return nil
}

func (r *MongoMakeRepository) GetByID(ctx context.Context, id string) (*model.Make, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var mk model.Make
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&mk)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFoundError("make")
		}
		return nil, err
	}
	return &mk, nil
}

func (r *MongoMakeRepository) List(ctx context.Context, activeOnly bool) ([]*model.Make, error) {
	query := bson.M{}
	if activeOnly {
		query["active"] = true
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	makes := []*model.Make{}
	if err := cursor.All(ctx, &makes); err != nil {
		return nil, err
	}
	return makes, nil
}

func (r *MongoMakeRepository) Update(ctx context.Context, mk *model.Make) error {
	mk.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"name":              mk.Name,
		"country_of_origin": mk.CountryOfOrigin,
		"founded_year":      mk.FoundedYear,
		"active":            mk.Active,
		"updated_at":        mk.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": mk.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFoundError("make")
	}
	return nil
}

func (r *MongoMakeRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError("make")
	}
	return nil
}

// MongoCarModelRepository implements CarModelRepository using MongoDB
type MongoCarModelRepository struct {
	collection *mongo.Collection
}

// NewMongoCarModelRepository creates a new car model repository and ensures indexes
func NewMongoCarModelRepository(db *mongo.Database) (*MongoCarModelRepository, error) {
	repo := &MongoCarModelRepository{collection: db.Collection("models")}

	makeNameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "make", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.collection.Indexes().CreateOne(context.Background(), makeNameIndex); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoCarModelRepository) Create(ctx context.Context, m *model.CarModel) error {
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("model already exists for this make")
		}
		return err
	}
	return nil
}

func (r *MongoCarModelRepository) GetByID(ctx context.Context, id string) (*model.CarModel, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var m model.CarModel
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFoundError("model")
		}
		return nil, err
	}
	return &m, nil
}

func (r *MongoCarModelRepository) ListByMake(ctx context.Context, make string) ([]*model.CarModel, error) {
	query := bson.M{}
	if make != "" {
		query["make"] = make
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	models := []*model.CarModel{}
	if err := cursor.All(ctx, &models); err != nil {
		return nil, err
	}
	return models, nil
}

func (r *MongoCarModelRepository) Update(ctx context.Context, m *model.CarModel) error {
	m.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"make":       m.Make,
		"name":       m.Name,
		"year_start": m.YearStart,
		"year_end":   m.YearEnd,
		"body_style": m.BodyStyle,
		"updated_at": m.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": m.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFoundError("model")
	}
	return nil
}

func (r *MongoCarModelRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError("model")
	}
	return nil
}

var (
	_ repository.MakeRepository     = (*MongoMakeRepository)(nil)
	_ repository.CarModelRepository = (*MongoCarModelRepository)(nil)
)
