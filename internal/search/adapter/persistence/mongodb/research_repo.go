package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"motive-archive/internal/search/domain/model"
	"motive-archive/internal/search/domain/repository"
	apperrors "motive-archive/internal/shared/errors"
)

// MongoResearchRepository implements ResearchRepository using MongoDB
type MongoResearchRepository struct {
	collection *mongo.Collection
}

// NewMongoResearchRepository creates a new research repository and ensures indexes
func NewMongoResearchRepository(db *mongo.Database) (*MongoResearchRepository, error) {
	repo := &MongoResearchRepository{collection: db.Collection("research_files")}

	ctx := context.Background()
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "car_id", Value: 1}}},
		{Keys: bson.D{{Key: "content", Value: "text"}, {Key: "filename", Value: "text"}}},
	}
	if _, err := repo.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}

	return repo, nil
}

// Create inserts a new research file
func (r *MongoResearchRepository) Create(ctx context.Context, file *model.ResearchFile) error {
	now := time.Now()
	file.CreatedAt = now
	file.UpdatedAt = now
	if file.ID.IsZero() {
		file.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, file)
	return err
}

// GetByID finds a research file by id
func (r *MongoResearchRepository) GetByID(ctx context.Context, id string) (*model.ResearchFile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrInvalidObjectID
	}

	var file model.ResearchFile
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&file)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrResearchFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

// ListByCar returns all research files for a car, embeddings included
func (r *MongoResearchRepository) ListByCar(ctx context.Context, carID string) ([]*model.ResearchFile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"car_id": carID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	files := []*model.ResearchFile{}
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// KeywordSearch runs a $text query scoped to the car, sorted by
// textScore. Scores are raw Mongo text scores; normalization happens in
// the usecase where both result sets meet.
func (r *MongoResearchRepository) KeywordSearch(ctx context.Context, carID, query string, limit int) ([]*model.SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	filter := bson.M{
		"car_id": carID,
		"$text":  bson.M{"$search": query},
	}
	findOpts := options.Find().
		SetProjection(bson.M{
			"filename": 1,
			"content":  1,
			"score":    bson.M{"$meta": "textScore"},
		}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID       primitive.ObjectID `bson:"_id"`
		Filename string             `bson:"filename"`
		Content  string             `bson:"content"`
		Score    float64            `bson:"score"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	results := make([]*model.SearchResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, &model.SearchResult{
			FileID:   doc.ID.Hex(),
			Filename: doc.Filename,
			Score:    doc.Score,
			Snippet:  snippet(doc.Content, 240),
		})
	}
	return results, nil
}

// Delete removes a research file
func (r *MongoResearchRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrInvalidObjectID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrResearchFileNotFound
	}
	return nil
}

func snippet(content string, max int) string {
	if len(content) <= max {
		return content
	}
	return content[:max] + "..."
}

var _ repository.ResearchRepository = (*MongoResearchRepository)(nil)
