package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"motive-archive/internal/auth/domain/model"
	"motive-archive/internal/auth/domain/repository"
	apperrors "motive-archive/internal/shared/errors"
)

// MongoAPITokenRepository implements APITokenRepository using MongoDB
type MongoAPITokenRepository struct {
	collection *mongo.Collection
}

// NewMongoAPITokenRepository creates a new MongoDB API token repository
func NewMongoAPITokenRepository(db *mongo.Database) (*MongoAPITokenRepository, error) {
	repo := &MongoAPITokenRepository{
		collection: db.Collection("api_tokens"),
	}

	ctx := context.Background()

	tokenIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, tokenIndex); err != nil {
		return nil, err
	}

	userIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, userIndex); err != nil {
		return nil, err
	}

	// Expired tokens are reaped by MongoDB itself
	ttlIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := repo.collection.Indexes().CreateOne(ctx, ttlIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// Create inserts a new API token
func (r *MongoAPITokenRepository) Create(ctx context.Context, token *model.APIToken) error {
	token.CreatedAt = time.Now()
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("token collision, retry issuance")
		}
		return err
	}
	return nil
}

// GetByToken finds a token by its secret value
func (r *MongoAPITokenRepository) GetByToken(ctx context.Context, token string) (*model.APIToken, error) {
	var t model.APIToken
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrAPITokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByUser returns all tokens issued to a user
func (r *MongoAPITokenRepository) ListByUser(ctx context.Context, userID string) ([]*model.APIToken, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tokens []*model.APIToken
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// TouchLastUsed stamps the token's last-used time
func (r *MongoAPITokenRepository) TouchLastUsed(ctx context.Context, token string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"token": token},
		bson.M{"$set": bson.M{"last_used": time.Now()}},
	)
	return err
}

// Delete removes a token owned by the given user
func (r *MongoAPITokenRepository) Delete(ctx context.Context, id string, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrInvalidObjectID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrAPITokenNotFound
	}
	return nil
}

var _ repository.APITokenRepository = (*MongoAPITokenRepository)(nil)
