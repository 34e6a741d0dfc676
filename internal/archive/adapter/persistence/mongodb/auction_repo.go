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

// MongoAuctionRepository implements AuctionRepository using MongoDB
type MongoAuctionRepository struct {
	collection *mongo.Collection
}

// NewMongoAuctionRepository creates a new auction repository and ensures indexes
func NewMongoAuctionRepository(db *mongo.Database) (*MongoAuctionRepository, error) {
	repo := &MongoAuctionRepository{collection: db.Collection("auctions")}

	ctx := context.Background()
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "platform", Value: 1}, {Key: "end_date", Value: 1}}},
		{Keys: bson.D{{Key: "make", Value: 1}, {Key: "year", Value: 1}}},
		// the same listing scraped twice must not duplicate
		{Keys: bson.D{{Key: "link", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	}
	if _, err := repo.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}

	return repo, nil
}

// Create inserts a new auction listing
func (r *MongoAuctionRepository) Create(ctx context.Context, auction *model.Auction) error {
	now := time.Now()
	auction.CreatedAt = now
	auction.UpdatedAt = now
	if auction.ID.IsZero() {
		auction.ID = primitive.NewObjectID()
	}
	if auction.Images == nil {
		auction.Images = []string{}
	}

	_, err := r.collection.InsertOne(ctx, auction)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("auction with this link already exists")
		}
		return err
	}
	return nil
}

// GetByID finds an auction by id
func (r *MongoAuctionRepository) GetByID(ctx context.Context, id string) (*model.Auction, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var auction model.Auction
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&auction)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrAuctionNotFound
		}
		return nil, err
	}
	return &auction, nil
}

// List returns a filtered, paginated page of auctions
func (r *MongoAuctionRepository) List(ctx context.Context, filter model.AuctionFilter, page model.Page) ([]*model.Auction, int64, error) {
	query := buildAuctionFilter(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "end_date", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())

	cursor, err := r.collection.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	auctions := []*model.Auction{}
	if err := cursor.All(ctx, &auctions); err != nil {
		return nil, 0, err
	}
	return auctions, total, nil
}

// Update replaces the mutable fields of an auction
func (r *MongoAuctionRepository) Update(ctx context.Context, auction *model.Auction) error {
	auction.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"title":       auction.Title,
		"make":        auction.Make,
		"model":       auction.Model,
		"year":        auction.Year,
		"platform":    auction.Platform,
		"link":        auction.Link,
		"excerpt":     auction.Excerpt,
		"images":      auction.Images,
		"current_bid": auction.CurrentBid,
		"end_date":    auction.EndDate,
		"status":      auction.Status,
		"updated_at":  auction.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": auction.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrAuctionNotFound
	}
	return nil
}

// Delete removes an auction
func (r *MongoAuctionRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrAuctionNotFound
	}
	return nil
}

var _ repository.AuctionRepository = (*MongoAuctionRepository)(nil)
