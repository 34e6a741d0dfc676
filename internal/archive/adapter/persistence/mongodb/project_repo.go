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

// MongoProjectRepository implements ProjectRepository using MongoDB
type MongoProjectRepository struct {
	collection *mongo.Collection
}

// NewMongoProjectRepository creates a new project repository and ensures indexes
func NewMongoProjectRepository(db *mongo.Database) (*MongoProjectRepository, error) {
	repo := &MongoProjectRepository{collection: db.Collection("projects")}

	ctx := context.Background()
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "member_ids", Value: 1}}},
	}
	if _, err := repo.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, err
	}

	return repo, nil
}

// Create inserts a new project
func (r *MongoProjectRepository) Create(ctx context.Context, project *model.Project) error {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	if project.CarIDs == nil {
		project.CarIDs = []string{}
	}
	if project.MemberIDs == nil {
		project.MemberIDs = []string{}
	}
	if project.Status == "" {
		project.Status = model.ProjectStatusDraft
	}

	_, err := r.collection.InsertOne(ctx, project)
	return err
}

// GetByID finds a project by id
func (r *MongoProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var project model.Project
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List returns a filtered, paginated page of projects
func (r *MongoProjectRepository) List(ctx context.Context, filter model.ProjectFilter, page model.Page) ([]*model.Project, int64, error) {
	query := buildProjectFilter(filter)

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

	projects := []*model.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Update replaces the mutable fields of a project
func (r *MongoProjectRepository) Update(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"title":       project.Title,
		"type":        project.Type,
		"description": project.Description,
		"status":      project.Status,
		"client_id":   project.ClientID,
		"car_ids":     project.CarIDs,
		"member_ids":  project.MemberIDs,
		"timeline":    project.Timeline,
		"updated_at":  project.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": project.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// Delete removes a project. Deliverables are not cascaded; a dangling
// project_id is tolerated by the deliverable queries.
func (r *MongoProjectRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

var _ repository.ProjectRepository = (*MongoProjectRepository)(nil)
