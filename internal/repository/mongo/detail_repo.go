// internal/repository/mongo/detail_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"grindai/fitness-planner/internal/domain"
	"grindai/fitness-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const detailCollectionName = "details"

// mongoDetailRepository implements repository.DetailRepository
type mongoDetailRepository struct {
	src DatabaseSource
}

// NewMongoDetailRepository creates a new profile snapshot repository.
func NewMongoDetailRepository(src DatabaseSource) repository.DetailRepository {
	return &mongoDetailRepository{src: src}
}

// Create appends a snapshot.
func (r *mongoDetailRepository) Create(ctx context.Context, detail *domain.Detail) (primitive.ObjectID, error) {
	if detail.OwnerID == "" || detail.Name == "" || detail.FitnessGoal == "" {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	coll, err := collection(ctx, r.src, detailCollectionName)
	if err != nil {
		return primitive.NilObjectID, err
	}

	detail.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	detail.CreatedAt = now
	detail.UpdatedAt = now

	result, err := coll.InsertOne(ctx, detail)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted detail ID")
	}
	return insertedID, nil
}

// ListByOwner returns the snapshot history of an owner, newest first.
func (r *mongoDetailRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Detail, error) {
	coll, err := collection(ctx, r.src, detailCollectionName)
	if err != nil {
		return nil, err
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := coll.Find(ctx, bson.M{"userId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	details := []domain.Detail{}
	if err = cursor.All(ctx, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// GetLatest returns the most recent snapshot of an owner.
func (r *mongoDetailRepository) GetLatest(ctx context.Context, ownerID string) (*domain.Detail, error) {
	coll, err := collection(ctx, r.src, detailCollectionName)
	if err != nil {
		return nil, err
	}
	var detail domain.Detail
	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err = coll.FindOne(ctx, bson.M{"userId": ownerID}, findOptions).Decode(&detail)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &detail, nil
}

// Delete removes a snapshot if it belongs to ownerID.
func (r *mongoDetailRepository) Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	coll, err := collection(ctx, r.src, detailCollectionName)
	if err != nil {
		return err
	}
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDetailIndexes creates necessary indexes. Call during startup.
func EnsureDetailIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, ownerHistoryIndexes())
	return err
}
