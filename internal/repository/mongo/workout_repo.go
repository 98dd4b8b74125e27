// internal/repository/mongo/workout_repo.go
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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	src DatabaseSource
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(src DatabaseSource) repository.WorkoutRepository {
	return &mongoWorkoutRepository{src: src}
}

// Create inserts a new workout plan.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.OwnerID == "" || workout.Topic == "" || workout.Date == "" || workout.Plan == nil {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	coll, err := collection(ctx, r.src, workoutCollectionName)
	if err != nil {
		return primitive.NilObjectID, err
	}

	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := coll.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout owned by ownerID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID, ownerID string) (*domain.Workout, error) {
	coll, err := collection(ctx, r.src, workoutCollectionName)
	if err != nil {
		return nil, err
	}
	var workout domain.Workout
	err = coll.FindOne(ctx, bson.M{"_id": id, "userId": ownerID}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// ListByOwner retrieves all workouts of an owner, newest first.
func (r *mongoWorkoutRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Workout, error) {
	coll, err := collection(ctx, r.src, workoutCollectionName)
	if err != nil {
		return nil, err
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := coll.Find(ctx, bson.M{"userId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := []domain.Workout{}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Update replaces the editable fields of a workout. Owner and generation
// never change.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID || workout.OwnerID == "" {
		return errors.New("workout ID and owner are required for update")
	}
	coll, err := collection(ctx, r.src, workoutCollectionName)
	if err != nil {
		return err
	}

	workout.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"topic":     workout.Topic,
			"date":      workout.Date,
			"plan":      workout.Plan,
			"updatedAt": workout.UpdatedAt,
		},
	}
	result, err := coll.UpdateOne(ctx, bson.M{"_id": workout.ID, "userId": workout.OwnerID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout if it belongs to ownerID.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	coll, err := collection(ctx, r.src, workoutCollectionName)
	if err != nil {
		return err
	}
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Not found OR not owned by this user.
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, ownerHistoryIndexes())
	return err
}

// ownerHistoryIndexes serve the owner-scoped, newest-first listings and the
// per-generation correlation lookups shared by all plan collections.
func ownerHistoryIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "generationId", Value: 1}}},
	}
}
