// internal/repository/mongo/diet_plan_repo.go
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

const dietPlanCollectionName = "diet_plans"

// mongoDietPlanRepository implements repository.DietPlanRepository
type mongoDietPlanRepository struct {
	src DatabaseSource
}

// NewMongoDietPlanRepository creates a new DietPlan repository.
func NewMongoDietPlanRepository(src DatabaseSource) repository.DietPlanRepository {
	return &mongoDietPlanRepository{src: src}
}

// Create inserts a new diet plan.
func (r *mongoDietPlanRepository) Create(ctx context.Context, plan *domain.DietPlan) (primitive.ObjectID, error) {
	if plan.OwnerID == "" || plan.Topic == "" || plan.Date == "" || plan.Plan == nil {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	coll, err := collection(ctx, r.src, dietPlanCollectionName)
	if err != nil {
		return primitive.NilObjectID, err
	}

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := coll.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted diet plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single diet plan owned by ownerID.
func (r *mongoDietPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID, ownerID string) (*domain.DietPlan, error) {
	coll, err := collection(ctx, r.src, dietPlanCollectionName)
	if err != nil {
		return nil, err
	}
	var plan domain.DietPlan
	err = coll.FindOne(ctx, bson.M{"_id": id, "userId": ownerID}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListByOwner retrieves all diet plans of an owner, newest first.
func (r *mongoDietPlanRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.DietPlan, error) {
	coll, err := collection(ctx, r.src, dietPlanCollectionName)
	if err != nil {
		return nil, err
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := coll.Find(ctx, bson.M{"userId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.DietPlan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update replaces the editable fields of a diet plan. Owner and generation
// never change.
func (r *mongoDietPlanRepository) Update(ctx context.Context, plan *domain.DietPlan) error {
	if plan.ID == primitive.NilObjectID || plan.OwnerID == "" {
		return errors.New("diet plan ID and owner are required for update")
	}
	coll, err := collection(ctx, r.src, dietPlanCollectionName)
	if err != nil {
		return err
	}

	plan.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"topic":     plan.Topic,
			"date":      plan.Date,
			"plan":      plan.Plan,
			"updatedAt": plan.UpdatedAt,
		},
	}
	result, err := coll.UpdateOne(ctx, bson.M{"_id": plan.ID, "userId": plan.OwnerID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a diet plan if it belongs to ownerID.
func (r *mongoDietPlanRepository) Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	coll, err := collection(ctx, r.src, dietPlanCollectionName)
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

// EnsureDietPlanIndexes creates necessary indexes. Call during startup.
func EnsureDietPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, ownerHistoryIndexes())
	return err
}
