package repository

import (
	"context"

	"grindai/fitness-planner/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrDuplicateUser = RepositoryError("user with this email already exists")
	ErrInvalidRecord = RepositoryError("record is missing required fields")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// WorkoutRepository stores generated workout plans. Reads and writes other
// than Create are always scoped to an owner.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID, ownerID string) (*domain.Workout, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Workout, error) // Newest first
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error
}

// DietPlanRepository stores generated diet plans.
type DietPlanRepository interface {
	Create(ctx context.Context, plan *domain.DietPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID, ownerID string) (*domain.DietPlan, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.DietPlan, error)
	Update(ctx context.Context, plan *domain.DietPlan) error
	Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error
}

// DetailRepository stores profile snapshots. There is no Update: snapshots
// form an append-only history.
type DetailRepository interface {
	Create(ctx context.Context, detail *domain.Detail) (primitive.ObjectID, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Detail, error)
	GetLatest(ctx context.Context, ownerID string) (*domain.Detail, error)
	Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error
}
