// Package memrepo keeps every repository in process memory. It backs the
// "serve --memory" mode and the service and API tests.
package memrepo

import (
	"context"
	"strings"
	"sync"
	"time"

	"grindai/fitness-planner/internal/domain"
	"grindai/fitness-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names accepted by Store.Fail.
const (
	UsersCollection     = "users"
	WorkoutsCollection  = "workouts"
	DietPlansCollection = "diet_plans"
	DetailsCollection   = "details"
)

// Store is a thread-safe in-memory document store. Records are kept in
// insertion order and listed newest first.
type Store struct {
	mu       sync.Mutex
	users    []domain.User
	workouts []domain.Workout
	diets    []domain.DietPlan
	details  []domain.Detail
	failures map[string]error
	now      func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		failures: make(map[string]error),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Fail makes every subsequent write to the collection return err. A nil err
// clears the failure.
func (s *Store) Fail(collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, collection)
		return
	}
	s.failures[collection] = err
}

// Count reports how many records a collection holds.
func (s *Store) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch collection {
	case UsersCollection:
		return len(s.users)
	case WorkoutsCollection:
		return len(s.workouts)
	case DietPlansCollection:
		return len(s.diets)
	case DetailsCollection:
		return len(s.details)
	}
	return 0
}

func (s *Store) Users() repository.UserRepository         { return userRepo{s} }
func (s *Store) Workouts() repository.WorkoutRepository   { return workoutRepo{s} }
func (s *Store) DietPlans() repository.DietPlanRepository { return dietPlanRepo{s} }
func (s *Store) Details() repository.DetailRepository     { return detailRepo{s} }

// writeErr must be called with mu held.
func (s *Store) writeErr(ctx context.Context, collection string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.failures[collection]
}

// --- users ---

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.writeErr(ctx, UsersCollection); err != nil {
		return primitive.NilObjectID, err
	}
	email := strings.ToLower(user.Email)
	for _, u := range r.s.users {
		if u.Email == email {
			return primitive.NilObjectID, repository.ErrDuplicateUser
		}
	}
	user.ID = primitive.NewObjectID()
	user.Email = email
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users = append(r.s.users, *user)
	return user.ID, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- workouts ---

type workoutRepo struct{ s *Store }

func (r workoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.OwnerID == "" || workout.Topic == "" || workout.Date == "" || workout.Plan == nil {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.writeErr(ctx, WorkoutsCollection); err != nil {
		return primitive.NilObjectID, err
	}
	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = r.s.now()
	workout.UpdatedAt = workout.CreatedAt
	r.s.workouts = append(r.s.workouts, *workout)
	return workout.ID, nil
}

func (r workoutRepo) GetByID(_ context.Context, id primitive.ObjectID, ownerID string) (*domain.Workout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.workouts {
		if w.ID == id && w.OwnerID == ownerID {
			return &w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r workoutRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Workout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Workout{}
	for i := len(r.s.workouts) - 1; i >= 0; i-- {
		if r.s.workouts[i].OwnerID == ownerID {
			out = append(out, r.s.workouts[i])
		}
	}
	return out, nil
}

func (r workoutRepo) Update(ctx context.Context, workout *domain.Workout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.writeErr(ctx, WorkoutsCollection); err != nil {
		return err
	}
	for i, w := range r.s.workouts {
		if w.ID == workout.ID && w.OwnerID == workout.OwnerID {
			w.Topic, w.Date, w.Plan = workout.Topic, workout.Date, workout.Plan
			w.UpdatedAt = r.s.now()
			r.s.workouts[i] = w
			*workout = w
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r workoutRepo) Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.writeErr(ctx, WorkoutsCollection); err != nil {
		return err
	}
	for i, w := range r.s.workouts {
		if w.ID == id && w.OwnerID == ownerID {
			r.s.workouts = append(r.s.workouts[:i], r.s.workouts[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- diet plans ---

type dietPlanRepo struct{ s *Store }

func (r dietPlanRepo) Create(ctx context.Context, plan *domain.DietPlan) (primitive.ObjectID, error) {
	if plan.OwnerID == "" || plan.Topic == "" || plan.Date == "" || plan.Plan == nil {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.writeErr(ctx, DietPlansCollection); err != nil {
		return primitive.NilObjectID, err
	}
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = r.s.now()
	plan.UpdatedAt = plan.CreatedAt
	r.s.diets = append(r.s.diets, *plan)
	return plan.ID, nil
}

func (r dietPlanRepo) GetByID(_ context.Context, id primitive.ObjectID, ownerID string) (*domain.DietPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.diets {
		if d.ID == id && d.OwnerID == ownerID {
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r dietPlanRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.DietPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.DietPlan{}
	for i := len(r.s.diets) - 1; i >= 0; i-- {
		if r.s.diets[i].OwnerID == ownerID {
			out = append(out, r.s.diets[i])
		}
	}
	return out, nil
}

func (r dietPlanRepo) Update(ctx context.Context, plan *domain.DietPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.writeErr(ctx, DietPlansCollection); err != nil {
		return err
	}
	for i, d := range r.s.diets {
		if d.ID == plan.ID && d.OwnerID == plan.OwnerID {
			d.Topic, d.Date, d.Plan = plan.Topic, plan.Date, plan.Plan
			d.UpdatedAt = r.s.now()
			r.s.diets[i] = d
			*plan = d
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r dietPlanRepo) Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.writeErr(ctx, DietPlansCollection); err != nil {
		return err
	}
	for i, d := range r.s.diets {
		if d.ID == id && d.OwnerID == ownerID {
			r.s.diets = append(r.s.diets[:i], r.s.diets[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- details ---

type detailRepo struct{ s *Store }

func (r detailRepo) Create(ctx context.Context, detail *domain.Detail) (primitive.ObjectID, error) {
	if detail.OwnerID == "" || detail.Name == "" || detail.FitnessGoal == "" {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.writeErr(ctx, DetailsCollection); err != nil {
		return primitive.NilObjectID, err
	}
	detail.ID = primitive.NewObjectID()
	detail.CreatedAt = r.s.now()
	detail.UpdatedAt = detail.CreatedAt
	r.s.details = append(r.s.details, *detail)
	return detail.ID, nil
}

func (r detailRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Detail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Detail{}
	for i := len(r.s.details) - 1; i >= 0; i-- {
		if r.s.details[i].OwnerID == ownerID {
			out = append(out, r.s.details[i])
		}
	}
	return out, nil
}

func (r detailRepo) GetLatest(_ context.Context, ownerID string) (*domain.Detail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.details) - 1; i >= 0; i-- {
		if r.s.details[i].OwnerID == ownerID {
			d := r.s.details[i]
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r detailRepo) Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.writeErr(ctx, DetailsCollection); err != nil {
		return err
	}
	for i, d := range r.s.details {
		if d.ID == id && d.OwnerID == ownerID {
			r.s.details = append(r.s.details[:i], r.s.details[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
