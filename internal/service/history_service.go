package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"grindai/fitness-planner/internal/domain"
	"grindai/fitness-planner/internal/planner"
	"grindai/fitness-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidUpdate  = errors.New("invalid update")
)

// WorkoutUpdate carries the editable fields of a stored workout.
type WorkoutUpdate struct {
	Topic string
	Date  string
	Plan  []domain.DayWorkout
}

// DietPlanUpdate carries the editable fields of a stored diet plan.
type DietPlanUpdate struct {
	Topic string
	Date  string
	Plan  []domain.DayDiet
}

// --- Service Interface ---

// HistoryService reads and edits previously generated records. Every call
// is scoped to the owner; records of other owners behave as missing.
type HistoryService interface {
	ListWorkouts(ctx context.Context, ownerID string) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, ownerID string, id primitive.ObjectID) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, ownerID string, id primitive.ObjectID, update WorkoutUpdate) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, ownerID string, id primitive.ObjectID) error

	ListDietPlans(ctx context.Context, ownerID string) ([]domain.DietPlan, error)
	GetDietPlan(ctx context.Context, ownerID string, id primitive.ObjectID) (*domain.DietPlan, error)
	UpdateDietPlan(ctx context.Context, ownerID string, id primitive.ObjectID, update DietPlanUpdate) (*domain.DietPlan, error)
	DeleteDietPlan(ctx context.Context, ownerID string, id primitive.ObjectID) error

	ListDetails(ctx context.Context, ownerID string) ([]domain.Detail, error)
	LatestDetail(ctx context.Context, ownerID string) (*domain.Detail, error)
	DeleteDetail(ctx context.Context, ownerID string, id primitive.ObjectID) error
}

// --- Service Implementation ---

type historyService struct {
	workoutRepo  repository.WorkoutRepository
	dietPlanRepo repository.DietPlanRepository
	detailRepo   repository.DetailRepository
}

// NewHistoryService creates a new instance of historyService.
func NewHistoryService(
	workoutRepo repository.WorkoutRepository,
	dietPlanRepo repository.DietPlanRepository,
	detailRepo repository.DetailRepository,
) HistoryService {
	return &historyService{
		workoutRepo:  workoutRepo,
		dietPlanRepo: dietPlanRepo,
		detailRepo:   detailRepo,
	}
}

// === Workouts ===

func (s *historyService) ListWorkouts(ctx context.Context, ownerID string) ([]domain.Workout, error) {
	return s.workoutRepo.ListByOwner(ctx, ownerID)
}

func (s *historyService) GetWorkout(ctx context.Context, ownerID string, id primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, id, ownerID)
	return workout, notFound(err)
}

// UpdateWorkout replaces topic, date and days after running the day checks
// applied to freshly generated plans.
func (s *historyService) UpdateWorkout(ctx context.Context, ownerID string, id primitive.ObjectID, update WorkoutUpdate) (*domain.Workout, error) {
	if err := checkHeader(update.Topic, update.Date, update.Plan == nil); err != nil {
		return nil, err
	}
	if err := planner.ValidateWorkoutPlan(update.Plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}

	workout, err := s.workoutRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound(err)
	}
	workout.Topic = strings.TrimSpace(update.Topic)
	workout.Date = update.Date
	workout.Plan = normalizeWorkoutDays(update.Plan)
	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, notFound(err)
	}
	return workout, nil
}

func (s *historyService) DeleteWorkout(ctx context.Context, ownerID string, id primitive.ObjectID) error {
	return notFound(s.workoutRepo.Delete(ctx, id, ownerID))
}

// === Diet plans ===

func (s *historyService) ListDietPlans(ctx context.Context, ownerID string) ([]domain.DietPlan, error) {
	return s.dietPlanRepo.ListByOwner(ctx, ownerID)
}

func (s *historyService) GetDietPlan(ctx context.Context, ownerID string, id primitive.ObjectID) (*domain.DietPlan, error) {
	plan, err := s.dietPlanRepo.GetByID(ctx, id, ownerID)
	return plan, notFound(err)
}

func (s *historyService) UpdateDietPlan(ctx context.Context, ownerID string, id primitive.ObjectID, update DietPlanUpdate) (*domain.DietPlan, error) {
	if err := checkHeader(update.Topic, update.Date, update.Plan == nil); err != nil {
		return nil, err
	}
	if err := planner.ValidateDietPlan(update.Plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}

	plan, err := s.dietPlanRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound(err)
	}
	plan.Topic = strings.TrimSpace(update.Topic)
	plan.Date = update.Date
	plan.Plan = normalizeDietDays(update.Plan)
	if err := s.dietPlanRepo.Update(ctx, plan); err != nil {
		return nil, notFound(err)
	}
	return plan, nil
}

func (s *historyService) DeleteDietPlan(ctx context.Context, ownerID string, id primitive.ObjectID) error {
	return notFound(s.dietPlanRepo.Delete(ctx, id, ownerID))
}

// === Profile snapshots ===

func (s *historyService) ListDetails(ctx context.Context, ownerID string) ([]domain.Detail, error) {
	return s.detailRepo.ListByOwner(ctx, ownerID)
}

func (s *historyService) LatestDetail(ctx context.Context, ownerID string) (*domain.Detail, error) {
	detail, err := s.detailRepo.GetLatest(ctx, ownerID)
	return detail, notFound(err)
}

func (s *historyService) DeleteDetail(ctx context.Context, ownerID string, id primitive.ObjectID) error {
	return notFound(s.detailRepo.Delete(ctx, id, ownerID))
}

// --- helpers ---

func checkHeader(topic, date string, planMissing bool) error {
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidUpdate)
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidUpdate)
	}
	if planMissing {
		return fmt.Errorf("%w: plan is required", ErrInvalidUpdate)
	}
	return nil
}

// notFound maps the repository's not-found error to the service one.
func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRecordNotFound
	}
	return err
}

func normalizeWorkoutDays(days []domain.DayWorkout) []domain.DayWorkout {
	p := domain.GeneratedPlan{WorkoutPlan: days}
	p.Normalize()
	return p.WorkoutPlan
}

func normalizeDietDays(days []domain.DayDiet) []domain.DayDiet {
	p := domain.GeneratedPlan{DietPlan: days}
	p.Normalize()
	return p.DietPlan
}
