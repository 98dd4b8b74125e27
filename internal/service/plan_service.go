package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"grindai/fitness-planner/internal/domain"
	"grindai/fitness-planner/internal/llm"
	"grindai/fitness-planner/internal/logger"
	"grindai/fitness-planner/internal/planner"
	"grindai/fitness-planner/internal/repository"
	"grindai/fitness-planner/internal/storage"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrPersistenceFailed   = errors.New("failed to persist generated plan")
	ErrInvalidGenerationID = errors.New("invalid generation ID")
	ErrTranscriptsDisabled = errors.New("transcript archive is disabled")
)

const transcriptWriteTimeout = 10 * time.Second

// Saga steps, in write order.
const (
	StepWorkout  = "workout"
	StepDietPlan = "dietPlan"
	StepDetail   = "detail"
)

// SagaError reports which write of a generation failed and which records
// were already stored before it. Stored records are not rolled back.
type SagaError struct {
	Step      string
	Completed []string
	Err       error
}

func (e *SagaError) Error() string {
	if len(e.Completed) == 0 {
		return fmt.Sprintf("%s write failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("%s write failed after %s: %v", e.Step, strings.Join(e.Completed, ", "), e.Err)
}

func (e *SagaError) Unwrap() error { return e.Err }

// Generation is the outcome of one successful run.
type Generation struct {
	ID   string
	Plan domain.GeneratedPlan
}

// --- Service Interface ---
type PlanService interface {
	// Generate runs the full pipeline for ownerID. The returned error wraps
	// exactly one of domain.ErrInvalidProfile, llm.ErrGenerationFailed,
	// planner.ErrRecoveryFailed, planner.ErrValidationFailed or
	// ErrPersistenceFailed.
	Generate(ctx context.Context, ownerID string, raw map[string]any) (*Generation, error)
	// TranscriptURL returns a temporary download link for the raw model
	// output of one of the owner's generations.
	TranscriptURL(ctx context.Context, ownerID, generationID string) (string, error)
}

// --- Service Implementation ---

type planService struct {
	workoutRepo  repository.WorkoutRepository
	dietPlanRepo repository.DietPlanRepository
	detailRepo   repository.DetailRepository
	generator    llm.Generator
	transcripts  storage.TranscriptStore
	recoverer    planner.Recoverer
	log          *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewPlanService wires the generation pipeline. A nil transcript store
// disables archiving.
func NewPlanService(
	workoutRepo repository.WorkoutRepository,
	dietPlanRepo repository.DietPlanRepository,
	detailRepo repository.DetailRepository,
	generator llm.Generator,
	transcripts storage.TranscriptStore,
	scanMode planner.ScanMode,
	log *logger.Logger,
) PlanService {
	if transcripts == nil {
		transcripts = storage.NewNoopStore()
	}
	return &planService{
		workoutRepo:  workoutRepo,
		dietPlanRepo: dietPlanRepo,
		detailRepo:   detailRepo,
		generator:    generator,
		transcripts:  transcripts,
		recoverer:    planner.Recoverer{Mode: scanMode},
		log:          log,
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
	}
}

func (s *planService) Generate(ctx context.Context, ownerID string, raw map[string]any) (*Generation, error) {
	profile, err := domain.NormalizeProfile(raw)
	if err != nil {
		return nil, err
	}

	generationID := s.newID()
	log := s.log.With("ownerId", ownerID, "generationId", generationID)

	text, err := s.generator.Generate(ctx, planner.BuildPrompt(profile))
	if err != nil {
		log.Error("plan generation failed", "kind", "generation", "error", err)
		if !errors.Is(err, llm.ErrGenerationFailed) {
			err = fmt.Errorf("%w: %v", llm.ErrGenerationFailed, err)
		}
		return nil, err
	}

	s.archive(ctx, log, ownerID, generationID, text)

	plan, err := s.recoverer.Recover(text)
	if err != nil {
		log.Error("plan recovery failed", "kind", "recovery", "error", err, "responseBytes", len(text))
		return nil, err
	}
	plan, err = planner.Validate(plan)
	if err != nil {
		log.Error("plan validation failed", "kind", "validation", "error", err)
		return nil, err
	}

	if err := s.persist(ctx, ownerID, generationID, profile, plan); err != nil {
		var saga *SagaError
		if errors.As(err, &saga) {
			log.Error("plan persistence failed", "kind", "persistence",
				"step", saga.Step, "completed", saga.Completed, "error", saga.Err)
		}
		return nil, err
	}

	log.Info("plan generated", "workoutDays", len(plan.WorkoutPlan), "dietDays", len(plan.DietPlan))
	return &Generation{ID: generationID, Plan: plan}, nil
}

// persist writes the workout, the diet plan and the profile snapshot in that
// order. The first failure stops the sequence.
func (s *planService) persist(ctx context.Context, ownerID, generationID string, profile domain.UserProfile, plan domain.GeneratedPlan) error {
	date := s.now().Format(domain.DateLayout)
	var completed []string

	steps := []struct {
		name  string
		write func() error
	}{
		{StepWorkout, func() error {
			_, err := s.workoutRepo.Create(ctx, &domain.Workout{
				OwnerID:      ownerID,
				GenerationID: generationID,
				Topic:        profile.FitnessGoal,
				Date:         date,
				Plan:         plan.WorkoutPlan,
			})
			return err
		}},
		{StepDietPlan, func() error {
			_, err := s.dietPlanRepo.Create(ctx, &domain.DietPlan{
				OwnerID:      ownerID,
				GenerationID: generationID,
				Topic:        profile.FitnessGoal,
				Date:         date,
				Plan:         plan.DietPlan,
			})
			return err
		}},
		{StepDetail, func() error {
			_, err := s.detailRepo.Create(ctx, domain.NewDetail(ownerID, generationID, date, profile))
			return err
		}},
	}

	for _, step := range steps {
		if err := step.write(); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistenceFailed, &SagaError{Step: step.name, Completed: completed, Err: err})
		}
		completed = append(completed, step.name)
	}
	return nil
}

// archive stores the raw response. Failures are logged and otherwise ignored.
func (s *planService) archive(ctx context.Context, log *logger.Logger, ownerID, generationID, text string) {
	ctx, cancel := context.WithTimeout(ctx, transcriptWriteTimeout)
	defer cancel()
	if err := s.transcripts.PutTranscript(ctx, ownerID, generationID, text); err != nil {
		log.Warn("failed to archive transcript", "error", err)
	}
}

func (s *planService) TranscriptURL(ctx context.Context, ownerID, generationID string) (string, error) {
	if _, err := uuid.Parse(generationID); err != nil {
		return "", ErrInvalidGenerationID
	}
	url, err := s.transcripts.TranscriptURL(ctx, ownerID, generationID, storage.DefaultPresignedURLExpiry)
	if errors.Is(err, storage.ErrStorageDisabled) {
		return "", ErrTranscriptsDisabled
	}
	return url, err
}
