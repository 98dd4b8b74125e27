package service

import (
	"context"
	"testing"

	"grindai/fitness-planner/internal/domain"
	"grindai/fitness-planner/internal/repository/memrepo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedWorkout(t *testing.T, store *memrepo.Store, owner string) primitive.ObjectID {
	t.Helper()
	id, err := store.Workouts().Create(context.Background(), &domain.Workout{
		OwnerID: owner, GenerationID: "g1", Topic: "Weight Loss", Date: "2026-10-15",
		Plan: []domain.DayWorkout{{Day: domain.Monday, Exercises: []string{"Squats"}}},
	})
	require.NoError(t, err)
	return id
}

func TestHistoryService_Workouts(t *testing.T) {
	ctx := context.Background()

	t.Run("should update a workout with valid days", func(t *testing.T) {
		store := memrepo.New()
		svc := NewHistoryService(store.Workouts(), store.DietPlans(), store.Details())
		id := seedWorkout(t, store, "u1")

		updated, err := svc.UpdateWorkout(ctx, "u1", id, WorkoutUpdate{
			Topic: " Endurance ",
			Date:  "2026-10-20",
			Plan:  []domain.DayWorkout{{Day: domain.Saturday}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Endurance", updated.Topic)
		assert.Equal(t, "g1", updated.GenerationID)
		assert.NotNil(t, updated.Plan[0].Exercises)

		got, err := svc.GetWorkout(ctx, "u1", id)
		require.NoError(t, err)
		assert.Equal(t, "2026-10-20", got.Date)
	})

	t.Run("should reject invalid updates", func(t *testing.T) {
		store := memrepo.New()
		svc := NewHistoryService(store.Workouts(), store.DietPlans(), store.Details())
		id := seedWorkout(t, store, "u1")

		cases := map[string]WorkoutUpdate{
			"missing topic":  {Date: "2026-10-20", Plan: []domain.DayWorkout{}},
			"bad date":       {Topic: "x", Date: "20/10/2026", Plan: []domain.DayWorkout{}},
			"missing plan":   {Topic: "x", Date: "2026-10-20"},
			"lowercase day":  {Topic: "x", Date: "2026-10-20", Plan: []domain.DayWorkout{{Day: "monday"}}},
			"duplicated day": {Topic: "x", Date: "2026-10-20", Plan: []domain.DayWorkout{{Day: domain.Monday}, {Day: domain.Monday}}},
		}
		for name, update := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := svc.UpdateWorkout(ctx, "u1", id, update)
				assert.ErrorIs(t, err, ErrInvalidUpdate)
			})
		}
	})

	t.Run("should treat other owners' records as missing", func(t *testing.T) {
		store := memrepo.New()
		svc := NewHistoryService(store.Workouts(), store.DietPlans(), store.Details())
		id := seedWorkout(t, store, "u1")

		_, err := svc.GetWorkout(ctx, "u2", id)
		assert.ErrorIs(t, err, ErrRecordNotFound)
		_, err = svc.UpdateWorkout(ctx, "u2", id, WorkoutUpdate{Topic: "x", Date: "2026-10-20", Plan: []domain.DayWorkout{}})
		assert.ErrorIs(t, err, ErrRecordNotFound)
		assert.ErrorIs(t, svc.DeleteWorkout(ctx, "u2", id), ErrRecordNotFound)

		require.NoError(t, svc.DeleteWorkout(ctx, "u1", id))
		list, err := svc.ListWorkouts(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestHistoryService_DietPlansAndDetails(t *testing.T) {
	ctx := context.Background()
	store := memrepo.New()
	svc := NewHistoryService(store.Workouts(), store.DietPlans(), store.Details())

	id, err := store.DietPlans().Create(ctx, &domain.DietPlan{
		OwnerID: "u1", GenerationID: "g1", Topic: "Weight Gain", Date: "2026-10-15", Plan: []domain.DayDiet{},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateDietPlan(ctx, "u1", id, DietPlanUpdate{
		Topic: "Weight Gain",
		Date:  "2026-10-16",
		Plan:  []domain.DayDiet{{Day: domain.Sunday, Meals: domain.DayMeals{Dinner: []string{"Pasta"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{}, updated.Plan[0].Meals.Breakfast)

	_, err = svc.UpdateDietPlan(ctx, "u1", id, DietPlanUpdate{
		Topic: "Weight Gain", Date: "2026-10-16", Plan: []domain.DayDiet{{Day: "Someday"}},
	})
	assert.ErrorIs(t, err, ErrInvalidUpdate)

	_, err = svc.LatestDetail(ctx, "u1")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	detailID, err := store.Details().Create(ctx, domain.NewDetail("u1", "g1", "2026-10-15",
		domain.UserProfile{Name: "Sam", Age: 30, FitnessGoal: "Weight Gain", DaysPerWeek: 4, FitnessLevel: domain.LevelAdvanced}))
	require.NoError(t, err)

	latest, err := svc.LatestDetail(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, latest.WorkoutDaysPerWeek)

	require.NoError(t, svc.DeleteDetail(ctx, "u1", detailID))
	details, err := svc.ListDetails(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, details)
}
