package api

import (
	"errors"
	"fmt"
	"net/http"

	"grindai/fitness-planner/internal/domain"
	"grindai/fitness-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryHandler serves the stored workouts, diet plans and profile
// snapshots of the authenticated user.
type HistoryHandler struct {
	historyService service.HistoryService
}

func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// --- DTOs ---

type UpdateWorkoutRequest struct {
	Topic string              `json:"topic"`
	Date  string              `json:"date"`
	Plan  []domain.DayWorkout `json:"plan"`
}

type UpdateDietPlanRequest struct {
	Topic string           `json:"topic"`
	Date  string           `json:"date"`
	Plan  []domain.DayDiet `json:"plan"`
}

// --- Workouts ---

// ListWorkouts godoc
// @Summary List the user's workouts, newest first
// @Tags History
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Workout
// @Router /workouts [get]
func (h *HistoryHandler) ListWorkouts(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	workouts, err := h.historyService.ListWorkouts(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *HistoryHandler) GetWorkout(c *gin.Context) {
	ownerID, id, ok := ownerAndID(c)
	if !ok {
		return
	}
	workout, err := h.historyService.GetWorkout(c.Request.Context(), ownerID, id)
	if err != nil {
		respondHistoryError(c, err, "workout")
		return
	}
	c.JSON(http.StatusOK, workout)
}

// UpdateWorkout godoc
// @Summary Replace the topic, date and days of a workout
// @Tags History
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param workout body UpdateWorkoutRequest true "New content"
// @Success 200 {object} domain.Workout
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [put]
func (h *HistoryHandler) UpdateWorkout(c *gin.Context) {
	ownerID, id, ok := ownerAndID(c)
	if !ok {
		return
	}
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	workout, err := h.historyService.UpdateWorkout(c.Request.Context(), ownerID, id,
		service.WorkoutUpdate{Topic: req.Topic, Date: req.Date, Plan: req.Plan})
	if err != nil {
		respondHistoryError(c, err, "workout")
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *HistoryHandler) DeleteWorkout(c *gin.Context) {
	ownerID, id, ok := ownerAndID(c)
	if !ok {
		return
	}
	if err := h.historyService.DeleteWorkout(c.Request.Context(), ownerID, id); err != nil {
		respondHistoryError(c, err, "workout")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Diet plans ---

func (h *HistoryHandler) ListDietPlans(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	plans, err := h.historyService.ListDietPlans(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve diet plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *HistoryHandler) GetDietPlan(c *gin.Context) {
	ownerID, id, ok := ownerAndID(c)
	if !ok {
		return
	}
	plan, err := h.historyService.GetDietPlan(c.Request.Context(), ownerID, id)
	if err != nil {
		respondHistoryError(c, err, "diet plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *HistoryHandler) UpdateDietPlan(c *gin.Context) {
	ownerID, id, ok := ownerAndID(c)
	if !ok {
		return
	}
	var req UpdateDietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	plan, err := h.historyService.UpdateDietPlan(c.Request.Context(), ownerID, id,
		service.DietPlanUpdate{Topic: req.Topic, Date: req.Date, Plan: req.Plan})
	if err != nil {
		respondHistoryError(c, err, "diet plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *HistoryHandler) DeleteDietPlan(c *gin.Context) {
	ownerID, id, ok := ownerAndID(c)
	if !ok {
		return
	}
	if err := h.historyService.DeleteDietPlan(c.Request.Context(), ownerID, id); err != nil {
		respondHistoryError(c, err, "diet plan")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Profile snapshots ---

func (h *HistoryHandler) ListDetails(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	details, err := h.historyService.ListDetails(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve details")
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *HistoryHandler) LatestDetail(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	detail, err := h.historyService.LatestDetail(c.Request.Context(), ownerID)
	if err != nil {
		respondHistoryError(c, err, "detail")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *HistoryHandler) DeleteDetail(c *gin.Context) {
	ownerID, id, ok := ownerAndID(c)
	if !ok {
		return
	}
	if err := h.historyService.DeleteDetail(c.Request.Context(), ownerID, id); err != nil {
		respondHistoryError(c, err, "detail")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- helpers ---

func ownerFromContext(c *gin.Context) (string, bool) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, unauthorizedMessage)
		return "", false
	}
	return ownerID, true
}

func ownerAndID(c *gin.Context) (string, primitive.ObjectID, bool) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid ID format")
		return "", primitive.NilObjectID, false
	}
	return ownerID, id, true
}

func respondHistoryError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, service.ErrRecordNotFound):
		abortWithError(c, http.StatusNotFound, fmt.Sprintf("%s not found", what))
	case errors.Is(err, service.ErrInvalidUpdate):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to process %s", what))
	}
}
