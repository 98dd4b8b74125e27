package api

import (
	"errors"
	"net/http"
	"strings"

	"grindai/fitness-planner/internal/domain"
	"grindai/fitness-planner/internal/llm"
	"grindai/fitness-planner/internal/planner"
	"grindai/fitness-planner/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	generateFailedMessage = "Failed to generate and save plan"
	generationIDHeader    = "X-Generation-ID"
)

type PlanHandler struct {
	planService service.PlanService
	exposeCodes bool
}

// NewPlanHandler creates a PlanHandler. With exposeCodes set, failed
// generations also report which stage failed.
func NewPlanHandler(planService service.PlanService, exposeCodes bool) *PlanHandler {
	return &PlanHandler{planService: planService, exposeCodes: exposeCodes}
}

// Generate godoc
// @Summary Generate a weekly workout and diet plan
// @Description Builds a plan from the submitted profile with the model and stores a workout, a diet plan and a profile snapshot.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body object true "User profile"
// @Success 200 {object} domain.GeneratedPlan "Generated plan"
// @Failure 400 {object} gin.H "Invalid profile"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 429 {object} gin.H "Rate limit exceeded"
// @Failure 500 {object} gin.H "Failed to generate and save plan"
// @Router /plans/generate [post]
func (h *PlanHandler) Generate(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, unauthorizedMessage)
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid profile: body must be a JSON object")
		return
	}

	gen, err := h.planService.Generate(c.Request.Context(), ownerID, raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidProfile) {
			detail := strings.TrimPrefix(err.Error(), domain.ErrInvalidProfile.Error()+": ")
			abortWithError(c, http.StatusBadRequest, "Invalid profile: "+detail)
			return
		}
		body := gin.H{"error": generateFailedMessage}
		if h.exposeCodes {
			body["code"] = failureCode(err)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
		return
	}

	c.Header(generationIDHeader, gen.ID)
	c.JSON(http.StatusOK, gen.Plan)
}

// TranscriptURL godoc
// @Summary Get a download link for a generation's raw model output
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param generationId path string true "Generation ID"
// @Success 200 {object} gin.H "Presigned URL"
// @Failure 400 {object} gin.H "Invalid generation ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Transcript archive disabled"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /generations/{generationId}/transcript [get]
func (h *PlanHandler) TranscriptURL(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, unauthorizedMessage)
		return
	}

	url, err := h.planService.TranscriptURL(c.Request.Context(), ownerID, c.Param("generationId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGenerationID):
			abortWithError(c, http.StatusBadRequest, "Invalid generation ID format")
		case errors.Is(err, service.ErrTranscriptsDisabled):
			abortWithError(c, http.StatusNotFound, "Transcript archive is disabled")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create transcript link")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func failureCode(err error) string {
	switch {
	case errors.Is(err, llm.ErrGenerationFailed):
		return "generation_failed"
	case errors.Is(err, planner.ErrRecoveryFailed):
		return "recovery_failed"
	case errors.Is(err, planner.ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, service.ErrPersistenceFailed):
		return "persistence_failed"
	}
	return "internal_error"
}
