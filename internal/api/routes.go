package api

import (
	"net/http"
	"slices"

	"grindai/fitness-planner/internal/logger"
	"grindai/fitness-planner/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig collects what SetupRoutes wires together. A nil RateLimiter
// leaves plan generation unlimited.
type RouterConfig struct {
	JWTSecret        string
	AllowedOrigins   []string
	ExposeErrorCodes bool
	AuthService      service.AuthService
	PlanService      service.PlanService
	HistoryService   service.HistoryService
	RateLimiter      *RateLimiter
	Logger           *logger.Logger
}

func SetupRoutes(router *gin.Engine, cfg RouterConfig) {
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	authHandler := NewAuthHandler(cfg.AuthService)
	planHandler := NewPlanHandler(cfg.PlanService, cfg.ExposeErrorCodes)
	historyHandler := NewHistoryHandler(cfg.HistoryService)

	authMiddleware := AuthMiddleware(cfg.JWTSecret, cfg.Logger)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		generate := []gin.HandlerFunc{planHandler.Generate}
		if cfg.RateLimiter != nil {
			generate = append([]gin.HandlerFunc{cfg.RateLimiter.Middleware()}, generate...)
		}
		protected.POST("/plans/generate", generate...)
		protected.GET("/generations/:generationId/transcript", planHandler.TranscriptURL)

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", historyHandler.ListWorkouts)
			workoutGroup.GET("/:id", historyHandler.GetWorkout)
			workoutGroup.PUT("/:id", historyHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", historyHandler.DeleteWorkout)
		}

		dietGroup := protected.Group("/diet-plans")
		{
			dietGroup.GET("", historyHandler.ListDietPlans)
			dietGroup.GET("/:id", historyHandler.GetDietPlan)
			dietGroup.PUT("/:id", historyHandler.UpdateDietPlan)
			dietGroup.DELETE("/:id", historyHandler.DeleteDietPlan)
		}

		detailGroup := protected.Group("/details")
		{
			detailGroup.GET("", historyHandler.ListDetails)
			detailGroup.GET("/latest", historyHandler.LatestDetail)
			detailGroup.DELETE("/:id", historyHandler.DeleteDetail)
		}
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders: []string{generationIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
