package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"grindai/fitness-planner/internal/api"
	"grindai/fitness-planner/internal/config"
	"grindai/fitness-planner/internal/llm"
	"grindai/fitness-planner/internal/logger"
	"grindai/fitness-planner/internal/planner"
	"grindai/fitness-planner/internal/repository"
	"grindai/fitness-planner/internal/repository/memrepo"
	"grindai/fitness-planner/internal/repository/mongo"
	"grindai/fitness-planner/internal/service"
	"grindai/fitness-planner/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

type repositories struct {
	users    repository.UserRepository
	workouts repository.WorkoutRepository
	diets    repository.DietPlanRepository
	details  repository.DetailRepository
}

func newServeCmd() *cobra.Command {
	var (
		configDir string
		inMemory  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configDir, inMemory)
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", ".", "directory holding config.yaml")
	cmd.Flags().BoolVar(&inMemory, "memory", false, "keep records in memory instead of MongoDB")
	return cmd
}

func runServe(ctx context.Context, configDir string, inMemory bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Configuration ---
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("could not build logger: %w", err)
	}
	defer log.Sync()
	if cfg.JWT.Secret == "" {
		return errors.New("jwt.secret must be set")
	}

	// --- Repositories ---
	var repos repositories
	if inMemory {
		log.Warn("using in-memory store; records are lost on exit")
		store := memrepo.New()
		repos = repositories{store.Users(), store.Workouts(), store.DietPlans(), store.Details()}
	} else {
		// Connects on first use; the index job below is usually that first use.
		conn := mongo.NewConnector(cfg.Database.URI, cfg.Database.Name)
		defer func() {
			log.Info("disconnecting MongoDB")
			if err := conn.Disconnect(); err != nil {
				log.Error("failed to disconnect MongoDB", "error", err)
			}
		}()
		go func() {
			ctx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			if err := mongo.EnsureIndexes(ctx, conn); err != nil {
				log.Error("index creation failed", "error", err)
				return
			}
			log.Info("index creation completed")
		}()
		repos = repositories{
			users:    mongo.NewMongoUserRepository(conn),
			workouts: mongo.NewMongoWorkoutRepository(conn),
			diets:    mongo.NewMongoDietPlanRepository(conn),
			details:  mongo.NewMongoDetailRepository(conn),
		}
	}

	// --- Collaborators ---
	generator, err := llm.NewGeminiClient(ctx, cfg.Gemini, log)
	if err != nil {
		return fmt.Errorf("could not create gemini client: %w", err)
	}
	transcripts, err := storage.NewS3Storage(ctx, cfg.S3, log)
	if err != nil {
		return fmt.Errorf("could not initialize transcript storage: %w", err)
	}

	var limiter *api.RateLimiter
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		limiter, err = api.NewRateLimiter(client, api.RateLimitConfig{
			Window: cfg.Redis.Window,
			Limit:  cfg.Redis.RateLimit,
		}, log)
		if err != nil {
			return fmt.Errorf("could not configure rate limiter: %w", err)
		}
		log.Info("plan generation rate limit enabled", "limit", cfg.Redis.RateLimit, "window", cfg.Redis.Window)
	}

	scanMode := planner.ScanStringAware
	if cfg.Planner.LegacyBraceScan {
		scanMode = planner.ScanLegacy
	}

	// --- Services ---
	authService := service.NewAuthService(repos.users, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(repos.workouts, repos.diets, repos.details, generator, transcripts, scanMode, log)
	historyService := service.NewHistoryService(repos.workouts, repos.diets, repos.details)

	// --- HTTP ---
	if cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, api.RouterConfig{
		JWTSecret:        cfg.JWT.Secret,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		ExposeErrorCodes: cfg.Server.ExposeErrorCodes,
		AuthService:      authService,
		PlanService:      planService,
		HistoryService:   historyService,
		RateLimiter:      limiter,
		Logger:           log,
	})

	server := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// A generation may take the whole model timeout before anything is written.
		WriteTimeout: cfg.Gemini.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exiting")
	return nil
}
