package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fitfusion/backend/internal/api"
	"fitfusion/backend/internal/config"
	"fitfusion/backend/internal/generation"
	"fitfusion/backend/internal/locker"
	"fitfusion/backend/internal/logger"
	"fitfusion/backend/internal/repository/mongo"
	"fitfusion/backend/internal/service"
	"fitfusion/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title FitFusion API
// @version 1.0
// @description API for AI-generated workout and diet plans, completion tracking and content administration.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer appLog.Sync()
	appLog.Info("starting FitFusion server", "address", cfg.Server.Address, "log_mode", cfg.Log.Mode)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		appLog.Fatal("could not connect to MongoDB", "error", err)
	}
	defer func() {
		appLog.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			appLog.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	// Synchronous: the one-active-bundle guard must exist before the first request.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), time.Minute)
	if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
		cancelIndex()
		appLog.Fatal("could not ensure indexes", "error", err)
	}
	cancelIndex()
	appLog.Info("database ready", "name", cfg.Database.Name)

	// --- Initialize Repositories ---
	tx := mongo.NewTransactor(dbClient)
	userRepo := mongo.NewMongoUserRepository(appDB)
	prefRepo := mongo.NewMongoPreferenceRepository(appDB)
	bundleRepo := mongo.NewMongoPlanBundleRepository(appDB)
	artifactRepo := mongo.NewMongoPlanArtifactRepository(appDB)
	genLogRepo := mongo.NewMongoGenerationLogRepository(appDB)
	completionRepo := mongo.NewMongoCompletionRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	foodRepo := mongo.NewMongoFoodItemRepository(appDB)

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, appLog)
		if err != nil {
			appLog.Fatal("failed to initialize S3 storage", "error", err)
		}
	} else {
		appLog.Warn("S3 bucket not configured; exercise media uploads disabled")
	}

	// --- Generation Locks ---
	var locks locker.Locker
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		redisLocker, err := locker.NewRedisLocker(appLog, locker.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.LockTTL,
		})
		if err != nil {
			appLog.Fatal("failed to connect to redis", "error", err)
		}
		defer redisLocker.Close()
		locks = redisLocker
	} else {
		appLog.Warn("redis not configured; generation locks are per process")
		locks = locker.NewLocalLocker()
	}

	// --- Generation Provider ---
	provider, err := generation.NewClient(appLog, generation.Config{
		BaseURL: cfg.Generation.BaseURL,
		APIKey:  cfg.Generation.APIKey,
		Timeout: cfg.Generation.Timeout,
	})
	if err != nil {
		appLog.Fatal("failed to build generation client", "error", err)
	}
	reindex := generation.NewDelayedReindexNotifier(provider, cfg.Generation.ReindexDelay, appLog)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, appLog)
	services := api.Services{
		Auth:       authService,
		User:       service.NewUserService(userRepo, prefRepo, appLog),
		Plan:       service.NewPlanService(tx, userRepo, prefRepo, bundleRepo, artifactRepo, genLogRepo, provider, locks, appLog),
		Completion: service.NewCompletionService(userRepo, bundleRepo, completionRepo, appLog),
		Stats:      service.NewStatsService(completionRepo),
		Content:    service.NewContentService(exerciseRepo, foodRepo, reindex, fileStorage, appLog),
		Admin:      service.NewAdminService(userRepo, exerciseRepo, foodRepo, bundleRepo, completionRepo, provider, appLog),
	}

	if cfg.Admin.Email != "" {
		seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
		err := authService.EnsureAdmin(seedCtx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		cancelSeed()
		if err != nil {
			appLog.Fatal("failed to seed admin account", "error", err)
		}
	}

	// --- Initialize Gin Engine ---
	if strings.EqualFold(cfg.Log.Mode, "prod") || strings.EqualFold(cfg.Log.Mode, "production") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(appLog), api.CORSMiddleware(cfg.Server.CORSOrigins))
	api.SetupRoutes(router, cfg.JWT.Secret, services)

	// --- Start HTTP Server ---
	// WriteTimeout leaves room for a full provider call inside generate-plan.
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Generation.Timeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		appLog.Info("server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("ListenAndServe error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
	}

	appLog.Info("server exiting")
}
