package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusdesk/swo-feedback/config"
	"github.com/campusdesk/swo-feedback/db"
	_ "github.com/campusdesk/swo-feedback/docs"
	"github.com/campusdesk/swo-feedback/handlers"
	"github.com/campusdesk/swo-feedback/internal/events"
	"github.com/campusdesk/swo-feedback/internal/storage"
	"github.com/campusdesk/swo-feedback/internal/store/postgres"
	"github.com/campusdesk/swo-feedback/logger"
	"github.com/campusdesk/swo-feedback/middleware"
	"github.com/campusdesk/swo-feedback/router"
	"github.com/campusdesk/swo-feedback/services"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// @title           Academic SWO Feedback API
// @version         1.0
// @description     Feedback forms, responses and reports for the student welfare office.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnw("Could not load .env file", "error", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolConfig, err := config.ConfigurePostgresPool(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to configure database: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(config.ConfigureRedisOptions(&cfg.Redis))
	defer func() { _ = redisClient.Close() }()
	if err := config.TestRedisConnection(ctx, redisClient, 3, 2*time.Second); err != nil {
		log.Warnw("Redis unavailable at startup; events and rate limiting will fail open", "error", err)
	}

	publisher := events.NewRedisPublisher(redisClient, events.Config{
		PublishTimeout: time.Duration(cfg.EventService.PublishTimeoutSeconds) * time.Second,
		ChannelPrefix:  cfg.EventService.ChannelPrefix,
	})

	workerPool := services.NewWorkerPool(cfg.WorkerPool)
	workerPool.Start()

	formStore := postgres.NewFormStore(pool)
	responseStore := postgres.NewResponseStore(pool)
	facultyStore := postgres.NewFacultyStore(pool)

	var archive services.ArchiveStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize report storage: %v", err)
		}
		archive = s3Storage
	}

	var mailer services.ReportMailer
	if cfg.Email.Enabled {
		mailer = services.NewEmailService(&cfg.Email)
	}

	formService := services.NewFormService(formStore, publisher, workerPool)
	responseService := services.NewResponseService(formStore, responseStore, facultyStore, publisher, workerPool)
	reportService := services.NewReportService(formStore, responseStore, archive, mailer, workerPool, cfg.Storage.PresignDuration())
	facultyService := services.NewFacultyService(facultyStore)
	healthService := services.NewHealthService(pool, redisClient, cfg.Server.Version).WithJobQueue(workerPool)

	var reaper *services.DraftReaper
	if cfg.Reaper.Enabled {
		reaper = services.NewDraftReaper(responseStore, cfg.Reaper)
		if err := reaper.Start(); err != nil {
			log.Fatalf("Failed to start draft reaper: %v", err)
		}
	}

	jwtValidator, err := middleware.NewJWTValidator(cfg.Server.JwtSecretKey)
	if err != nil {
		log.Fatalf("Failed to initialize JWT validator: %v", err)
	}

	r := router.SetupRouter(router.Dependencies{
		Config:          cfg,
		JWTValidator:    jwtValidator,
		RedisClient:     redisClient,
		FormHandler:     handlers.NewFormHandler(formService),
		ResponseHandler: handlers.NewResponseHandler(responseService),
		ReportHandler:   handlers.NewReportHandler(reportService),
		FacultyHandler:  handlers.NewFacultyHandler(facultyService),
		HealthHandler:   handlers.NewHealthHandler(healthService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	if reaper != nil {
		reaper.Stop(shutdownCtx)
	}
	if err := workerPool.Shutdown(shutdownCtx); err != nil {
		log.Warnw("Worker pool did not drain before shutdown", "error", err)
	}

	log.Info("Server exited")
}
