package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pulsecare/pulse-backend/internal/ai"
	"github.com/pulsecare/pulse-backend/internal/audit"
	"github.com/pulsecare/pulse-backend/internal/config"
	"github.com/pulsecare/pulse-backend/internal/handler"
	"github.com/pulsecare/pulse-backend/internal/middleware"
	"github.com/pulsecare/pulse-backend/internal/pdf"
	"github.com/pulsecare/pulse-backend/internal/repository"
	"github.com/pulsecare/pulse-backend/internal/security"
	"github.com/pulsecare/pulse-backend/internal/service"
	"github.com/pulsecare/pulse-backend/internal/vitals"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize database connection pool with pgx
	pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Successfully connected to database")

	// Initialize completion API client
	aiClient, err := ai.NewClient(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.Model,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize completion client", zap.Error(err))
	}

	// Initialize at-rest encryption for sensitive columns
	encryptor, err := security.NewEncryptor([]byte(cfg.Security.EncryptionKey))
	if err != nil {
		logger.Fatal("Failed to initialize encryptor", zap.Error(err))
	}

	// Initialize repositories
	vitalsRepo := repository.NewVitalsRepository(pool, logger)
	reminderRepo := repository.NewReminderRepository(pool, logger)
	chatRepo := repository.NewChatRepository(pool, encryptor, logger)
	profileRepo := repository.NewProfileRepository(pool, encryptor, logger)

	// Initialize audit trail
	auditLogger := audit.NewLogger(pool, logger)

	// Initialize services
	goals := vitals.Goals{
		Steps:       cfg.Goals.Steps,
		WaterLiters: cfg.Goals.WaterLiters,
	}
	vitalsService := service.NewVitalsService(vitalsRepo, profileRepo, goals, logger)
	reminderService := service.NewReminderService(reminderRepo, auditLogger, logger)
	chatService := service.NewChatService(chatRepo, aiClient, vitalsService, logger)
	profileService := service.NewProfileService(profileRepo, auditLogger, logger)

	pdfGenerator := pdf.NewPDFGenerator(logger)
	reportService := service.NewReportService(
		vitalsService,
		reminderService,
		profileRepo,
		pdfGenerator,
		auditLogger,
		logger,
	)

	// Initialize handlers
	handlers := &handler.Handlers{
		Vitals:    handler.NewVitalsHandler(vitalsService, logger),
		Reminders: handler.NewReminderHandler(reminderService, logger),
		Chat:      handler.NewChatHandler(chatService, logger),
		Profile:   handler.NewProfileHandler(profileService, logger),
		Report:    handler.NewReportHandler(reportService, logger),
		System:    handler.NewSystemHandler(pool, logger),
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Recovery middleware must be first
	r.Use(middleware.RecoveryMiddleware(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RequestLoggingMiddleware(logger))
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	handler.RegisterRoutes(r, handlers, authMiddleware)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	pool.Close()

	logger.Info("Server exited")
}
