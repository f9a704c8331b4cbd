// @title HiveQuiz API
// @version 1.0
// @description Quiz content platform: editorial lifecycle, scoring and engagement analytics.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"hivequiz/internal/adapter"
	"hivequiz/internal/cache"
	"hivequiz/internal/config"
	"hivequiz/internal/database"
	"hivequiz/internal/handler"
	"hivequiz/internal/logger"
	"hivequiz/internal/middleware"
	"hivequiz/internal/repository"
	"hivequiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	documentRepository := repository.NewDocumentDatabaseAdapter(db)
	versionRepository := repository.NewVersionDatabaseAdapter(db)
	overrideRepository := repository.NewBranchOverrideDatabaseAdapter(db)
	analyticsSink := repository.NewAnalyticsDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize Redis client; the published-quiz cache degrades to
	// repository reads if Redis is unavailable.
	var publishedCache service.PublishedQuizCache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Failed to connect to Redis, caching disabled", zap.Error(err))
		publishedCache = service.NewPublishedQuizCache(nil, documentRepository, cfg)
	} else {
		appLogger.Info("Successfully connected to Redis")
		cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
		publishedCache = service.NewPublishedQuizCache(cacheAdapter, documentRepository, cfg)
	}

	// Initialize services
	branchingResolver := service.NewBranchingResolver(overrideRepository)
	lifecycleService := service.NewLifecycleService(documentRepository, versionRepository, txManager, publishedCache)
	submissionService := service.NewSubmissionService(publishedCache, branchingResolver, analyticsSink, cfg)
	sweepService := service.NewSweepService(documentRepository, publishedCache, cfg)

	// Initialize handlers
	adminHandler := handler.NewAdminHandler(lifecycleService, branchingResolver)
	publicHandler := handler.NewPublicHandler(submissionService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	// API group
	apiGroup := app.Group("/api")

	// Admin routes (all protected)
	adminGroup := apiGroup.Group("/admin", middleware.Protected(cfg.Auth.JWTSecret))
	adminHandler.RegisterRoutes(adminGroup)

	// Public routes
	publicHandler.RegisterRoutes(apiGroup)

	// Background sweep promotes scheduled quizzes when their time comes.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go sweepService.Run(sweepCtx)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
