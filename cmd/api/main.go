package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"examcraft/internal/adapter"
	"examcraft/internal/adapter/llm"
	"examcraft/internal/cache"
	"examcraft/internal/config"
	"examcraft/internal/database"
	"examcraft/internal/genai"
	"examcraft/internal/handler"
	"examcraft/internal/logger"
	"examcraft/internal/middleware"
	"examcraft/internal/repository"
	"examcraft/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

const resultCacheTTL = 24 * time.Hour

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
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

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
	defer db.Close()

	// Initialize repositories
	sessionRepository := repository.NewSessionDatabaseAdapter(db)
	questionRepository := repository.NewQuestionDatabaseAdapter(db)
	userRepository := repository.NewUserDatabaseAdapter(db)
	catalogRepository := repository.NewCatalogDatabaseAdapter(db)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize the question generator
	completionClient, err := llm.NewChatCompletionClient(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create completion client", zap.Error(err))
	}
	generator := genai.NewGenerator(completionClient, genai.ConfigFromApp(cfg.Generation, cfg.LLM), appLogger)
	appLogger.Info("Question generator initialized",
		zap.String("model", cfg.LLM.Model),
		zap.Int("concurrency", cfg.Generation.Concurrency),
	)

	// Initialize services
	sessionService := service.NewSessionService(
		sessionRepository, questionRepository, catalogRepository,
		generator, cacheAdapter, resultCacheTTL,
	)
	catalogService := service.NewCatalogService(catalogRepository, cacheAdapter, time.Hour)
	userService := service.NewUserService(userRepository)
	authService, err := service.NewAuthService(userRepository, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	// Background cleanup of abandoned sessions
	cleanupWorker := service.NewCleanupWorker(sessionRepository, cfg.Cleanup.Interval, cfg.Cleanup.SessionTTL)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	cleanupWorker.Start(workerCtx)
	appLogger.Info("Cleanup worker started",
		zap.Duration("interval", cfg.Cleanup.Interval),
		zap.Duration("session_ttl", cfg.Cleanup.SessionTTL),
	)

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	authHandler := handler.NewAuthHandler(authService, cfg)
	userHandler := handler.NewUserHandler(userService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Get("/google/login", authHandler.GoogleLogin)
	authGroup.Get("/google/callback", authHandler.GoogleCallback)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", middleware.Protected(authService), authHandler.Logout)

	// Public catalog
	apiGroup.Get("/exams", catalogHandler.ListExams)
	apiGroup.Get("/exams/:id", catalogHandler.GetExam)

	// User routes (all protected)
	userGroup := apiGroup.Group("/users", middleware.Protected(authService))
	userGroup.Get("/me", userHandler.GetMyProfile)

	// Session routes (all protected)
	sessionGroup := apiGroup.Group("/sessions", middleware.Protected(authService))
	sessionGroup.Post("/", sessionHandler.CreateSession)
	sessionGroup.Get("/", sessionHandler.ListSessions)
	sessionGroup.Get("/:id", sessionHandler.GetSession)
	sessionGroup.Post("/:id/submit", sessionHandler.SubmitAnswers)
	sessionGroup.Get("/:id/result", sessionHandler.GetResult)

	// Back-office routes
	adminGroup := apiGroup.Group("/admin", middleware.Protected(authService), middleware.AdminOnly())
	adminGroup.Get("/users", userHandler.ListUsers)
	adminGroup.Get("/sessions", sessionHandler.AdminListSessions)
	adminGroup.Delete("/sessions/:id", sessionHandler.AdminDeleteSession)
	adminGroup.Post("/exams", catalogHandler.CreateExam)
	adminGroup.Put("/exams/:id", catalogHandler.UpdateExam)
	adminGroup.Delete("/exams/:id", catalogHandler.DeleteExam)
	adminGroup.Post("/exams/:id/topics", catalogHandler.AddTopic)
	adminGroup.Delete("/topics/:topicId", catalogHandler.DeleteTopic)

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
	cleanupWorker.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
