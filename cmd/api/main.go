package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"eduverse/internal/adapter"
	"eduverse/internal/adapter/llm"
	"eduverse/internal/adapter/speech"
	"eduverse/internal/cache"
	"eduverse/internal/config"
	"eduverse/internal/domain"
	"eduverse/internal/handler"
	"eduverse/internal/logger"
	"eduverse/internal/middleware"
	"eduverse/internal/ratelimit"
	"eduverse/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// multipartOverhead is transport slack on top of the upload cap: a multipart
// body carrying a file at exactly the cap is larger than the file itself
// (boundary lines, part headers), and the transport limit must not reject
// what the handler's exact size check would accept.
const multipartOverhead = 1 << 20

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		requestID, _ := c.Locals(middleware.RequestIDKey).(string)
		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("request_id", requestID),
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

	ctx := context.Background()

	// Initialize the generative-AI provider. A missing credential fails fast
	// here instead of surfacing as a confusing upstream error per request.
	var generator domain.TextGenerator
	switch cfg.LLM.Provider {
	case "gemini":
		appLogger.Info("Initializing Gemini text generator", zap.String("model", cfg.LLM.GeminiModel))
		generator, err = llm.NewGemini(ctx, cfg.LLM)
	case "openai":
		appLogger.Info("Initializing OpenAI text generator", zap.String("model", cfg.LLM.OpenAIModel))
		generator, err = llm.NewOpenAI(cfg.LLM)
	default:
		appLogger.Fatal(fmt.Sprintf("Unsupported LLM provider: %s. Please check llm.provider in config.", cfg.LLM.Provider))
	}
	if err != nil {
		appLogger.Fatal("Failed to create text generator", zap.Error(err))
	}

	// Transcription is optional: without Google credentials the endpoint
	// reports a configuration error, everything else keeps working.
	var transcriber domain.Transcriber
	googleTranscriber, err := speech.NewGoogleTranscriber(ctx, cfg.Speech)
	if err != nil {
		appLogger.Warn("Speech-to-Text unavailable, transcription disabled", zap.Error(err))
	} else {
		transcriber = googleTranscriber
		defer googleTranscriber.Close()
	}

	// Response cache is best-effort as well.
	var responseCache domain.Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, response caching disabled", zap.Error(err))
	} else {
		appLogger.Info("Successfully connected to Redis")
		responseCache = adapter.NewRedisCacheAdapter(redisClient)
	}

	outboundLimiter := ratelimit.New(cfg.LLM.MaxRequests, cfg.LLM.Window)
	aiService := service.NewAIService(generator, transcriber, responseCache, outboundLimiter, cfg)
	aiHandler := handler.NewAIHandler(aiService, cfg.Limits.MaxUploadBytes)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Limits.MaxUploadBytes + multipartOverhead,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/health", aiHandler.Health)

	// Fixed-window IP rate limit at the network boundary; the sliding-window
	// limiter inside the service separately throttles outbound model calls.
	aiGroup := app.Group("/api/v1/ai", limiter.New(limiter.Config{
		Max:        cfg.Limits.IPRateMax,
		Expiration: cfg.Limits.IPRateWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests from this IP, please try again later.",
			})
		},
	}))
	aiGroup.Post("/ask", aiHandler.Ask)
	aiGroup.Post("/generate-quiz", aiHandler.GenerateQuiz)
	aiGroup.Post("/analyze-lesson", aiHandler.AnalyzeLesson)
	aiGroup.Post("/analyze-file", aiHandler.AnalyzeFile)
	aiGroup.Post("/transcribe", aiHandler.Transcribe)

	// Unknown routes
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not Found"})
	})

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
