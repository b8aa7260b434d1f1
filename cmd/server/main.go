package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/feedbackge/ai-backend/internal/config"
	"github.com/feedbackge/ai-backend/internal/db"
	"github.com/feedbackge/ai-backend/internal/llm"
	"github.com/feedbackge/ai-backend/internal/repository"
	"github.com/feedbackge/ai-backend/internal/router"
	"github.com/feedbackge/ai-backend/internal/services"
	"github.com/feedbackge/ai-backend/internal/storage"
	"github.com/feedbackge/ai-backend/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.LogLevel)
	ctx := context.Background()

	provider := newProvider(ctx, cfg.AI, logger)

	var opts []services.GatewayOption
	if cfg.AI.RatePerMinute > 0 {
		limit := rate.Limit(float64(cfg.AI.RatePerMinute) / 60)
		opts = append(opts, services.WithLimiter(rate.NewLimiter(limit, cfg.AI.RateBurst)))
		logger.Info("AI rate limit enabled", "per_minute", cfg.AI.RatePerMinute, "burst", cfg.AI.RateBurst)
	}

	var runs repository.TaskRunRepository
	if cfg.AuditDBPath != "" {
		if err := db.RunMigrations(cfg.AuditDBPath); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}
		database, err := db.NewSQLiteDB(cfg.AuditDBPath)
		if err != nil {
			logger.Fatal("Failed to open audit database", "error", err)
		}
		defer database.Close()

		runs = repository.NewTaskRunRepository(database)
		opts = append(opts, services.WithRecorder(runs))
		logger.Info("Task run auditing enabled", "path", cfg.AuditDBPath)
	}

	archive, err := storage.NewArchive(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize document archive", "error", err)
	}

	gateway := services.NewGateway(provider, logger, opts...)
	aiService := services.NewAIService(gateway, cfg.AI.Provider, cfg.AI.Model)
	importService := services.NewImportService(aiService, archive, logger)

	handler := router.NewRouter(router.Deps{
		AI:            aiService,
		Imports:       importService,
		Runs:          runs,
		MaxUploadSize: cfg.MaxUploadSize,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "ai_enabled", gateway.Available())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

// newProvider builds the completion provider. A missing key or a client that
// cannot be constructed leaves AI in fallback mode rather than stopping the
// server.
func newProvider(ctx context.Context, cfg config.AIConfig, logger *utils.Logger) llm.CompletionProvider {
	provider, err := llm.New(ctx, cfg)
	switch {
	case err != nil:
		logger.Error("Failed to initialize AI provider, AI features run in fallback mode", "provider", cfg.Provider, "error", err)
		return nil
	case provider == nil:
		logger.Warn("No API key for AI provider, AI features run in fallback mode", "provider", cfg.Provider)
		return nil
	default:
		logger.Info("AI provider configured", "provider", cfg.Provider, "model", cfg.Model)
		return provider
	}
}
