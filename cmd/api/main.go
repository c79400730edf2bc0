package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/lankaevents/internal/config"
	"github.com/joshua-takyi/lankaevents/internal/connect"
	"github.com/joshua-takyi/lankaevents/internal/container"
	"github.com/joshua-takyi/lankaevents/internal/metrics"
	"github.com/joshua-takyi/lankaevents/internal/models"
	"github.com/joshua-takyi/lankaevents/internal/routes"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("Starting Lanka Events API server", "environment", cfg.Environment, "store", cfg.StoreDriver)

	var mongoClient *mongo.Client
	var eventsRepo models.EventsRepo
	switch cfg.StoreDriver {
	case config.DriverMongo:
		mongoClient, err = connect.MongoDBConnect(ctx, cfg.MongoURI())
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBDatabase)

		repo := models.MongodbNewRepo(mongoClient, cfg.MongoDBDatabase)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Error("Failed to create event indexes", "error", err)
			os.Exit(1)
		}
		eventsRepo = repo
	default:
		logger.Warn("Using in-memory event store, data is lost on restart")
		eventsRepo = models.NewMemoryRepo()
	}

	appContainer := container.NewContainer(logger, cfg, eventsRepo, metrics.NewManager())

	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// The first run can take a while against a remote store; serve meanwhile.
	go func() {
		if err := appContainer.ScrapingService.Initialize(ctx); err != nil {
			logger.Error("Failed to initialize scraping", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	appContainer.ScrapingService.Stop(shutdownCtx)

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	cancel()

	if err := connect.MongoDBDisconnect(shutdownCtx, mongoClient); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
