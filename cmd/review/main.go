package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plagiarism-review/internal/review"
	"plagiarism-review/pkg/api"
	"plagiarism-review/pkg/config"
	"plagiarism-review/pkg/db"
	"plagiarism-review/pkg/languages"
	"plagiarism-review/pkg/logger"
	"plagiarism-review/pkg/metrics"
	"plagiarism-review/pkg/phosphorus"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Init(cfg.LogLevel)

	startupLogger := logger.NewCategoryLogger(logger.Startup)
	startupLogger.Info().Msg("Starting Plagiarism Review Service")

	// Initialize task store
	store, err := db.NewTaskStore(cfg.TaskDBPath)
	if err != nil {
		startupLogger.Fatal().Err(err).Msg("Failed to initialize task store")
	}
	defer store.Close()
	startupLogger.Info().Str("db_path", cfg.TaskDBPath).Msg("Task store initialized successfully")

	// Load language catalog
	catalog := languages.Default()
	if cfg.LanguageCatalogPath != "" {
		catalog, err = languages.LoadFile(cfg.LanguageCatalogPath)
		if err != nil {
			startupLogger.Fatal().Err(err).Str("path", cfg.LanguageCatalogPath).Msg("Failed to load language catalog")
		}
	}
	startupLogger.Info().Int("supported", catalog.Supported()).Int("analyzable", catalog.Analyzable()).Msg("Language catalog loaded")

	// Initialize metrics
	m := metrics.New()

	// Initialize detection engine client
	client := phosphorus.NewClient(cfg.PhosphorusAPIBase,
		phosphorus.WithTimeout(cfg.GetClientTimeout()),
		phosphorus.WithMetrics(m),
	)
	startupLogger.Info().Str("api_base", cfg.PhosphorusAPIBase).Msg("Detection engine client initialized")

	// Initialize service and handlers
	service := review.NewService(cfg, client, catalog, store)
	handler := review.NewHandler(service)

	// Initialize middleware
	middleware := api.NewMiddleware(m)

	// Create router
	router := mux.NewRouter()

	// Add middleware
	router.Use(middleware.RequestLogging)
	router.Use(middleware.Metrics)
	router.Use(middleware.SizeLimit)
	router.Use(middleware.CORS)

	// Health and metrics endpoints
	router.HandleFunc("/healthz", api.HealthCheck).Methods("GET")
	router.HandleFunc("/readyz", api.ReadinessCheck(store)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Review routes
	handler.RegisterRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.GetReviewAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		startupLogger.Info().Str("address", cfg.GetReviewAddr()).Msg("Review server starting")

		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			startupLogger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Start background task pruning goroutine
	go pruneTasks(store, cfg)
	startupLogger.Info().Msg("Background task pruning routine started")

	// Wait for interrupt signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	<-interrupt
	startupLogger.Info().Msg("Shutdown signal received")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		startupLogger.Error().Err(err).Msg("Server shutdown error")
	}

	startupLogger.Info().Msg("Review server stopped")
}

// pruneTasks periodically removes check task records older than the
// configured retention window.
func pruneTasks(store *db.TaskStore, cfg *config.Config) {
	pruneLogger := logger.NewCategoryLogger(logger.General)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		olderThan := time.Now().Add(-cfg.GetTaskRetention())
		if err := store.PruneTasks(olderThan); err != nil {
			pruneLogger.Error().Err(err).Msg("Failed to prune check tasks")
		} else {
			pruneLogger.Debug().Time("older_than", olderThan).Msg("Pruned old check tasks")
		}
	}
}
