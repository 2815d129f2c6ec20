// Package main initializes and starts the Dream Land API server,
// setting up configuration, logging, database connections, repositories,
// services, handlers and metrics.
package main

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	nethttp "net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/binukalewke/dreamland/internal/config"
	"github.com/binukalewke/dreamland/internal/db"
	"github.com/binukalewke/dreamland/internal/logger"
	"github.com/binukalewke/dreamland/internal/metrics"
	"github.com/binukalewke/dreamland/internal/middleware"
	"github.com/binukalewke/dreamland/internal/models"
	"github.com/binukalewke/dreamland/internal/repository"
	"github.com/binukalewke/dreamland/internal/server/handler/http"
	"github.com/binukalewke/dreamland/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port
	dbName := options.DatabaseDSN

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(dbName)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Remove stale auth tokens in the background.
	db.StartTokenCleaner(context.Background(), postgresDB,
		time.Hour,      // interval
		7*24*time.Hour, // retention: 7 days
		zapLogger,
	)

	// Initialize repositories.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	bookmarkRepo := repository.NewPostgresBookmarkRepository(postgresDB)
	reviewRepo := repository.NewPostgresReviewRepository(postgresDB)
	catalogRepo := repository.NewPostgresCatalogRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo)
	bookmarkService := service.NewBookmarkService(bookmarkRepo)
	reviewService := service.NewReviewService(reviewRepo)
	catalogService := service.NewCatalogService(catalogRepo)

	// Seed an empty catalog from the configured JSON file.
	if options.CatalogSeed != "" {
		entries, err := readCatalogSeed(options.CatalogSeed)
		if err != nil {
			zapLogger.Fatal("cannot read catalog seed", zap.Error(err))
		}
		if err := catalogService.Seed(context.Background(), entries, zapLogger); err != nil {
			zapLogger.Fatal("cannot seed catalog", zap.Error(err))
		}
	}

	// Set up Prometheus metrics.
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService, Metrics: collector}
	bookmarkHandler := &http.BookmarkHandler{BookmarkService: bookmarkService}
	catalogHandler := &http.CatalogHandler{
		CatalogService: catalogService,
		ReviewService:  reviewService,
		Metrics:        collector,
	}

	// Throttle repeated login attempts per email.
	loginLimiter := middleware.NewLoginLimiter(middleware.DefaultLoginLimiterConfig(), zapLogger)
	defer loginLimiter.Stop()

	// Build the router with middleware and routes.
	router := http.NewRouter(
		authHandler,
		bookmarkHandler,
		catalogHandler,
		authService,
		loginLimiter,
		collector,
		metrics.Handler(registry),
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}

// readCatalogSeed parses the catalog seed file into catalog entries.
func readCatalogSeed(path string) ([]models.CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var entries []models.CatalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return entries, nil
}
