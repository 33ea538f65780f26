package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/wealthpath/loantape/docs"
	"github.com/wealthpath/loantape/internal/catalog"
	"github.com/wealthpath/loantape/internal/config"
	"github.com/wealthpath/loantape/internal/handler"
	"github.com/wealthpath/loantape/internal/logger"
	"github.com/wealthpath/loantape/internal/scheduler"
	"github.com/wealthpath/loantape/internal/service"
)

// @title Loan Tape API
// @version 1.0
// @description Synthetic NBFC loan tape generation, download and portfolio analysis.

// @contact.name API Support
// @contact.email support@wealthpath.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup structured logger
	appLogger := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(appLogger)

	profiles, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load profile catalog: %v", err)
	}

	// Initialize services
	batchService := service.NewBatchService(profiles, catalog.NewGeographyCatalog(), service.BatchConfig{
		InstitutionsPerProfile: cfg.InstitutionsPerProfile,
		Workers:                cfg.GenerationWorkers,
		Seed:                   cfg.GeneratorSeed,
		Retry:                  service.DefaultRetryConfig(),
	}, appLogger)
	library := service.NewTapeLibrary(batchService)
	analysisService := service.NewAnalysisService()
	exportService := service.NewExportService()

	// Generate the first batch before serving
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GenerationTimeout)
	batch, err := library.Refresh(ctx, 0)
	cancel()
	if err != nil {
		log.Fatalf("Failed to generate initial batch: %v", err)
	}
	appLogger.Info("Initial batch ready",
		slog.String("batch_id", batch.ID.String()),
		slog.Int("files", batch.FileCount()),
		slog.Int("records", batch.RecordCount()),
	)

	// Initialize handlers
	tapeHandler := handler.NewTapeHandler(library, batchService, profiles, exportService)
	analysisHandler := handler.NewAnalysisHandler(library, analysisService, exportService)

	router := handler.NewRouter(handler.RouterConfig{AllowedOrigins: cfg.AllowedOrigins}, tapeHandler, analysisHandler)

	// Initialize and start scheduler for batch regeneration
	var refreshScheduler *scheduler.Scheduler
	if cfg.RefreshEnabled {
		refreshScheduler = scheduler.New(scheduler.Config{
			Schedule: cfg.RefreshSchedule,
			Timeout:  cfg.GenerationTimeout,
			Enabled:  cfg.RefreshEnabled,
		}, library, appLogger)
		if err := refreshScheduler.Start(); err != nil {
			appLogger.Error("Failed to start refresh scheduler", slog.String("error", err.Error()))
		}
	}

	// Create server
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		appLogger.Info("Shutting down server...")

		// Stop scheduler first
		if refreshScheduler != nil {
			ctx := refreshScheduler.Stop()
			<-ctx.Done()
			appLogger.Info("Scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Server shutdown error", slog.String("error", err.Error()))
		}
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Server failed: %v", err)
	}
}
