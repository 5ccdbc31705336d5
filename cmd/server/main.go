package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"mediadash/internal/config"
	"mediadash/internal/dataset"
	"mediadash/internal/db"
	"mediadash/internal/jobs"
	"mediadash/internal/logging"
	"mediadash/internal/metrics"
	"mediadash/internal/panel"
	"mediadash/internal/render"
	"mediadash/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	layout, err := config.LoadDashboardFile(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load dashboard layout: %v", err)
	}
	logger.Info("dashboard layout loaded", "file", cfg.ConfigFile, "sections", len(layout.Sections), "panels", len(layout.Panels()))

	// Datasets are loaded once per process and never invalidated
	cache := dataset.NewCache()
	if cfg.WarmCache {
		paths := layout.DatasetPaths(cfg.DataDir)
		loaded := cache.Warm(ctx, paths)
		logger.Info("dataset cache warmed", "loaded", loaded, "datasets", len(paths))
	}

	// Optional database for persisted panel view counts
	var database *db.DB
	if cfg.StatsEnabled() {
		database, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("migrations completed successfully")
	}

	var store metrics.PanelViewStore
	if database != nil {
		store = database
	}
	metrics.Init(cache, store)

	flushDone := make(chan struct{})
	if rec := metrics.DefaultRecorder(); rec != nil {
		flusher := jobs.NewStatsFlusher(rec, database, cfg.StatsFlushInterval, logger)
		go func() {
			flusher.Start(ctx)
			close(flushDone)
		}()
	} else {
		close(flushDone)
	}

	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		log.Fatalf("Invalid DATA_DIR: %v", err)
	}
	pipeline := panel.NewPipeline(cache, dataDir,
		render.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
		render.Size{Width: cfg.WordCloudWidth, Height: cfg.WordCloudHeight},
		logger)

	srv := server.New(cfg, logger)
	if err := srv.RegisterRoutes(ctx, server.Deps{
		Layout:   layout,
		Pipeline: pipeline,
		DB:       database,
	}); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
		}
	}()

	logger.Info("server started", "addr", cfg.ServerAddr, "data_dir", dataDir)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// Stop the flusher and wait for its final write
	cancel()
	<-flushDone
	logger.Info("server exited")
}
