package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onewordstory/internal/app"
	"onewordstory/internal/archive"
	"onewordstory/internal/config"
	"onewordstory/internal/domain"
	"onewordstory/internal/narration"
	httpTransport "onewordstory/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Set up logger
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting one word story server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// External collaborators
	archiveClient := archive.NewClient(cfg.Archive.BaseURL, cfg.Archive.RetryDelay, cfg.Archive.MaxRetries, logger)
	narrationClient := narration.NewClient(cfg.Narration.BaseURL, logger)

	voices, err := app.NewVoicePool(cfg.Narration.Voices)
	if err != nil {
		logger.Error("invalid narrator voice pool", "error", err)
		os.Exit(1)
	}

	pipeline := app.NewPipeline(
		archiveClient,
		narrationClient,
		voices,
		cfg.Narration.ClipBuffer,
		cfg.Narration.MaxPresentation,
		logger,
	)

	// Create the engine
	engine := app.NewEngine(app.EngineSettings{
		WaitlistTiers:         cfg.Game.WaitlistTiers,
		TitleDuration:         cfg.Game.TitleDuration,
		IdentityMaxIdle:       cfg.Game.IdentityMaxIdle,
		IdentityPurgeInterval: cfg.Game.IdentityPurgeInterval,
	}, domain.AllowAllValidator{}, pipeline, logger)
	defer engine.Close()

	// Sync the story index from the archive in the background; until
	// this lands every submission is rejected as unsynced.
	syncCtx, cancelSync := context.WithCancel(context.Background())
	defer cancelSync()
	go func() {
		index, err := archiveClient.CurrentIndex(syncCtx)
		if err != nil {
			logger.Error("story index sync abandoned", "error", err)
			return
		}
		engine.SetStoryIndex(index)
	}()

	// Create HTTP server
	server := httpTransport.NewServer(cfg, engine, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
