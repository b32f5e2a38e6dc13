// Command cligue-server runs the HTTP API: video upload, analysis, and
// chat endpoints backed by a vision-language model.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raphaelgruber/cligue-go/internal/api"
	"github.com/raphaelgruber/cligue-go/internal/config"
	"github.com/raphaelgruber/cligue-go/internal/event"
	"github.com/raphaelgruber/cligue-go/internal/session"
	"github.com/raphaelgruber/cligue-go/internal/summary"
	"github.com/raphaelgruber/cligue-go/internal/video"
	"github.com/raphaelgruber/cligue-go/internal/vlm"
)

func main() {
	cfgFile := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg := config.Load()
	if *cfgFile != "" {
		var err error
		cfg, err = config.LoadFile(cfg, *cfgFile)
		if err != nil {
			slog.Error("failed to load config file", "error", err)
			os.Exit(1)
		}
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("failed to close log file", "error", err)
		}
	}()
	slog.SetDefault(logger)

	slog.Info("starting cligue-server",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"port", cfg.APIPort,
	)

	client, err := vlm.New(context.Background(), cfg, logger)
	if err != nil {
		slog.Error("failed to create model client", "error", err)
		os.Exit(1)
	}

	analyzer := session.NewAnalyzer(
		video.NewFFmpegSource(cfg.SampleFPS),
		event.NewDetector(client, logger),
		summary.New(client, logger),
		client,
		logger,
	)
	analyzer.MaxDuration = cfg.MaxVideoDuration
	analyzer.MaxFrames = cfg.MaxFrames
	analyzer.MemoryWindow = cfg.MemoryWindow
	analyzer.SampleFPS = cfg.SampleFPS

	handler := api.NewHandler(analyzer, session.NewManager(), client, logger)
	server := api.NewServer(handler, cfg.APIHost+":"+cfg.APIPort, logger)

	go func() {
		if err := server.Start(); err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
