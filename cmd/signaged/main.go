package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/visiona/signage/internal/config"
	"github.com/visiona/signage/internal/content"
	"github.com/visiona/signage/internal/display"
	"github.com/visiona/signage/internal/playback"
	"github.com/visiona/signage/internal/render"
	"github.com/visiona/signage/internal/video"
	"github.com/visiona/signage/internal/watch"
)

const (
	defaultConfigPath = "config/signaged.yaml"
	shutdownTimeout   = 5 * time.Second
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Setup structured logger
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}

	// Load configuration first; the error log destination lives in it
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logSink := io.Writer(os.Stdout)
	if cfg.ErrorLog != "" {
		f, err := os.OpenFile(cfg.ErrorLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to open error log", "path", cfg.ErrorLog, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		logSink = io.MultiWriter(os.Stdout, f)
	}

	logger := slog.New(slog.NewJSONHandler(logSink, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting signaged",
		"config", *configPath,
		"content_dir", cfg.ContentDir,
		"debug", *debug,
	)

	// The display surface is the only unrecoverable dependency: no window,
	// nothing to do.
	surface, err := display.NewWindow(cfg.Display)
	if err != nil {
		slog.Error("failed to open display surface", "error", err)
		os.Exit(1)
	}

	overlay, err := render.NewOverlay(cfg.Footer, cfg.QR)
	if err != nil {
		slog.Error("failed to build overlay compositor", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wire the pipeline
	opener := video.NewFileOpener(cfg.Display.Width, cfg.Display.Height)
	builder := content.NewBuilder(cfg.ContentDir, cfg.Display.Width, cfg.Display.Height, opener, cfg.QR)
	store := content.NewStore()
	bridge := watch.New(builder, store, cfg.ContentDir)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := render.NewEngine(cfg.Display.Width, cfg.Display.Height, rng, cfg.Transition.Fast)

	loop := playback.New(cfg, playback.Deps{
		Store:     store,
		Surface:   surface,
		Opener:    opener,
		Engine:    engine,
		Overlay:   overlay,
		Rebuilder: bridge,
	})

	// Initial catalog build; an empty or failed build is not fatal, the
	// loop shows the no-content screen and retries.
	if err := bridge.Rebuild(ctx); err != nil {
		slog.Error("initial catalog build failed", "error", err)
	}

	if err := bridge.Start(ctx); err != nil {
		slog.Error("failed to start content watcher", "error", err)
		os.Exit(1)
	}

	// Run playback in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- loop.Run(ctx)
	}()

	// Wait for shutdown signal or loop exit (quit key)
	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
		<-errChan
	case <-errChan:
		slog.Info("playback loop exited")
		cancel()
	}

	// Graceful shutdown
	slog.Info("shutting down gracefully", "timeout", shutdownTimeout)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := bridge.Stop(); err != nil {
			slog.Error("failed to stop watcher", "error", err)
		}
		if err := surface.Close(); err != nil {
			slog.Error("failed to close display", "error", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		slog.Error("shutdown timed out")
		os.Exit(1)
	}

	stats := loop.Stats()
	slog.Info("signaged stopped",
		"frames_presented", stats.FramesPresented,
		"transitions", stats.TransitionsRun,
		"videos", stats.VideosPlayed,
	)
}
