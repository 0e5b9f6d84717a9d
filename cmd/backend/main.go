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

	configloader "github.com/foxseedlab/nikki/external/config"
	repositoryimpl "github.com/foxseedlab/nikki/external/repository"
	webhookimpl "github.com/foxseedlab/nikki/external/webhook"
	"github.com/foxseedlab/nikki/internal/config"
	"github.com/foxseedlab/nikki/internal/httpapi"
	"github.com/foxseedlab/nikki/internal/session"
	"github.com/foxseedlab/nikki/internal/webhook"
	"github.com/gin-gonic/gin"
	"github.com/samber/do/v2"
)

const (
	startupSweepTimeout = 15 * time.Second
	shutdownTimeout     = 10 * time.Second
	readHeaderTimeout   = 10 * time.Second
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "storage_driver", cfg.StorageDriver, "timezone", cfg.JournalTimezone)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching journal server")
	runServer(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}

func runServer(cfg *config.Config, injector do.Injector) {
	manager, err := do.Invoke[*session.Manager](injector)
	if err != nil {
		slog.Error("failed to resolve session manager", "error", err)
		os.Exit(1)
	}
	uploader, err := do.Invoke[*session.AutoUploader](injector)
	if err != nil {
		slog.Error("failed to resolve auto uploader", "error", err)
		os.Exit(1)
	}
	video, err := do.Invoke[webhook.VideoSummarizer](injector)
	if err != nil {
		slog.Error("failed to resolve video summarizer", "error", err)
		os.Exit(1)
	}

	sweepCtx, cancelSweep := context.WithTimeout(context.Background(), startupSweepTimeout)
	manager.SweepOnStart(sweepCtx)
	cancelSweep()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go uploader.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(manager, video),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	done := make(chan struct{})
	go func() {
		slog.Info("startup: http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
		}
		close(done)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case <-done:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
	injector.Shutdown()
	slog.Info("shutdown complete")
}
