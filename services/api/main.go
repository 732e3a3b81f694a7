package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/02loveslollipop/section-viewer/services/api/config"
	"github.com/02loveslollipop/section-viewer/services/api/db"
	httpserver "github.com/02loveslollipop/section-viewer/services/api/http"
	"github.com/02loveslollipop/section-viewer/services/api/pipeline"
	"github.com/02loveslollipop/section-viewer/services/api/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var history httpserver.RunLog
	if cfg.DatabaseURL != "" {
		store, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connection error", zap.Error(err))
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal("db schema error", zap.Error(err))
		}
		history = store
	} else {
		logger.Info("DATABASE_URL not set, run log disabled")
	}

	opts := render.DefaultOptions()
	opts.DPI = cfg.RenderDPI
	runner := pipeline.NewRunner(render.New(opts), cfg.WorkspaceDir, logger)

	srv := httpserver.New(cfg, runner, history, logger)
	logger.Info("section viewer listening", zap.String("addr", cfg.ListenAddr()))

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
