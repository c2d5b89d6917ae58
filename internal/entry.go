// Package internal provides the build hook a host publishing system calls.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/quivjek/internal/batch"
	"github.com/starford/quivjek/internal/host"
	"github.com/starford/quivjek/internal/manifest"
	"github.com/starford/quivjek/internal/storage"
)

// Run converts the configured notebook into posts. It is a no-op in the
// production environment.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
		slog.SetDefault(logger)
	}

	if app.env == EnvProduction {
		logger.Info("Production environment, skipping Quiver import")
		return nil
	}

	layout, err := cfg.Resolve()
	if err != nil {
		return err
	}

	logger.Info("Configuration loaded",
		slog.String("source", layout.Source),
		slog.String("notebook_dir", layout.NotebookDir),
		slog.String("post_dir", layout.PostDir),
		slog.String("img_dir", layout.ImgDir),
		slog.String("on_error", cfg.Build.OnError),
		slog.String("log_level", cfg.App.LogLevel.String()))

	site := app.site
	if site == nil {
		site = host.NewSite(layout.Source, cfg.Exclude...)
	}

	runner := batch.New(layout, site,
		batch.WithOnError(cfg.Build.OnError),
		batch.WithLogger(logger))

	summary, runErr := runner.Run(ctx)

	if cfg.Manifest.Enabled() && summary != nil {
		if err := writeManifest(cfg.Manifest.Path, summary, layout.ImgDir, logger); err != nil {
			logger.Warn("manifest update failed", slog.String("error", err.Error()))
		}
	}

	if runErr != nil {
		return fmt.Errorf("quiver import failed: %w", runErr)
	}
	return nil
}

// ListPosts returns the posts recorded by the last run with their images.
func ListPosts(cfg *Config, tag string) ([]manifest.Listing, error) {
	if !cfg.Manifest.Enabled() {
		return nil, fmt.Errorf("manifest.path is not configured")
	}
	db, err := manifest.Open(cfg.Manifest.Path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return manifest.List(db, tag)
}

func writeManifest(path string, summary *batch.Summary, imgDir string, logger *slog.Logger) error {
	images, err := storage.NewFS(imgDir)
	if err != nil {
		return err
	}
	db, err := manifest.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return manifest.Sync(db, summary.Converted, images, logger)
}
