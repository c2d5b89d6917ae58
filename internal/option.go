package internal

import (
	"log/slog"

	"github.com/starford/quivjek/internal/host"
)

// Option is a functional option for configuring a run.
type Option func(*application)

type application struct {
	config *Config
	site   *host.Site
	env    string
	logger *slog.Logger
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithSite sets the host site whose exclusion list receives the output
// directories. Without it a site is built from the configuration.
func WithSite(site *host.Site) Option {
	return func(a *application) {
		a.site = site
	}
}

// WithEnvironment sets the deployment environment (APP_ENV).
func WithEnvironment(env string) Option {
	return func(a *application) {
		a.env = env
	}
}

// WithLogger overrides the JSON stdout logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}
