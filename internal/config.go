package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/quivjek/internal/batch"
	"github.com/starford/quivjek/internal/models"
)

// Defaults for the site-relative directories.
const (
	DefaultNotebookDir = "quiver.qvnotebook"
	DefaultPostDir     = "_posts/quiver"
	DefaultImgDir      = "images/quiver"
)

// EnvProduction disables the converter.
const EnvProduction = "production"

// Config represents the application configuration. Its top-level keys match
// the ones a Jekyll _config.yml carries.
type Config struct {
	App         ApplicationConfig `yaml:"app"`
	Source      string            `yaml:"source"`
	NotebookDir string            `yaml:"notebook_dir"`
	PostDir     string            `yaml:"post_dir"`
	ImgDir      string            `yaml:"img_dir"`
	ImgURL      string            `yaml:"img_url"`
	Exclude     []string          `yaml:"exclude"`
	Build       BuildConfig       `yaml:"build"`
	Manifest    ManifestConfig    `yaml:"manifest"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required),
		validation.Field(&c.NotebookDir, validation.Required),
		validation.Field(&c.PostDir, validation.Required),
		validation.Field(&c.ImgDir, validation.Required),
	); err != nil {
		return err
	}
	return c.Build.Validate()
}

// Resolve validates the configuration and turns it into the immutable
// layout a build runs against. Relative directories are resolved against
// Source.
func (c *Config) Resolve() (models.Layout, error) {
	if err := c.Validate(); err != nil {
		return models.Layout{}, fmt.Errorf("config validation failed: %w", err)
	}
	source, err := filepath.Abs(c.Source)
	if err != nil {
		return models.Layout{}, fmt.Errorf("resolve source: %w", err)
	}
	imgURL := c.ImgURL
	if imgURL == "" {
		imgURL = c.ImgDir
	}
	return models.Layout{
		Source:      source,
		NotebookDir: under(source, c.NotebookDir),
		PostDir:     under(source, c.PostDir),
		ImgDir:      under(source, c.ImgDir),
		ImgURL:      imgURL,
	}, nil
}

func under(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// BuildConfig controls how a run reacts to failing notes.
//
// OnError is one of:
//   - "abort" (default): the first failing note stops the run.
//   - "continue": every note is attempted and failures are reported together.
type BuildConfig struct {
	OnError string `yaml:"on_error"`
}

// Validate validates the build configuration.
func (c *BuildConfig) Validate() error {
	if c.OnError == "" {
		c.OnError = batch.OnErrorAbort
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.OnError, validation.In(batch.OnErrorAbort, batch.OnErrorContinue)),
	)
}

// ManifestConfig holds the optional SQLite build manifest location.
type ManifestConfig struct {
	Path string `yaml:"path"`
}

// Enabled returns true when a manifest should be written.
func (c *ManifestConfig) Enabled() bool {
	return c.Path != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Source:      ".",
		NotebookDir: DefaultNotebookDir,
		PostDir:     DefaultPostDir,
		ImgDir:      DefaultImgDir,
		Build: BuildConfig{
			OnError: batch.OnErrorAbort,
		},
	}
}
