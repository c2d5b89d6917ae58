// Package batch rebuilds the whole post and image output for a notebook.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/quivjek/internal/converter"
	"github.com/starford/quivjek/internal/host"
	"github.com/starford/quivjek/internal/models"
	"github.com/starford/quivjek/internal/storage"
)

// Error policies.
const (
	// OnErrorAbort stops the run at the first failing note.
	OnErrorAbort = "abort"
	// OnErrorContinue converts every note and reports failures at the end.
	OnErrorContinue = "continue"
)

// ignored lists notebook entries that are not notes.
var ignored = map[string]struct{}{
	"meta.json": {},
	".keep":     {},
	".DS_Store": {},
}

// NoteError pairs a failing note with its error.
type NoteError struct {
	Note string
	Err  error
}

func (e NoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Note, e.Err)
}

func (e NoteError) Unwrap() error {
	return e.Err
}

// Summary reports the outcome of a run.
type Summary struct {
	Converted []*converter.Result
	Skipped   []string
	Failed    []NoteError
}

// Option configures a Runner.
type Option func(*Runner)

// WithOnError sets the error policy (OnErrorAbort or OnErrorContinue).
func WithOnError(policy string) Option {
	return func(r *Runner) {
		r.onError = policy
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Runner owns the output directories for the lifetime of a process.
type Runner struct {
	layout  models.Layout
	site    *host.Site
	onError string
	logger  *slog.Logger
}

// New creates a Runner for layout. site receives the output directories on
// its exclusion list.
func New(layout models.Layout, site *host.Site, opts ...Option) *Runner {
	r := &Runner{
		layout:  layout,
		site:    site,
		onError: OnErrorAbort,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run clears the output directories and converts every note in the notebook.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	posts, err := storage.Ensure(r.layout.PostDir)
	if err != nil {
		return nil, fmt.Errorf("batch: post dir: %w", err)
	}
	images, err := storage.Ensure(r.layout.ImgDir)
	if err != nil {
		return nil, fmt.Errorf("batch: image dir: %w", err)
	}

	if r.site != nil {
		for _, dir := range []string{posts.Root(), images.Root()} {
			if r.site.Exclude(dir) {
				r.logger.Debug("batch: excluded output dir", slog.String("path", dir))
			}
		}
	}

	if err := posts.Clear(); err != nil {
		return nil, fmt.Errorf("batch: reset posts: %w", err)
	}
	if err := images.Clear(); err != nil {
		return nil, fmt.Errorf("batch: reset images: %w", err)
	}

	notes, err := r.notes()
	if err != nil {
		return nil, err
	}

	conv := converter.New(r.layout, posts, images, r.logger)
	summary := &Summary{}
	for _, dir := range notes {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res, err := conv.Convert(ctx, dir)
		if err != nil {
			ne := NoteError{Note: filepath.Base(dir), Err: err}
			if r.onError != OnErrorContinue {
				return summary, ne
			}
			r.logger.Error("batch: note failed",
				slog.String("note", ne.Note),
				slog.String("error", err.Error()))
			summary.Failed = append(summary.Failed, ne)
			continue
		}
		if res.Skipped {
			summary.Skipped = append(summary.Skipped, res.Note)
			continue
		}
		summary.Converted = append(summary.Converted, res)
	}

	r.logger.Info("batch: run complete",
		slog.Int("converted", len(summary.Converted)),
		slog.Int("skipped", len(summary.Skipped)),
		slog.Int("failed", len(summary.Failed)))

	if len(summary.Failed) > 0 {
		errs := make([]error, 0, len(summary.Failed))
		for _, f := range summary.Failed {
			errs = append(errs, f)
		}
		return summary, errors.Join(errs...)
	}
	return summary, nil
}

// notes lists note directories in lexical order.
func (r *Runner) notes() ([]string, error) {
	dirents, err := os.ReadDir(r.layout.NotebookDir)
	if err != nil {
		return nil, fmt.Errorf("batch: read notebook: %w", err)
	}
	out := make([]string, 0, len(dirents))
	for _, d := range dirents {
		if _, skip := ignored[d.Name()]; skip {
			continue
		}
		out = append(out, filepath.Join(r.layout.NotebookDir, d.Name()))
	}
	return out, nil
}
