// Package converter turns a single Quiver note into a Jekyll post.
package converter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/starford/quivjek/internal/checksum"
	"github.com/starford/quivjek/internal/frontmatter"
	"github.com/starford/quivjek/internal/merger"
	"github.com/starford/quivjek/internal/models"
	"github.com/starford/quivjek/internal/quiver"
	"github.com/starford/quivjek/internal/relocator"
	"github.com/starford/quivjek/internal/storage"
)

// Result describes what a conversion produced.
type Result struct {
	Note        string
	Skipped     bool
	Filename    string
	Title       string
	Date        string
	Tags        []string
	Images      []string
	Checksum    string
	Diagnostics []merger.Diagnostic
}

// Converter writes posts and images for one note at a time.
type Converter struct {
	layout    models.Layout
	posts     storage.Provider
	relocator *relocator.Relocator
	logger    *slog.Logger
}

// New creates a Converter writing posts into posts and images into images.
func New(layout models.Layout, posts, images storage.Provider, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		layout:    layout,
		posts:     posts,
		relocator: relocator.New(images, logger),
		logger:    logger,
	}
}

// Convert processes the note in noteDir. Draft notes are skipped before any
// file is copied or written.
func (c *Converter) Convert(_ context.Context, noteDir string) (*Result, error) {
	res := &Result{Note: filepath.Base(noteDir)}

	meta, err := quiver.LoadMetadata(noteDir)
	if err != nil {
		return nil, err
	}
	if meta.IsDraft() {
		c.logger.Debug("converter: skipping draft", slog.String("note", res.Note))
		res.Skipped = true
		res.Title = meta.Title
		return res, nil
	}

	if resDir, ok := quiver.ResourcePath(noteDir); ok {
		images, err := c.relocator.CopyResources(resDir)
		if err != nil {
			return nil, err
		}
		res.Images = images
	}

	content, err := quiver.LoadContent(noteDir)
	if err != nil {
		return nil, err
	}

	merged := merger.Merge(content.Cells, c.layout.ImgURL)
	for _, d := range merged.Diagnostics {
		c.logger.Warn("converter: unsupported cell type",
			slog.String("note", res.Note),
			slog.Int("cell", d.Index),
			slog.String("type", string(d.Kind)))
	}
	res.Diagnostics = merged.Diagnostics

	if err := c.relocator.Apply(merged.Renames); err != nil {
		return nil, err
	}
	res.Images = renamed(res.Images, merged.Renames)

	explicit, body, err := frontmatter.Extract(merged.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.Note, err)
	}
	header := frontmatter.Compose(explicit, meta)

	filename, err := frontmatter.Filename(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.Note, err)
	}
	doc, err := frontmatter.Render(header, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.Note, err)
	}
	if err := c.posts.Write(filename, doc); err != nil {
		return nil, fmt.Errorf("converter: write %s: %w", filename, err)
	}

	res.Filename = filename
	res.Title = header.Title()
	res.Date = header.Date()
	res.Tags = header.Tags()
	res.Checksum = checksum.Sum(doc)

	c.logger.Debug("converter: wrote post",
		slog.String("note", res.Note),
		slog.String("file", filename))
	return res, nil
}

// renamed maps copied image names through the rename plan.
func renamed(images []string, plan []models.Rename) []string {
	if len(plan) == 0 {
		return images
	}
	to := make(map[string]string, len(plan))
	for _, r := range plan {
		to[r.From] = r.To
	}
	out := make([]string, len(images))
	for i, name := range images {
		if n, ok := to[name]; ok {
			name = n
		}
		out[i] = name
	}
	return out
}
