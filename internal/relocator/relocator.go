// Package relocator copies a note's bundled images into the shared image
// directory and applies the renames requested by the merged body.
package relocator

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	cp "github.com/otiai10/copy"

	"github.com/starford/quivjek/internal/apperr"
	"github.com/starford/quivjek/internal/models"
	"github.com/starford/quivjek/internal/storage"
)

// Relocator moves image assets into the output image directory.
type Relocator struct {
	images storage.Provider
	logger *slog.Logger
}

// New creates a Relocator writing into images.
func New(images storage.Provider, logger *slog.Logger) *Relocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relocator{images: images, logger: logger}
}

// CopyResources copies every entry of resourceDir verbatim into the image
// directory and returns the copied names. A missing resourceDir is a no-op.
func (r *Relocator) CopyResources(resourceDir string) ([]string, error) {
	dirents, err := os.ReadDir(resourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list %s: %v", apperr.ErrImageCopy, resourceDir, err)
	}
	if len(dirents) == 0 {
		return nil, nil
	}

	if err := cp.Copy(resourceDir, r.images.Root()); err != nil {
		return nil, fmt.Errorf("%w: copy %s: %v", apperr.ErrImageCopy, resourceDir, err)
	}

	names := make([]string, 0, len(dirents))
	for _, d := range dirents {
		names = append(names, d.Name())
	}
	sort.Strings(names)
	r.logger.Debug("relocator: copied resources",
		slog.String("from", resourceDir),
		slog.Int("count", len(names)))
	return names, nil
}

// Apply executes a rename plan inside the image directory, in order.
func (r *Relocator) Apply(plan []models.Rename) error {
	for _, rn := range plan {
		if err := r.images.Move(rn.From, rn.To); err != nil {
			return fmt.Errorf("%w: rename %s to %s: %v", apperr.ErrImageCopy, rn.From, rn.To, err)
		}
		r.logger.Debug("relocator: renamed image",
			slog.String("from", rn.From),
			slog.String("to", rn.To))
	}
	return nil
}
