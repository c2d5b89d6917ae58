// Package quiver reads notes from a Quiver .qvnotebook export.
package quiver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/starford/quivjek/internal/apperr"
	"github.com/starford/quivjek/internal/models"
)

// File names inside a .qvnote directory.
const (
	MetaFile     = "meta.json"
	ContentFile  = "content.json"
	ResourcesDir = "resources"
)

// LoadMetadata reads and decodes <noteDir>/meta.json.
func LoadMetadata(noteDir string) (models.Metadata, error) {
	var meta models.Metadata
	path := filepath.Join(noteDir, MetaFile)
	if err := readJSON(path, &meta, apperr.ErrMissingMetadata, apperr.ErrMalformedMetadata); err != nil {
		return models.Metadata{}, err
	}
	return meta, nil
}

// LoadContent reads and decodes <noteDir>/content.json.
func LoadContent(noteDir string) (models.Content, error) {
	var content models.Content
	path := filepath.Join(noteDir, ContentFile)
	if err := readJSON(path, &content, apperr.ErrMissingContent, apperr.ErrMalformedContent); err != nil {
		return models.Content{}, err
	}
	return content, nil
}

// ResourcePath returns the note's resources directory and whether it exists.
func ResourcePath(noteDir string) (string, bool) {
	p := filepath.Join(noteDir, ResourcesDir)
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		return p, false
	}
	return p, true
}

func readJSON(path string, target any, missing, malformed error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", missing, path)
		}
		return fmt.Errorf("quiver: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %s: %v", malformed, path, err)
	}
	return nil
}
