// Package testutil provides shared helpers for building Quiver notebooks and
// output directories in tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/quivjek/internal/models"
	"github.com/starford/quivjek/internal/storage"
)

// Note describes a .qvnote fixture.
type Note struct {
	Meta      models.Metadata
	Cells     []models.Cell
	Resources map[string]string
	// SkipMeta and SkipContent leave the corresponding file out.
	SkipMeta    bool
	SkipContent bool
}

// Notebook creates an empty .qvnotebook directory with its own meta.json.
func Notebook(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "quiver.qvnotebook")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeJSON(t, filepath.Join(dir, "meta.json"), map[string]string{"name": "Blog", "uuid": "Blog"})
	return dir
}

// WriteNote writes n as <notebook>/<name>.qvnote and returns its path.
func WriteNote(t *testing.T, notebook, name string, n Note) string {
	t.Helper()
	dir := filepath.Join(notebook, name+".qvnote")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if !n.SkipMeta {
		writeJSON(t, filepath.Join(dir, "meta.json"), n.Meta)
	}
	if !n.SkipContent {
		writeJSON(t, filepath.Join(dir, "content.json"), models.Content{Title: n.Meta.Title, Cells: n.Cells})
	}
	if len(n.Resources) > 0 {
		res := filepath.Join(dir, "resources")
		if err := os.MkdirAll(res, 0o755); err != nil {
			t.Fatal(err)
		}
		for name, data := range n.Resources {
			if err := os.WriteFile(filepath.Join(res, name), []byte(data), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	return dir
}

// Output creates a temporary output directory with a storage.FS.
func Output(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Layout returns a models.Layout rooted in a fresh site directory.
func Layout(t *testing.T, notebook string) models.Layout {
	t.Helper()
	site := t.TempDir()
	return models.Layout{
		Source:      site,
		NotebookDir: notebook,
		PostDir:     filepath.Join(site, "_posts", "quiver"),
		ImgDir:      filepath.Join(site, "images", "quiver"),
		ImgURL:      "images/quiver",
	}
}

// ReadDir returns name → content for every file directly under dir.
func ReadDir(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		out[e.Name()] = string(data)
	}
	return out
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}
