package batch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/quivjek/internal/apperr"
	"github.com/starford/quivjek/internal/batch"
	"github.com/starford/quivjek/internal/host"
	"github.com/starford/quivjek/internal/models"
	"github.com/starford/quivjek/internal/testutil"
)

func seed(t *testing.T) (string, models.Layout) {
	t.Helper()
	notebook := testutil.Notebook(t)
	testutil.WriteNote(t, notebook, "A", testutil.Note{
		Meta:      models.Metadata{Title: "First Post", Tags: []string{"go"}, CreatedAt: 1680652800},
		Cells:     []models.Cell{{Type: models.CellMarkdown, Data: "![cover.png](quiver-image-url/AAA.png)"}},
		Resources: map[string]string{"AAA.png": "png-bytes"},
	})
	testutil.WriteNote(t, notebook, "B", testutil.Note{
		Meta:  models.Metadata{Title: "Second Post", CreatedAt: 1680739200},
		Cells: []models.Cell{{Type: models.CellLatex, Data: "x^2"}},
	})
	testutil.WriteNote(t, notebook, "C", testutil.Note{
		Meta:      models.Metadata{Title: "Secret", Tags: []string{"draft"}, CreatedAt: 1680652800},
		Cells:     []models.Cell{{Type: models.CellMarkdown, Data: "wip"}},
		Resources: map[string]string{"draft.png": "x"},
	})
	require.NoError(t, os.WriteFile(filepath.Join(notebook, ".keep"), nil, 0o644))
	return notebook, testutil.Layout(t, notebook)
}

func TestRun_OnePostPerPublishedNote(t *testing.T) {
	_, layout := seed(t)
	site := host.NewSite(layout.Source)

	summary, err := batch.New(layout, site).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, summary.Converted, 2)
	assert.Equal(t, []string{"C.qvnote"}, summary.Skipped)

	posts := testutil.ReadDir(t, layout.PostDir)
	assert.Len(t, posts, 2)
	assert.Contains(t, posts, "2023-04-05-first-post.md")
	assert.Contains(t, posts, "2023-04-06-second-post.md")

	images := testutil.ReadDir(t, layout.ImgDir)
	assert.Equal(t, map[string]string{"cover.png": "png-bytes"}, images)
}

func TestRun_Idempotent(t *testing.T) {
	_, layout := seed(t)
	site := host.NewSite(layout.Source)
	runner := batch.New(layout, site)

	_, err := runner.Run(context.Background())
	require.NoError(t, err)
	firstPosts := testutil.ReadDir(t, layout.PostDir)
	firstImages := testutil.ReadDir(t, layout.ImgDir)

	_, err = runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, firstPosts, testutil.ReadDir(t, layout.PostDir))
	assert.Equal(t, firstImages, testutil.ReadDir(t, layout.ImgDir))
}

func TestRun_ClearsStaleOutput(t *testing.T) {
	_, layout := seed(t)
	require.NoError(t, os.MkdirAll(layout.PostDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(layout.PostDir, "2000-01-01-renamed.md"), []byte("old"), 0o644))

	_, err := batch.New(layout, nil).Run(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, testutil.ReadDir(t, layout.PostDir), "2000-01-01-renamed.md")
}

func TestRun_ExcludesRegisteredOnce(t *testing.T) {
	_, layout := seed(t)
	site := host.NewSite(layout.Source, "vendor")
	runner := batch.New(layout, site)

	for i := 0; i < 3; i++ {
		_, err := runner.Run(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"vendor", layout.PostDir, layout.ImgDir}, site.Excludes())
}

func TestRun_MissingMetadataAborts(t *testing.T) {
	notebook, layout := seed(t)
	testutil.WriteNote(t, notebook, "0-broken", testutil.Note{SkipMeta: true})

	summary, err := batch.New(layout, nil).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrMissingMetadata)
	assert.Empty(t, summary.Converted)
	assert.Empty(t, testutil.ReadDir(t, layout.PostDir))
}

func TestRun_ContinuePolicyIsolatesFailures(t *testing.T) {
	notebook, layout := seed(t)
	testutil.WriteNote(t, notebook, "0-broken", testutil.Note{SkipMeta: true})

	summary, err := batch.New(layout, nil, batch.WithOnError(batch.OnErrorContinue)).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrMissingMetadata)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, "0-broken.qvnote", summary.Failed[0].Note)
	assert.Len(t, summary.Converted, 2)
	assert.Len(t, testutil.ReadDir(t, layout.PostDir), 2)
}

func TestRun_CancelledContext(t *testing.T) {
	_, layout := seed(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := batch.New(layout, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_MissingNotebook(t *testing.T) {
	layout := testutil.Layout(t, filepath.Join(t.TempDir(), "nope.qvnotebook"))
	_, err := batch.New(layout, nil).Run(context.Background())
	assert.Error(t, err)
}
