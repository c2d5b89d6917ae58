package converter_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/quivjek/internal/apperr"
	"github.com/starford/quivjek/internal/converter"
	"github.com/starford/quivjek/internal/models"
	"github.com/starford/quivjek/internal/testutil"
)

func newConverter(t *testing.T) (*converter.Converter, string, string) {
	t.Helper()
	postDir, posts := testutil.Output(t)
	imgDir, images := testutil.Output(t)
	layout := models.Layout{PostDir: postDir, ImgDir: imgDir, ImgURL: "images/quiver"}
	return converter.New(layout, posts, images, nil), postDir, imgDir
}

func TestConvert_WritesPost(t *testing.T) {
	conv, postDir, _ := newConverter(t)
	notebook := testutil.Notebook(t)
	dir := testutil.WriteNote(t, notebook, "A", testutil.Note{
		Meta: models.Metadata{Title: "My First Post", Tags: []string{"go"}, CreatedAt: 1680652800},
		Cells: []models.Cell{
			{Type: models.CellMarkdown, Data: "Hello"},
			{Type: models.CellCode, Language: "go", Data: "x := 1"},
		},
	})

	res, err := conv.Convert(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, "2023-04-05-my-first-post.md", res.Filename)
	assert.Equal(t, []string{"go"}, res.Tags)
	assert.NotEmpty(t, res.Checksum)

	data, err := os.ReadFile(filepath.Join(postDir, res.Filename))
	require.NoError(t, err)
	want := "---\n" +
		"title: My First Post\n" +
		"layout: default\n" +
		"date: \"2023-04-05\"\n" +
		"tags:\n" +
		"  - go\n" +
		"---\n" +
		"Hello\n\n" +
		"{% highlight go %}\nx := 1\n{% endhighlight %}\n\n"
	assert.Equal(t, want, string(data))
}

func TestConvert_SkipsDraft(t *testing.T) {
	conv, postDir, imgDir := newConverter(t)
	notebook := testutil.Notebook(t)
	dir := testutil.WriteNote(t, notebook, "D", testutil.Note{
		Meta:      models.Metadata{Title: "Draft", Tags: []string{"go", "draft"}, CreatedAt: 1},
		Cells:     []models.Cell{{Type: models.CellMarkdown, Data: "x"}},
		Resources: map[string]string{"a.png": "a"},
	})

	res, err := conv.Convert(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, testutil.ReadDir(t, postDir))
	assert.Empty(t, testutil.ReadDir(t, imgDir))
}

func TestConvert_DraftTagIsCaseSensitive(t *testing.T) {
	conv, postDir, _ := newConverter(t)
	notebook := testutil.Notebook(t)
	dir := testutil.WriteNote(t, notebook, "D", testutil.Note{
		Meta:  models.Metadata{Title: "Not Draft", Tags: []string{"Draft"}, CreatedAt: 1680652800},
		Cells: []models.Cell{{Type: models.CellMarkdown, Data: "x"}},
	})

	res, err := conv.Convert(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Len(t, testutil.ReadDir(t, postDir), 1)
}

func TestConvert_ImageRenameRoundTrip(t *testing.T) {
	conv, postDir, imgDir := newConverter(t)
	notebook := testutil.Notebook(t)
	dir := testutil.WriteNote(t, notebook, "I", testutil.Note{
		Meta: models.Metadata{Title: "Pics", CreatedAt: 1680652800},
		Cells: []models.Cell{{
			Type: models.CellMarkdown,
			Data: "![final-name](quiver-image-url/raw123.png)",
		}},
		Resources: map[string]string{"raw123.png": "PNG", "other.jpg": "JPG"},
	})

	res, err := conv.Convert(context.Background(), dir)
	require.NoError(t, err)

	images := testutil.ReadDir(t, imgDir)
	assert.Equal(t, map[string]string{"final-name": "PNG", "other.jpg": "JPG"}, images)
	assert.ElementsMatch(t, []string{"final-name", "other.jpg"}, res.Images)

	post := testutil.ReadDir(t, postDir)[res.Filename]
	assert.Contains(t, post, "![final-name](images/quiver/final-name)")
	assert.NotContains(t, post, "raw123.png")
}

func TestConvert_ExplicitFrontMatter(t *testing.T) {
	conv, postDir, _ := newConverter(t)
	notebook := testutil.Notebook(t)
	dir := testutil.WriteNote(t, notebook, "F", testutil.Note{
		Meta: models.Metadata{Title: "Meta Title", Tags: []string{"notebook"}, CreatedAt: 1680652800},
		Cells: []models.Cell{
			{Type: models.CellMarkdown, Data: "---\ntitle: Body Title\ndate: 2021-12-31\ntags: [body]\nlayout: post\n---\nText"},
		},
	})

	res, err := conv.Convert(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "2021-12-31-body-title.md", res.Filename)
	assert.Equal(t, "Body Title", res.Title)
	assert.Equal(t, []string{"notebook"}, res.Tags)
	assert.Equal(t, "2021-12-31", res.Date)

	post := testutil.ReadDir(t, postDir)[res.Filename]
	assert.Contains(t, post, "date: 2021-12-31\n")
	assert.Contains(t, post, "layout: post\n")
	assert.Contains(t, post, "  - notebook\n")
	assert.NotContains(t, post, "body]")
}

func TestConvert_UnsupportedCellIsDiagnostic(t *testing.T) {
	conv, _, _ := newConverter(t)
	notebook := testutil.Notebook(t)
	dir := testutil.WriteNote(t, notebook, "U", testutil.Note{
		Meta: models.Metadata{Title: "Video", CreatedAt: 1680652800},
		Cells: []models.Cell{
			{Type: models.CellMarkdown, Data: "before"},
			{Type: "video", Data: "clip"},
		},
	})

	res, err := conv.Convert(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0].Err, apperr.ErrUnsupportedCellKind)
}

func TestConvert_MissingMetadata(t *testing.T) {
	conv, postDir, _ := newConverter(t)
	notebook := testutil.Notebook(t)
	dir := testutil.WriteNote(t, notebook, "M", testutil.Note{SkipMeta: true})

	_, err := conv.Convert(context.Background(), dir)
	assert.ErrorIs(t, err, apperr.ErrMissingMetadata)
	assert.Empty(t, testutil.ReadDir(t, postDir))
}

func TestConvert_MissingContent(t *testing.T) {
	conv, _, _ := newConverter(t)
	notebook := testutil.Notebook(t)
	dir := testutil.WriteNote(t, notebook, "C", testutil.Note{
		Meta:        models.Metadata{Title: "x"},
		SkipContent: true,
	})

	_, err := conv.Convert(context.Background(), dir)
	assert.ErrorIs(t, err, apperr.ErrMissingContent)
}

func TestConvert_BadExplicitDate(t *testing.T) {
	conv, _, _ := newConverter(t)
	notebook := testutil.Notebook(t)
	dir := testutil.WriteNote(t, notebook, "B", testutil.Note{
		Meta:  models.Metadata{Title: "x"},
		Cells: []models.Cell{{Type: models.CellMarkdown, Data: "---\ndate: someday\n---\n"}},
	})

	_, err := conv.Convert(context.Background(), dir)
	assert.ErrorIs(t, err, apperr.ErrDateParse)
}
