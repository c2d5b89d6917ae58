package models

// Layout is the resolved, read-only set of paths a build works with.
type Layout struct {
	// Source is the site root that relative directories were resolved against.
	Source string
	// NotebookDir is the absolute path of the .qvnotebook directory.
	NotebookDir string
	// PostDir is the absolute path posts are written to.
	PostDir string
	// ImgDir is the absolute path images are copied to.
	ImgDir string
	// ImgURL replaces the quiver-image-url token in post bodies.
	ImgURL string
}
