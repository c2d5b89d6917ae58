package manifest

import (
	"log/slog"

	"github.com/starford/quivjek/internal/checksum"
	"github.com/starford/quivjek/internal/converter"
	"github.com/starford/quivjek/internal/storage"
)

// Sync replaces the manifest contents with the posts of a finished run.
// images is the run's image output; images that cannot be read are recorded
// without a checksum.
func Sync(db Store, results []*converter.Result, images storage.Provider, logger *slog.Logger) error {
	if err := db.Reset(); err != nil {
		return err
	}

	for _, res := range results {
		rows := make([]ImageRow, 0, len(res.Images))
		for _, name := range res.Images {
			var sum string
			data, err := images.Read(name)
			if err != nil {
				logger.Warn("manifest: checksum failed", slog.String("image", name), slog.String("error", err.Error()))
			} else {
				sum = checksum.Sum(data)
			}
			rows = append(rows, ImageRow{Filename: name, Checksum: sum})
		}

		row := PostRow{
			Filename: res.Filename,
			Note:     res.Note,
			Title:    res.Title,
			Date:     res.Date,
			Tags:     res.Tags,
			Checksum: res.Checksum,
		}
		if err := db.RecordPost(row, rows); err != nil {
			return err
		}
		logger.Debug("manifest: recorded", slog.String("post", res.Filename))
	}
	return nil
}

// Listing is a recorded post together with its images.
type Listing struct {
	PostRow
	Images []ImageRow
}

// List returns the posts carrying tag (all posts when tag is empty) with
// their images.
func List(db Store, tag string) ([]Listing, error) {
	posts, err := db.ListPosts(tag)
	if err != nil {
		return nil, err
	}
	out := make([]Listing, 0, len(posts))
	for _, p := range posts {
		images, err := db.Images(p.Filename)
		if err != nil {
			return nil, err
		}
		out = append(out, Listing{PostRow: p, Images: images})
	}
	return out, nil
}
