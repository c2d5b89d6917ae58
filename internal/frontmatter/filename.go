package frontmatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/starford/quivjek/internal/apperr"
)

// Slug lower-cases title and replaces spaces with hyphens. Nothing else is
// sanitised.
func Slug(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}

// Filename derives "YYYY-MM-DD-slug.md" from the header title and date.
func Filename(h Header) (string, error) {
	title := h.Title()
	if title == "" {
		return "", apperr.ErrMissingTitle
	}

	var date time.Time
	switch v := h[KeyDate].(type) {
	case Timestamp:
		date = v.Time
	case time.Time:
		date = v
	default:
		raw := h.Date()
		parsed, err := dateparse.ParseIn(raw, time.UTC)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", apperr.ErrDateParse, raw, err)
		}
		date = parsed
	}

	return fmt.Sprintf("%d-%02d-%02d-%s.md", date.Year(), int(date.Month()), date.Day(), Slug(title)), nil
}
