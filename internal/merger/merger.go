// Package merger folds a note's ordered cells into a single Markdown body.
//
// Merging is pure: image renames implied by the body are returned as a plan
// and executed elsewhere.
package merger

import (
	"fmt"
	"strings"

	"github.com/starford/quivjek/internal/apperr"
	"github.com/starford/quivjek/internal/models"
)

// Diagnostic records a cell that contributed nothing to the body.
type Diagnostic struct {
	Index int
	Kind  models.CellKind
	Err   error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("cell %d: %v: %s", d.Index, d.Err, d.Kind)
}

// Result is the output of Merge.
type Result struct {
	Body        string
	Renames     []models.Rename
	Diagnostics []Diagnostic
}

// Merge renders cells in order. imageURL replaces every quiver-image-url
// token left in markdown cells after alt-text substitution.
func Merge(cells []models.Cell, imageURL string) Result {
	var (
		b   strings.Builder
		res Result
	)
	seen := make(map[models.Rename]struct{})

	for i, cell := range cells {
		switch cell.Type {
		case models.CellCode:
			fmt.Fprintf(&b, "{%% highlight %s %%}\n%s\n{%% endhighlight %%}\n", cell.Language, cell.Data)
		case models.CellMarkdown:
			text, renames := rewriteImages(cell.Data, imageURL)
			for _, r := range renames {
				if _, dup := seen[r]; dup {
					continue
				}
				seen[r] = struct{}{}
				res.Renames = append(res.Renames, r)
			}
			b.WriteString(text)
			b.WriteString("\n")
		case models.CellText:
			// markdown="0" keeps kramdown from reprocessing the HTML.
			b.WriteString("<div markdown=\"0\">\n")
			b.WriteString(cell.Data)
			b.WriteString("\n<div><br /></div>\n</div>\n")
		case models.CellLatex:
			b.WriteString("$$\n")
			b.WriteString(cell.Data)
			b.WriteString("\n$$\n")
		default:
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Index: i,
				Kind:  cell.Type,
				Err:   apperr.ErrUnsupportedCellKind,
			})
			continue
		}
		b.WriteString("\n")
	}

	res.Body = b.String()
	return res
}

// rewriteImages points every bundled image at its alt-text name and swaps
// the Quiver token for imageURL.
func rewriteImages(text, imageURL string) (string, []models.Rename) {
	refs := ScanImages(text)
	renames := make([]models.Rename, 0, len(refs))
	for _, ref := range refs {
		if ref.Alt == "" || ref.Alt == ref.Raw {
			continue
		}
		text = strings.ReplaceAll(text, ref.Raw, ref.Alt)
		renames = append(renames, models.Rename{From: ref.Raw, To: ref.Alt})
	}
	return strings.ReplaceAll(text, ImageToken, imageURL), renames
}
