// Package models defines the domain types for quivjek.
package models

// CellKind is the "type" tag of a Quiver content cell.
type CellKind string

const (
	CellCode     CellKind = "code"
	CellMarkdown CellKind = "markdown"
	CellText     CellKind = "text"
	CellLatex    CellKind = "latex"
)

// DraftTag marks a note that must not be published.
const DraftTag = "draft"

// Metadata mirrors a note's meta.json.
type Metadata struct {
	UUID      string   `json:"uuid"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
}

// IsDraft reports whether any tag is literally "draft".
func (m Metadata) IsDraft() bool {
	for _, t := range m.Tags {
		if t == DraftTag {
			return true
		}
	}
	return false
}

// Cell is one ordered unit of a note's content.
type Cell struct {
	Type     CellKind `json:"type"`
	Data     string   `json:"data"`
	Language string   `json:"language,omitempty"`
}

// Content mirrors a note's content.json.
type Content struct {
	Title string `json:"title,omitempty"`
	Cells []Cell `json:"cells"`
}

// Rename moves an image inside the output image directory from its raw
// Quiver name to the name referenced by the post body.
type Rename struct {
	From string
	To   string
}
