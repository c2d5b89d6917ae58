// Package frontmatter extracts, composes and renders the YAML header of a
// generated post, and derives the post's filename from it.
package frontmatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	fm "github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/starford/quivjek/internal/apperr"
	"github.com/starford/quivjek/internal/models"
)

// Header keys that are always present after Compose.
const (
	KeyTitle  = "title"
	KeyLayout = "layout"
	KeyDate   = "date"
	KeyTags   = "tags"
)

// DefaultLayout is used when the note does not choose one.
const DefaultLayout = "default"

const (
	delimiter    = "---"
	dateLayout   = "2006-01-02"
	timestampTag = "!!timestamp"
)

var yamlFormat = fm.NewFormat(delimiter, delimiter, yaml.Unmarshal)

// Header is a post's front matter.
type Header map[string]any

// Timestamp is an explicit YAML timestamp. It renders back exactly as the
// note wrote it.
type Timestamp struct {
	Text string
	Time time.Time
}

func (t Timestamp) String() string {
	return t.Text
}

// MarshalYAML emits the original scalar text.
func (t Timestamp) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: timestampTag, Value: t.Text}, nil
}

// Title returns the header title as text.
func (h Header) Title() string {
	return scalar(h[KeyTitle])
}

// Date returns the header date as text. Timestamps are formatted as a
// calendar day in their own offset.
func (h Header) Date() string {
	switch v := h[KeyDate].(type) {
	case Timestamp:
		return v.Time.Format(dateLayout)
	case time.Time:
		return v.Format(dateLayout)
	}
	return scalar(h[KeyDate])
}

// Tags returns the header tags.
func (h Header) Tags() []string {
	switch v := h[KeyTags].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, scalar(item))
		}
		return out
	}
	return nil
}

// Extract splits a leading YAML block off body. A body without one yields
// an empty header and the body unchanged.
func Extract(body string) (Header, string, error) {
	if !strings.HasPrefix(strings.TrimLeft(body, "\r\n"), delimiter) {
		return Header{}, body, nil
	}
	var doc yaml.Node
	rest, err := fm.Parse(strings.NewReader(body), &doc, yamlFormat)
	if err != nil {
		return nil, "", fmt.Errorf("%w: front matter: %v", apperr.ErrMalformedContent, err)
	}
	h, err := decodeHeader(&doc)
	if err != nil {
		return nil, "", fmt.Errorf("%w: front matter: %v", apperr.ErrMalformedContent, err)
	}
	return h, string(rest), nil
}

func decodeHeader(doc *yaml.Node) (Header, error) {
	h := Header{}
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return h, nil
		}
		root = root.Content[0]
	}
	switch root.Kind {
	case 0:
		return h, nil
	case yaml.MappingNode:
	default:
		return nil, fmt.Errorf("header is not a mapping")
	}
	m, err := decodeNode(root)
	if err != nil {
		return nil, err
	}
	for k, v := range m.(map[string]any) {
		h[k] = v
	}
	return h, nil
}

// decodeNode decodes n like yaml.Unmarshal into any, except that timestamps
// become Timestamp values.
func decodeNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decodeNode(n.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := decodeNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[n.Content[i].Value] = v
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		if n.ShortTag() == timestampTag {
			var t time.Time
			if err := n.Decode(&t); err != nil {
				return nil, err
			}
			return Timestamp{Text: n.Value, Time: t}, nil
		}
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Compose fills explicit with metadata fallbacks. Tags always come from the
// notebook and replace any explicit value.
func Compose(explicit Header, meta models.Metadata) Header {
	h := make(Header, len(explicit)+4)
	for k, v := range explicit {
		h[k] = v
	}
	if h[KeyTitle] == nil {
		h[KeyTitle] = meta.Title
	}
	if h[KeyLayout] == nil {
		h[KeyLayout] = DefaultLayout
	}
	if h[KeyDate] == nil {
		h[KeyDate] = time.Unix(meta.CreatedAt, 0).UTC().Format(dateLayout)
	}
	tags := make([]string, len(meta.Tags))
	copy(tags, meta.Tags)
	h[KeyTags] = tags
	return h
}

// Render serialises h followed by body. The fixed keys come first, then the
// remaining keys in lexical order.
func Render(h Header, body string) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range orderedKeys(h) {
		var val yaml.Node
		if err := val.Encode(h[key]); err != nil {
			return nil, fmt.Errorf("frontmatter: encode %s: %w", key, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&val)
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("frontmatter: encode header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("frontmatter: encode header: %w", err)
	}
	buf.WriteString(delimiter + "\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

func orderedKeys(h Header) []string {
	fixed := []string{KeyTitle, KeyLayout, KeyDate, KeyTags}
	keys := make([]string, 0, len(h))
	for _, k := range fixed {
		if _, ok := h[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range h {
		switch k {
		case KeyTitle, KeyLayout, KeyDate, KeyTags:
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func scalar(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
