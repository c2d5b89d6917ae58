// Package host models the publishing system that invokes a build: its
// source root and the exclusion list it consults before reacting to file
// changes.
package host

import "path/filepath"

// Site is the host state a build is allowed to touch.
type Site struct {
	// Source is the site root directory.
	Source string

	exclude []string
}

// NewSite returns a Site rooted at source with an initial exclusion list.
func NewSite(source string, exclude ...string) *Site {
	s := &Site{Source: source}
	for _, p := range exclude {
		s.Exclude(p)
	}
	return s
}

// Exclude appends path to the exclusion list unless it is already there.
// It reports whether the list changed.
func (s *Site) Exclude(path string) bool {
	path = filepath.Clean(path)
	if s.IsExcluded(path) {
		return false
	}
	s.exclude = append(s.exclude, path)
	return true
}

// IsExcluded reports whether path is already on the exclusion list.
func (s *Site) IsExcluded(path string) bool {
	path = filepath.Clean(path)
	for _, p := range s.exclude {
		if p == path {
			return true
		}
	}
	return false
}

// Excludes returns a copy of the exclusion list.
func (s *Site) Excludes() []string {
	out := make([]string, len(s.exclude))
	copy(out, s.exclude)
	return out
}
