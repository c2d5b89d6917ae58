// Package storage manages the generated output directories (posts and images).
package storage

// Provider is the interface for output directory operations. All paths are
// relative to the provider root.
type Provider interface {
	// Root returns the absolute directory the provider writes into.
	Root() string
	// Entries returns the names directly under the root, sorted.
	Entries() ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, replacing any existing file.
	Write(path string, content []byte) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
	// Clear removes every entry under the root, leaving the root in place.
	Clear() error
}
