package manifest

// Store defines the manifest operations a build depends on.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type Store interface {
	Reset() error
	RecordPost(p PostRow, images []ImageRow) error
	ListPosts(tag string) ([]PostRow, error)
	Images(post string) ([]ImageRow, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
