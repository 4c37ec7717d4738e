package ports

import "context"

// CollectionManager handles vector collection lifecycle operations. Kept
// separate from VectorDB so the data interface stays focused on CRUD.
type CollectionManager interface {
	// EnsureCollection creates the collection if it doesn't exist.
	EnsureCollection(ctx context.Context, vectorSize uint64) error

	// DeleteCollection removes the collection and all its data.
	DeleteCollection(ctx context.Context) error
}
