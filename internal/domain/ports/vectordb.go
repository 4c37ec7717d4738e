package ports

import (
	"context"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// VectorDB defines the interface for the bio search vector store.
type VectorDB interface {
	// Save stores a bio document with its embedding.
	Save(ctx context.Context, doc entities.BioDoc) error

	// SaveBatch stores multiple bio documents.
	SaveBatch(ctx context.Context, docs []entities.BioDoc) error

	// Search returns the bio documents most similar to the embedding.
	Search(ctx context.Context, embedding []float32, limit int) ([]entities.BioDoc, error)

	// Delete removes a bio document by person id.
	Delete(ctx context.Context, personID string) error

	// DeleteAll removes every bio document in the collection.
	DeleteAll(ctx context.Context) error

	// Count returns the number of indexed bio documents.
	Count(ctx context.Context) (uint64, error)
}
