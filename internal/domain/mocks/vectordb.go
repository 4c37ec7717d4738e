package mocks

import (
	"context"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// VectorDB is a mock implementation of ports.VectorDB.
type VectorDB struct {
	Docs []entities.BioDoc
	Err  error

	// Call tracking
	SaveBatchCallCount int
	SaveBatchLastDocs  []entities.BioDoc
}

// Save stores a single bio document.
func (m *VectorDB) Save(ctx context.Context, doc entities.BioDoc) error {
	if m.Err != nil {
		return m.Err
	}
	m.Docs = append(m.Docs, doc)
	return nil
}

// SaveBatch stores multiple bio documents.
func (m *VectorDB) SaveBatch(ctx context.Context, docs []entities.BioDoc) error {
	m.SaveBatchCallCount++
	m.SaveBatchLastDocs = docs
	if m.Err != nil {
		return m.Err
	}
	m.Docs = append(m.Docs, docs...)
	return nil
}

// Search returns the first docs up to limit.
func (m *VectorDB) Search(ctx context.Context, embedding []float32, limit int) ([]entities.BioDoc, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > len(m.Docs) {
		return m.Docs, nil
	}
	return m.Docs[:limit], nil
}

// Delete removes a bio document by person id.
func (m *VectorDB) Delete(ctx context.Context, personID string) error {
	if m.Err != nil {
		return m.Err
	}
	kept := m.Docs[:0]
	for _, d := range m.Docs {
		if d.PersonID != personID {
			kept = append(kept, d)
		}
	}
	m.Docs = kept
	return nil
}

// DeleteAll removes every bio document.
func (m *VectorDB) DeleteAll(ctx context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	m.Docs = nil
	return nil
}

// Count returns the number of stored documents.
func (m *VectorDB) Count(ctx context.Context) (uint64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return uint64(len(m.Docs)), nil
}
