package services

import (
	"context"
	"fmt"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/ports"
)

// DefaultSearchLimit is the default number of search results to return.
const DefaultSearchLimit = 10

// BioSearchService provides semantic search over person bios: free-text
// queries like "fisherman who emigrated" find the closest life stories.
type BioSearchService struct {
	store    ports.PersonStore
	embedder ports.Embedder
	vectorDB ports.VectorDB
}

// NewBioSearchService creates a new BioSearchService.
func NewBioSearchService(store ports.PersonStore, embedder ports.Embedder, vectorDB ports.VectorDB) *BioSearchService {
	return &BioSearchService{
		store:    store,
		embedder: embedder,
		vectorDB: vectorDB,
	}
}

// IndexTree (re)embeds every person of a tree into the vector store.
// Persons without a bio are indexed on name alone. Returns how many were
// indexed.
func (s *BioSearchService) IndexTree(ctx context.Context, treeID string) (int, error) {
	persons, err := s.store.ListPersons(ctx, treeID)
	if err != nil {
		return 0, fmt.Errorf("listing persons: %w", err)
	}
	if len(persons) == 0 {
		return 0, nil
	}

	docs := make([]entities.BioDoc, 0, len(persons))
	texts := make([]string, 0, len(persons))
	for _, p := range persons {
		docs = append(docs, entities.BioDoc{
			PersonID: p.ID,
			Name:     p.Name,
			Bio:      p.Bio,
		})
		texts = append(texts, bioText(p))
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("generating embeddings: %w", err)
	}
	for i := range docs {
		docs[i].Embedding = embeddings[i]
	}

	if err := s.vectorDB.SaveBatch(ctx, docs); err != nil {
		return 0, fmt.Errorf("saving bio documents: %w", err)
	}
	return len(docs), nil
}

// Search returns the persons whose indexed bios are most similar to the
// query.
func (s *BioSearchService) Search(ctx context.Context, query string, limit int) ([]entities.BioDoc, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("generating query embedding: %w", err)
	}

	docs, err := s.vectorDB.Search(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("searching bios: %w", err)
	}
	return docs, nil
}

// bioText builds the embedded text for a person.
func bioText(p *entities.Person) string {
	if p.Bio == "" {
		return p.Name
	}
	return p.Name + ". " + p.Bio
}
