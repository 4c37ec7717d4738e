package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/mocks"
)

func TestIndexTree(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes every person", func(t *testing.T) {
		store := mocks.NewPersonStore()
		anna := seedPerson(store, "anna")
		anna.Bio = "Fisherman who emigrated in 1910."
		store.Add(anna)
		seedPerson(store, "bart")
		vdb := &mocks.VectorDB{}
		svc := NewBioSearchService(store, &mocks.Embedder{EmbeddingResult: []float32{0.1, 0.2}}, vdb)

		count, err := svc.IndexTree(ctx, "tree-1")
		require.NoError(t, err)

		assert.Equal(t, 2, count)
		assert.Equal(t, 1, vdb.SaveBatchCallCount)
		require.Len(t, vdb.SaveBatchLastDocs, 2)
		assert.Equal(t, []float32{0.1, 0.2}, vdb.SaveBatchLastDocs[0].Embedding)
	})

	t.Run("empty tree indexes nothing", func(t *testing.T) {
		vdb := &mocks.VectorDB{}
		svc := NewBioSearchService(mocks.NewPersonStore(), &mocks.Embedder{}, vdb)

		count, err := svc.IndexTree(ctx, "tree-1")
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Zero(t, vdb.SaveBatchCallCount)
	})

	t.Run("embedding failure aborts the index", func(t *testing.T) {
		store := mocks.NewPersonStore()
		seedPerson(store, "anna")
		vdb := &mocks.VectorDB{}
		svc := NewBioSearchService(store, &mocks.Embedder{Err: errors.New("api down")}, vdb)

		_, err := svc.IndexTree(ctx, "tree-1")
		require.Error(t, err)
		assert.Zero(t, vdb.SaveBatchCallCount)
	})
}

func TestBioSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the closest documents", func(t *testing.T) {
		vdb := &mocks.VectorDB{Docs: []entities.BioDoc{
			{PersonID: "anna", Name: "Anna", Score: 0.9},
			{PersonID: "bart", Name: "Bart", Score: 0.5},
		}}
		svc := NewBioSearchService(mocks.NewPersonStore(), &mocks.Embedder{EmbeddingResult: []float32{0.3}}, vdb)

		docs, err := svc.Search(ctx, "emigrated fisherman", 1)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "anna", docs[0].PersonID)
	})

	t.Run("zero limit falls back to the default", func(t *testing.T) {
		vdb := &mocks.VectorDB{}
		svc := NewBioSearchService(mocks.NewPersonStore(), &mocks.Embedder{EmbeddingResult: []float32{0.3}}, vdb)

		_, err := svc.Search(ctx, "anything", 0)
		require.NoError(t, err)
	})

	t.Run("embedding failure surfaces", func(t *testing.T) {
		svc := NewBioSearchService(mocks.NewPersonStore(), &mocks.Embedder{Err: errors.New("api down")}, &mocks.VectorDB{})

		_, err := svc.Search(ctx, "anything", 5)
		assert.Error(t, err)
	})
}
