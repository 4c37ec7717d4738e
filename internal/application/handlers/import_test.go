package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/mocks"
	"github.com/ersonp/kin-core/internal/domain/services"
)

func newImportFixture() (*mocks.PersonStore, *ImportHandler) {
	store := mocks.NewPersonStore()
	persons := services.NewPersonService(store)
	mutator := services.NewRelationshipService(store, nil)
	return store, NewImportHandler(services.NewImportService(persons, mutator))
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("imports a csv file by extension", func(t *testing.T) {
		store, h := newImportFixture()
		path := writeTempFile(t, "family.csv",
			"name,gender,parent\nAnna,female,\nKid,,Anna\n")

		result, err := h.Handle(ctx, "tree-1", "user-1", path, ImportOptions{})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 1, result.Linked)
		assert.Len(t, store.Persons, 2)
	})

	t.Run("imports a json file with explicit format", func(t *testing.T) {
		store, h := newImportFixture()
		path := writeTempFile(t, "family.data",
			`[{"name": "Anna"}, {"name": "Bart", "spouse": "Anna"}]`)

		result, err := h.Handle(ctx, "tree-1", "user-1", path, ImportOptions{Format: "json"})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Imported)
		assert.Len(t, store.Persons, 2)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, h := newImportFixture()
		_, err := h.Handle(ctx, "tree-1", "user-1", "family.txt", ImportOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("missing file", func(t *testing.T) {
		_, h := newImportFixture()
		_, err := h.Handle(ctx, "tree-1", "user-1", "/nonexistent/family.csv", ImportOptions{})
		assert.Error(t, err)
	})

	t.Run("empty file imports nothing", func(t *testing.T) {
		store, h := newImportFixture()
		path := writeTempFile(t, "family.json", `[]`)

		result, err := h.Handle(ctx, "tree-1", "user-1", path, ImportOptions{})
		require.NoError(t, err)
		assert.Zero(t, result.Imported)
		assert.Empty(t, store.Persons)
	})

	t.Run("dry run leaves the store untouched", func(t *testing.T) {
		store, h := newImportFixture()
		path := writeTempFile(t, "family.csv", "name\nAnna\n")

		result, err := h.Handle(ctx, "tree-1", "user-1", path, ImportOptions{DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		assert.Empty(t, store.Persons)
	})
}
