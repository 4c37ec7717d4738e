package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/application/handlers"
	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/services"
)

const importCSV = `name,gender,birth_date,parent,spouse
Grandpa Joe,male,1940-01-01,,
Alice,female,1965-03-10,Grandpa Joe,Carol
Bob,male,1990-07-22,Alice,
Carol,female,1966-11-02,,
`

func TestImportIntegration_CSV(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	s := newStack(t)
	ctx := context.Background()
	handler := handlers.NewImportHandler(s.imports)

	path := filepath.Join(t.TempDir(), "family.csv")
	require.NoError(t, os.WriteFile(path, []byte(importCSV), 0644))

	result, err := handler.Handle(ctx, testTree, "user-1", path, handlers.ImportOptions{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 3, result.Linked)
	assert.Empty(t, result.Errors)

	// Links resolved by name must survive as real graph edges. Alice's
	// parent row came before Grandpa Joe's children were known, so this
	// also covers the create-then-link ordering.
	list, err := s.persons.List(ctx, testTree)
	require.NoError(t, err)
	byName := make(map[string]*entities.Person)
	for _, p := range list {
		byName[p.Name] = p
	}

	assert.Equal(t, byName["Grandpa Joe"].ID, byName["Alice"].ParentID)
	assert.Equal(t, byName["Alice"].ID, byName["Bob"].ParentID)
	assert.Equal(t, byName["Carol"].ID, byName["Alice"].SpouseID)
	assert.Equal(t, byName["Alice"].ID, byName["Carol"].SpouseID)
	assert.True(t, byName["Grandpa Joe"].HasChild(byName["Alice"].ID))

	t.Run("re-import skips existing names", func(t *testing.T) {
		result, err := handler.Handle(ctx, testTree, "user-1", path, handlers.ImportOptions{Format: "csv"})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Imported)
		assert.Equal(t, 4, result.Skipped)
	})

	t.Run("conflict create imports duplicates", func(t *testing.T) {
		result, err := handler.Handle(ctx, testTree, "user-1", path, handlers.ImportOptions{
			Format:     "csv",
			OnConflict: services.ConflictCreate,
		})
		require.NoError(t, err)
		assert.Equal(t, 4, result.Imported)

		// Name resolution is now ambiguous for the linked columns.
		assert.NotEmpty(t, result.Errors)
	})

	t.Run("dry run saves nothing", func(t *testing.T) {
		before, err := s.persons.Count(ctx, testTree)
		require.NoError(t, err)

		result, err := handler.Handle(ctx, testTree, "user-1", path, handlers.ImportOptions{
			Format: "csv",
			DryRun: true,
		})
		require.NoError(t, err)
		assert.Zero(t, result.Linked)

		after, err := s.persons.Count(ctx, testTree)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestImportIntegration_RowErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	s := newStack(t)
	ctx := context.Background()
	handler := handlers.NewImportHandler(s.imports)

	csv := "name,gender,parent\n" +
		"Alice,female,\n" +
		",male,\n" +
		"Bob,unknown,\n" +
		"Eve,female,Missing Parent\n"

	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	result, err := handler.Handle(ctx, testTree, "user-1", path, handlers.ImportOptions{Format: "csv"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported, "valid rows import despite broken siblings")
	require.Len(t, result.Errors, 3)

	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"name", "gender", "parent"}, fields)
}
