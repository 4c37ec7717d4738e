package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/services"
	"github.com/ersonp/kin-core/internal/infrastructure/config"
	"github.com/ersonp/kin-core/internal/infrastructure/personstore/sqlite"
)

const testTree = "integration_tree"

// stack bundles the services wired over one real SQLite database.
type stack struct {
	store    *sqlite.Repository
	persons  *services.PersonService
	mutator  *services.RelationshipService
	repair   *services.RepairService
	subgraph *services.SubgraphService
	imports  *services.ImportService
}

// newStack opens a fresh file-backed database under the test's temp
// directory and wires the full service stack on top of it.
func newStack(t *testing.T) *stack {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "kin.db")
	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.EnsureSchema(context.Background()))

	persons := services.NewPersonService(store)
	mutator := services.NewRelationshipService(store, nil)

	return &stack{
		store:    store,
		persons:  persons,
		mutator:  mutator,
		repair:   services.NewRepairService(store),
		subgraph: services.NewSubgraphService(store),
		imports:  services.NewImportService(persons, mutator),
	}
}

// addPerson creates a person through the full service path.
func (s *stack) addPerson(t *testing.T, userID, name string) *entities.Person {
	t.Helper()

	p, err := s.persons.Create(context.Background(), &entities.Person{
		TreeID:    testTree,
		Name:      name,
		CreatedBy: userID,
	})
	require.NoError(t, err)
	return p
}
