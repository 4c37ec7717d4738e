package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/mocks"
)

func TestPersonCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with defaults", func(t *testing.T) {
		store := mocks.NewPersonStore()
		svc := NewPersonService(store)

		created, err := svc.Create(ctx, &entities.Person{
			TreeID:    "tree-1",
			Name:      "Anna Smith",
			CreatedBy: "user-1",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "anna smith", created.NormalizedName)
		assert.Equal(t, entities.GenderOther, created.Gender)
		assert.True(t, created.IsRoot)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("only the author's first person is a root", func(t *testing.T) {
		store := mocks.NewPersonStore()
		svc := NewPersonService(store)

		first, err := svc.Create(ctx, &entities.Person{TreeID: "tree-1", Name: "First", CreatedBy: "user-1"})
		require.NoError(t, err)
		second, err := svc.Create(ctx, &entities.Person{TreeID: "tree-1", Name: "Second", CreatedBy: "user-1"})
		require.NoError(t, err)
		other, err := svc.Create(ctx, &entities.Person{TreeID: "tree-1", Name: "Other", CreatedBy: "user-2"})
		require.NoError(t, err)

		assert.True(t, first.IsRoot)
		assert.False(t, second.IsRoot)
		assert.True(t, other.IsRoot)
	})

	t.Run("relationship fields are forced empty", func(t *testing.T) {
		store := mocks.NewPersonStore()
		svc := NewPersonService(store)

		created, err := svc.Create(ctx, &entities.Person{
			TreeID:    "tree-1",
			Name:      "Anna",
			CreatedBy: "user-1",
			ParentID:  "smuggled",
			SpouseID:  "smuggled",
			Children:  []string{"smuggled"},
		})
		require.NoError(t, err)

		assert.Empty(t, created.ParentID)
		assert.Empty(t, created.SpouseID)
		assert.Empty(t, created.Children)
		assert.Empty(t, store.Persons[created.ID].ParentID)
	})

	t.Run("requires a name", func(t *testing.T) {
		svc := NewPersonService(mocks.NewPersonStore())
		_, err := svc.Create(ctx, &entities.Person{TreeID: "tree-1", CreatedBy: "user-1"})
		assert.Error(t, err)
	})

	t.Run("rejects an unknown gender", func(t *testing.T) {
		svc := NewPersonService(mocks.NewPersonStore())
		_, err := svc.Create(ctx, &entities.Person{
			TreeID: "tree-1", Name: "Anna", CreatedBy: "user-1", Gender: "unknown",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gender")
	})

	t.Run("records a creation version", func(t *testing.T) {
		store := mocks.NewPersonStore()
		svc := NewPersonService(store)

		created, err := svc.Create(ctx, &entities.Person{TreeID: "tree-1", Name: "Anna", CreatedBy: "user-1"})
		require.NoError(t, err)

		require.Len(t, store.Versions, 1)
		assert.Equal(t, created.ID, store.Versions[0].PersonID)
		assert.Equal(t, entities.ChangeCreation, store.Versions[0].ChangeType)
		require.Len(t, store.Audit, 1)
		assert.Equal(t, "person.create", store.Audit[0].Action)
	})
}

func TestPersonDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the record and surfaces dangling references", func(t *testing.T) {
		store := mocks.NewPersonStore()
		target := seedPerson(store, "target")
		widow := seedPerson(store, "widow")
		orphan := seedPerson(store, "orphan")
		widow.SpouseID = "target"
		orphan.ParentID = "target"
		store.Add(target, widow, orphan)
		svc := NewPersonService(store)

		dangling, err := svc.Delete(ctx, "tree-1", "target")
		require.NoError(t, err)

		assert.NotContains(t, store.Persons, "target")
		assert.ElementsMatch(t, []string{"widow", "orphan"}, dangling)
		// References on the survivors are deliberately untouched.
		assert.Equal(t, "target", store.Persons["widow"].SpouseID)
		assert.Equal(t, "target", store.Persons["orphan"].ParentID)
	})

	t.Run("unknown person", func(t *testing.T) {
		svc := NewPersonService(mocks.NewPersonStore())
		_, err := svc.Delete(ctx, "tree-1", "ghost")
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestPersonHistory(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewPersonStore()
	personSvc := NewPersonService(store)
	relSvc := NewRelationshipService(store, nil)

	anna, err := personSvc.Create(ctx, &entities.Person{TreeID: "tree-1", Name: "Anna", CreatedBy: "user-1"})
	require.NoError(t, err)
	bart, err := personSvc.Create(ctx, &entities.Person{TreeID: "tree-1", Name: "Bart", CreatedBy: "user-1"})
	require.NoError(t, err)
	require.NoError(t, relSvc.SetSpouse(ctx, "user-1", anna.ID, bart.ID))

	versions, err := personSvc.History(ctx, anna.ID)
	require.NoError(t, err)

	// Newest first: the spouse mutation on top of the creation row.
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].Version)
	assert.Equal(t, entities.ChangeRelationshipSet, versions[0].ChangeType)
	assert.Equal(t, entities.ChangeCreation, versions[1].ChangeType)
}
