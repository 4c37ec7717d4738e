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

// denyAll is a test authorizer that rejects every mutation.
type denyAll struct{}

func (denyAll) CanMutate(_ context.Context, _, _ string) error {
	return errors.New("denied")
}

func seedPerson(store *mocks.PersonStore, id string) *entities.Person {
	p := &entities.Person{
		ID:        id,
		TreeID:    "tree-1",
		Name:      "Person " + id,
		Children:  []string{},
		CreatedBy: "user-1",
	}
	store.Add(p)
	return p
}

func TestSetParentChild(t *testing.T) {
	ctx := context.Background()

	t.Run("links both directions in one batch", func(t *testing.T) {
		store := mocks.NewPersonStore()
		seedPerson(store, "parent")
		seedPerson(store, "child")
		svc := NewRelationshipService(store, nil)

		err := svc.SetParentChild(ctx, "user-1", "parent", "child")
		require.NoError(t, err)

		assert.Equal(t, 1, store.BatchUpdateCallCount)
		assert.Equal(t, "parent", store.Persons["child"].ParentID)
		assert.Equal(t, []string{"child"}, store.Persons["parent"].Children)
	})

	t.Run("does not duplicate an already cached child", func(t *testing.T) {
		store := mocks.NewPersonStore()
		parent := seedPerson(store, "parent")
		seedPerson(store, "child")
		parent.Children = []string{"child"}
		store.Add(parent)
		svc := NewRelationshipService(store, nil)

		err := svc.SetParentChild(ctx, "user-1", "parent", "child")
		require.NoError(t, err)
		assert.Equal(t, []string{"child"}, store.Persons["parent"].Children)
	})

	t.Run("rejects self-parenting", func(t *testing.T) {
		store := mocks.NewPersonStore()
		seedPerson(store, "p1")
		svc := NewRelationshipService(store, nil)

		err := svc.SetParentChild(ctx, "user-1", "p1", "p1")
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrInvalidRelationship)
		assert.Zero(t, store.BatchUpdateCallCount)
	})

	t.Run("unknown person fails before any write", func(t *testing.T) {
		store := mocks.NewPersonStore()
		seedPerson(store, "parent")
		svc := NewRelationshipService(store, nil)

		err := svc.SetParentChild(ctx, "user-1", "parent", "ghost")
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrNotFound)
		assert.Zero(t, store.BatchUpdateCallCount)
	})

	t.Run("denied by authorizer", func(t *testing.T) {
		store := mocks.NewPersonStore()
		seedPerson(store, "parent")
		seedPerson(store, "child")
		svc := NewRelationshipService(store, denyAll{})

		err := svc.SetParentChild(ctx, "user-2", "parent", "child")
		require.Error(t, err)
		assert.Zero(t, store.BatchUpdateCallCount)
	})
}

func TestSetSpouse(t *testing.T) {
	ctx := context.Background()

	t.Run("links both sides symmetrically", func(t *testing.T) {
		store := mocks.NewPersonStore()
		seedPerson(store, "anna")
		seedPerson(store, "bart")
		svc := NewRelationshipService(store, nil)

		err := svc.SetSpouse(ctx, "user-1", "anna", "bart")
		require.NoError(t, err)

		assert.Equal(t, 1, store.BatchUpdateCallCount)
		assert.Equal(t, "bart", store.Persons["anna"].SpouseID)
		assert.Equal(t, "anna", store.Persons["bart"].SpouseID)
	})

	t.Run("overwrites an existing spouse link", func(t *testing.T) {
		store := mocks.NewPersonStore()
		anna := seedPerson(store, "anna")
		seedPerson(store, "bart")
		seedPerson(store, "carl")
		anna.SpouseID = "carl"
		store.Add(anna)
		svc := NewRelationshipService(store, nil)

		err := svc.SetSpouse(ctx, "user-1", "anna", "bart")
		require.NoError(t, err)

		assert.Equal(t, "bart", store.Persons["anna"].SpouseID)
		assert.Equal(t, "anna", store.Persons["bart"].SpouseID)
	})

	t.Run("rejects self-marriage", func(t *testing.T) {
		store := mocks.NewPersonStore()
		seedPerson(store, "anna")
		svc := NewRelationshipService(store, nil)

		err := svc.SetSpouse(ctx, "user-1", "anna", "anna")
		assert.ErrorIs(t, err, entities.ErrInvalidRelationship)
	})
}

func TestAddSecondParent(t *testing.T) {
	ctx := context.Background()

	t.Run("records the proxy shape", func(t *testing.T) {
		store := mocks.NewPersonStore()
		child := seedPerson(store, "child")
		seedPerson(store, "first")
		seedPerson(store, "second")
		child.ParentID = "first"
		store.Add(child)
		svc := NewRelationshipService(store, nil)

		err := svc.AddSecondParent(ctx, "user-1", "child", "first", "second")
		require.NoError(t, err)

		// Child keeps its single parent slot; the second parent holds the
		// child directly and is spouse-linked to the first parent.
		assert.Equal(t, "first", store.Persons["child"].ParentID)
		assert.Equal(t, []string{"child"}, store.Persons["second"].Children)
		assert.Equal(t, "second", store.Persons["first"].SpouseID)
		assert.Equal(t, "first", store.Persons["second"].SpouseID)
		assert.Equal(t, 1, store.BatchUpdateCallCount)
	})

	t.Run("adopts the first parent when the child has none", func(t *testing.T) {
		store := mocks.NewPersonStore()
		seedPerson(store, "child")
		seedPerson(store, "first")
		seedPerson(store, "second")
		svc := NewRelationshipService(store, nil)

		err := svc.AddSecondParent(ctx, "user-1", "child", "first", "second")
		require.NoError(t, err)
		assert.Equal(t, "first", store.Persons["child"].ParentID)
	})

	t.Run("requires three distinct persons", func(t *testing.T) {
		store := mocks.NewPersonStore()
		seedPerson(store, "a")
		seedPerson(store, "b")
		svc := NewRelationshipService(store, nil)

		assert.ErrorIs(t, svc.AddSecondParent(ctx, "user-1", "a", "a", "b"), entities.ErrInvalidRelationship)
		assert.ErrorIs(t, svc.AddSecondParent(ctx, "user-1", "a", "b", "b"), entities.ErrInvalidRelationship)
	})
}

func TestRemoveRelationship(t *testing.T) {
	ctx := context.Background()

	t.Run("parent-child clears both sides", func(t *testing.T) {
		store := mocks.NewPersonStore()
		parent := seedPerson(store, "parent")
		child := seedPerson(store, "child")
		parent.Children = []string{"child"}
		child.ParentID = "parent"
		store.Add(parent, child)
		svc := NewRelationshipService(store, nil)

		err := svc.RemoveRelationship(ctx, "user-1", entities.KindParentChild, "parent", "child")
		require.NoError(t, err)

		assert.Empty(t, store.Persons["child"].ParentID)
		assert.Empty(t, store.Persons["parent"].Children)
	})

	t.Run("parent-child keeps a foreign parent link", func(t *testing.T) {
		store := mocks.NewPersonStore()
		parent := seedPerson(store, "parent")
		child := seedPerson(store, "child")
		seedPerson(store, "other")
		parent.Children = []string{"child"}
		child.ParentID = "other"
		store.Add(parent, child)
		svc := NewRelationshipService(store, nil)

		err := svc.RemoveRelationship(ctx, "user-1", entities.KindParentChild, "parent", "child")
		require.NoError(t, err)

		// Only the stale cache entry goes; the child's link to its real
		// parent survives.
		assert.Equal(t, "other", store.Persons["child"].ParentID)
		assert.Empty(t, store.Persons["parent"].Children)
	})

	t.Run("spouse clears only sides that match", func(t *testing.T) {
		store := mocks.NewPersonStore()
		anna := seedPerson(store, "anna")
		bart := seedPerson(store, "bart")
		anna.SpouseID = "bart"
		bart.SpouseID = "carl"
		store.Add(anna, bart)
		svc := NewRelationshipService(store, nil)

		err := svc.RemoveRelationship(ctx, "user-1", entities.KindSpouse, "anna", "bart")
		require.NoError(t, err)

		assert.Empty(t, store.Persons["anna"].SpouseID)
		assert.Equal(t, "carl", store.Persons["bart"].SpouseID)
	})

	t.Run("second-parent undoes the proxy shape", func(t *testing.T) {
		store := mocks.NewPersonStore()
		child := seedPerson(store, "child")
		first := seedPerson(store, "first")
		second := seedPerson(store, "second")
		child.ParentID = "first"
		first.SpouseID = "second"
		second.SpouseID = "first"
		second.Children = []string{"child"}
		store.Add(child, first, second)
		svc := NewRelationshipService(store, nil)

		err := svc.RemoveRelationship(ctx, "user-1", entities.KindSecondParent, "child", "second")
		require.NoError(t, err)

		assert.Equal(t, "first", store.Persons["child"].ParentID)
		assert.Empty(t, store.Persons["second"].Children)
		assert.Empty(t, store.Persons["first"].SpouseID)
		assert.Empty(t, store.Persons["second"].SpouseID)
	})

	t.Run("removal with no matching links is a no-op", func(t *testing.T) {
		store := mocks.NewPersonStore()
		seedPerson(store, "anna")
		seedPerson(store, "bart")
		svc := NewRelationshipService(store, nil)

		err := svc.RemoveRelationship(ctx, "user-1", entities.KindSpouse, "anna", "bart")
		require.NoError(t, err)
		assert.Zero(t, store.BatchUpdateCallCount)
	})

	t.Run("unknown kind", func(t *testing.T) {
		store := mocks.NewPersonStore()
		seedPerson(store, "anna")
		seedPerson(store, "bart")
		svc := NewRelationshipService(store, nil)

		err := svc.RemoveRelationship(ctx, "user-1", entities.Kind("sibling"), "anna", "bart")
		assert.ErrorIs(t, err, entities.ErrInvalidRelationship)
	})
}

func TestMutationHistory(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewPersonStore()
	seedPerson(store, "anna")
	seedPerson(store, "bart")
	svc := NewRelationshipService(store, nil)

	require.NoError(t, svc.SetSpouse(ctx, "user-1", "anna", "bart"))

	// One version row per touched person, one audit entry for the mutation.
	assert.Len(t, store.Versions, 2)
	for _, v := range store.Versions {
		assert.Equal(t, 1, v.Version)
		assert.Equal(t, entities.ChangeRelationshipSet, v.ChangeType)
	}
	require.Len(t, store.Audit, 1)
	assert.Equal(t, "relationship.set_spouse", store.Audit[0].Action)
}
