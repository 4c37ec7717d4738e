package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/ports"
)

// RelationshipService establishes and removes typed relationship edges
// between two distinct persons. Every mutation is expressed as exactly one
// BatchUpdate call so the graph can never be observed half-updated for a
// single logical change.
type RelationshipService struct {
	store ports.PersonStore
	auth  ports.Authorizer
}

// NewRelationshipService creates a new RelationshipService. A nil
// authorizer defaults to allow-all.
func NewRelationshipService(store ports.PersonStore, auth ports.Authorizer) *RelationshipService {
	if auth == nil {
		auth = ports.AllowAll{}
	}
	return &RelationshipService{store: store, auth: auth}
}

// SetParentChild records parentID as the primary parent of childID and
// mirrors the edge into the parent's children cache.
func (s *RelationshipService) SetParentChild(ctx context.Context, actorID, parentID, childID string) error {
	if parentID == childID {
		return fmt.Errorf("%w: a person cannot be their own parent", entities.ErrInvalidRelationship)
	}
	if err := s.authorize(ctx, actorID, parentID, childID); err != nil {
		return err
	}

	parent, err := s.store.FindPersonByID(ctx, parentID)
	if err != nil {
		return err
	}
	child, err := s.store.FindPersonByID(ctx, childID)
	if err != nil {
		return err
	}

	writes := []ports.FieldWrite{
		{PersonID: child.ID, Field: ports.FieldParentID, Value: parent.ID},
		{PersonID: parent.ID, Field: ports.FieldChildren, Value: parent.ChildrenWith(child.ID)},
	}
	return s.apply(ctx, "relationship.set_parent_child", entities.ChangeRelationshipSet, writes)
}

// SetSpouse links two persons as spouses symmetrically. An existing spouse
// link on either side is silently overwritten; the store never prevented
// serial monogamy and neither does this.
func (s *RelationshipService) SetSpouse(ctx context.Context, actorID, aID, bID string) error {
	if aID == bID {
		return fmt.Errorf("%w: a person cannot be their own spouse", entities.ErrInvalidRelationship)
	}
	if err := s.authorize(ctx, actorID, aID, bID); err != nil {
		return err
	}

	a, err := s.store.FindPersonByID(ctx, aID)
	if err != nil {
		return err
	}
	b, err := s.store.FindPersonByID(ctx, bID)
	if err != nil {
		return err
	}

	writes := []ports.FieldWrite{
		{PersonID: a.ID, Field: ports.FieldSpouseID, Value: b.ID},
		{PersonID: b.ID, Field: ports.FieldSpouseID, Value: a.ID},
	}
	return s.apply(ctx, "relationship.set_spouse", entities.ChangeRelationshipSet, writes)
}

// AddSecondParent links secondParentID as a second parent of childID. The
// child's single ParentID slot stays pointed at the first parent; the
// second parent lists the child directly and is spouse-linked to the first
// parent. When the child has no primary parent yet, firstParentID is
// adopted as a side effect.
func (s *RelationshipService) AddSecondParent(ctx context.Context, actorID, childID, firstParentID, secondParentID string) error {
	if childID == firstParentID || childID == secondParentID || firstParentID == secondParentID {
		return fmt.Errorf("%w: child and parents must be distinct persons", entities.ErrInvalidRelationship)
	}
	if err := s.authorize(ctx, actorID, childID, firstParentID, secondParentID); err != nil {
		return err
	}

	child, err := s.store.FindPersonByID(ctx, childID)
	if err != nil {
		return err
	}
	first, err := s.store.FindPersonByID(ctx, firstParentID)
	if err != nil {
		return err
	}
	second, err := s.store.FindPersonByID(ctx, secondParentID)
	if err != nil {
		return err
	}

	writes := []ports.FieldWrite{
		{PersonID: second.ID, Field: ports.FieldChildren, Value: second.ChildrenWith(child.ID)},
		{PersonID: first.ID, Field: ports.FieldSpouseID, Value: second.ID},
		{PersonID: second.ID, Field: ports.FieldSpouseID, Value: first.ID},
	}
	if child.ParentID == "" {
		writes = append(writes, ports.FieldWrite{PersonID: child.ID, Field: ports.FieldParentID, Value: first.ID})
	}
	return s.apply(ctx, "relationship.add_second_parent", entities.ChangeRelationshipSet, writes)
}

// RemoveRelationship undoes one typed edge. For parent-child the operands
// are (parent, child); for spouse, the two spouses; for second-parent,
// (child, second parent). Links are cleared only when they still point at
// the expected counterpart, and a removal whose shape no longer matches is
// a no-op, not an error.
func (s *RelationshipService) RemoveRelationship(ctx context.Context, actorID string, kind entities.Kind, id1, id2 string) error {
	if id1 == id2 {
		return fmt.Errorf("%w: operands must be distinct persons", entities.ErrInvalidRelationship)
	}
	if err := s.authorize(ctx, actorID, id1, id2); err != nil {
		return err
	}

	p1, err := s.store.FindPersonByID(ctx, id1)
	if err != nil {
		return err
	}
	p2, err := s.store.FindPersonByID(ctx, id2)
	if err != nil {
		return err
	}

	var writes []ports.FieldWrite
	switch kind {
	case entities.KindParentChild:
		writes = s.removeParentChild(p1, p2)
	case entities.KindSpouse:
		writes = s.removeSpouse(p1, p2)
	case entities.KindSecondParent:
		writes, err = s.removeSecondParent(ctx, p1, p2)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", entities.ErrInvalidRelationship, kind)
	}

	if len(writes) == 0 {
		return nil
	}
	return s.apply(ctx, "relationship.remove", entities.ChangeRelationshipRemoved, writes)
}

// removeParentChild strips the child from the parent's children cache and
// clears the child's ParentID only if it still points at this parent.
func (s *RelationshipService) removeParentChild(parent, child *entities.Person) []ports.FieldWrite {
	var writes []ports.FieldWrite
	if parent.HasChild(child.ID) {
		writes = append(writes, ports.FieldWrite{PersonID: parent.ID, Field: ports.FieldChildren, Value: parent.ChildrenWithout(child.ID)})
	}
	if child.ParentID == parent.ID {
		writes = append(writes, ports.FieldWrite{PersonID: child.ID, Field: ports.FieldParentID, Value: ""})
	}
	return writes
}

// removeSpouse clears each side's SpouseID only when it currently points at
// the other side.
func (s *RelationshipService) removeSpouse(a, b *entities.Person) []ports.FieldWrite {
	var writes []ports.FieldWrite
	if a.SpouseID == b.ID {
		writes = append(writes, ports.FieldWrite{PersonID: a.ID, Field: ports.FieldSpouseID, Value: ""})
	}
	if b.SpouseID == a.ID {
		writes = append(writes, ports.FieldWrite{PersonID: b.ID, Field: ports.FieldSpouseID, Value: ""})
	}
	return writes
}

// removeSecondParent removes the child from the second parent's children
// cache and, when the child's primary parent is still spouse-linked to the
// second parent, undoes that proxy link on both sides.
func (s *RelationshipService) removeSecondParent(ctx context.Context, child, second *entities.Person) ([]ports.FieldWrite, error) {
	var writes []ports.FieldWrite
	if second.HasChild(child.ID) {
		writes = append(writes, ports.FieldWrite{PersonID: second.ID, Field: ports.FieldChildren, Value: second.ChildrenWithout(child.ID)})
	}

	if child.ParentID != "" && child.ParentID != child.ID {
		first, err := s.store.FindPersonByID(ctx, child.ParentID)
		switch {
		case errors.Is(err, entities.ErrNotFound):
			// Dangling primary parent reference; nothing to unlink.
		case err != nil:
			return nil, err
		case first.SpouseID == second.ID:
			writes = append(writes, ports.FieldWrite{PersonID: first.ID, Field: ports.FieldSpouseID, Value: ""})
			if second.SpouseID == first.ID {
				writes = append(writes, ports.FieldWrite{PersonID: second.ID, Field: ports.FieldSpouseID, Value: ""})
			}
		}
	}
	return writes, nil
}

// authorize checks the actor against every person the mutation touches.
func (s *RelationshipService) authorize(ctx context.Context, actorID string, personIDs ...string) error {
	for _, id := range personIDs {
		if err := s.auth.CanMutate(ctx, actorID, id); err != nil {
			return fmt.Errorf("mutation not permitted for %s: %w", id, err)
		}
	}
	return nil
}

// apply commits the batch and records history for it.
func (s *RelationshipService) apply(ctx context.Context, action string, changeType entities.ChangeType, writes []ports.FieldWrite) error {
	if err := s.store.BatchUpdate(ctx, writes); err != nil {
		return fmt.Errorf("applying %s: %w", action, err)
	}
	return recordChange(ctx, s.store, action, changeType, "", touchedFields(writes))
}
