package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/ports"
)

// RepairService detects and corrects invariant violations left behind by
// partial or historical writes. Every repair is idempotent: running it
// again finds nothing to fix.
type RepairService struct {
	store ports.PersonStore
}

// NewRepairService creates a new RepairService.
func NewRepairService(store ports.PersonStore) *RepairService {
	return &RepairService{store: store}
}

// RepairPerson clears a self-referential parent or spouse link and strips
// the person from its own children list. All corrections go out as one
// batch; when nothing is wrong no write occurs. Returns whether a
// correction was applied.
func (s *RepairService) RepairPerson(ctx context.Context, id string) (bool, error) {
	person, err := s.store.FindPersonByID(ctx, id)
	if err != nil {
		return false, err
	}

	var writes []ports.FieldWrite
	if person.ParentID == person.ID {
		writes = append(writes, ports.FieldWrite{PersonID: person.ID, Field: ports.FieldParentID, Value: ""})
	}
	if person.SpouseID == person.ID {
		writes = append(writes, ports.FieldWrite{PersonID: person.ID, Field: ports.FieldSpouseID, Value: ""})
	}
	if person.HasChild(person.ID) {
		writes = append(writes, ports.FieldWrite{PersonID: person.ID, Field: ports.FieldChildren, Value: person.ChildrenWithout(person.ID)})
	}

	if len(writes) == 0 {
		return false, nil
	}

	if err := s.store.BatchUpdate(ctx, writes); err != nil {
		return false, fmt.Errorf("applying repair: %w", err)
	}
	if err := recordChange(ctx, s.store, "repair.person", entities.ChangeRepair, "self-reference", touchedFields(writes)); err != nil {
		return true, err
	}
	return true, nil
}

// RepairAllSpouseLinks scans every record of a tree and restores spouse
// symmetry: a person with no SpouseID whose counterpart already points back
// gets the reciprocal link. The scan is O(n²) in the worst case, which is
// acceptable for family-tree populations; it is a maintenance operation,
// not part of the interactive path. Returns the number of corrections.
func (s *RepairService) RepairAllSpouseLinks(ctx context.Context, treeID string) (int, error) {
	persons, err := s.store.ListPersons(ctx, treeID)
	if err != nil {
		return 0, fmt.Errorf("listing persons: %w", err)
	}

	// Deterministic pick when several candidates point at the same person.
	sort.Slice(persons, func(i, j int) bool { return persons[i].ID < persons[j].ID })

	var writes []ports.FieldWrite
	for _, p := range persons {
		if p.SpouseID != "" {
			continue
		}
		for _, other := range persons {
			if other.ID == p.ID || other.SpouseID != p.ID {
				continue
			}
			writes = append(writes, ports.FieldWrite{PersonID: p.ID, Field: ports.FieldSpouseID, Value: other.ID})
			break
		}
	}

	if len(writes) == 0 {
		return 0, nil
	}

	if err := s.store.BatchUpdate(ctx, writes); err != nil {
		return 0, fmt.Errorf("applying spouse repair: %w", err)
	}
	if err := recordChange(ctx, s.store, "repair.spouse_links", entities.ChangeRepair, "one-sided spouse link", touchedFields(writes)); err != nil {
		return len(writes), err
	}
	return len(writes), nil
}
