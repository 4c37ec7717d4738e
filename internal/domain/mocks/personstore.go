// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/ports"
)

// PersonStore is an in-memory mock implementation of ports.PersonStore.
// Reads hand out copies so tests catch code that mutates records without
// writing them back.
type PersonStore struct {
	Persons  map[string]*entities.Person
	Versions []entities.PersonVersion
	Audit    []entities.AuditEntry

	Err            error // Returned by every operation when set
	BatchUpdateErr error

	BatchUpdateCallCount  int
	BatchUpdateLastWrites []ports.FieldWrite
}

// NewPersonStore creates an empty mock store.
func NewPersonStore() *PersonStore {
	return &PersonStore{Persons: make(map[string]*entities.Person)}
}

// Add seeds the store with persons, bypassing CreatePerson's sanitizing.
func (m *PersonStore) Add(persons ...*entities.Person) {
	for _, p := range persons {
		m.Persons[p.ID] = clone(p)
	}
}

// EnsureSchema is a no-op.
func (m *PersonStore) EnsureSchema(ctx context.Context) error {
	return m.Err
}

// Close is a no-op.
func (m *PersonStore) Close() error {
	return nil
}

// CreatePerson inserts a person with relationship fields forced empty.
func (m *PersonStore) CreatePerson(ctx context.Context, person *entities.Person) error {
	if m.Err != nil {
		return m.Err
	}
	stored := clone(person)
	stored.ParentID = ""
	stored.SpouseID = ""
	stored.Children = []string{}
	m.Persons[stored.ID] = stored
	return nil
}

// FindPersonByID retrieves a person by id.
func (m *PersonStore) FindPersonByID(ctx context.Context, id string) (*entities.Person, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Persons[id]
	if !ok {
		return nil, fmt.Errorf("finding person %s: %w", id, entities.ErrNotFound)
	}
	return clone(p), nil
}

// ListPersons returns every person of a tree ordered by id.
func (m *PersonStore) ListPersons(ctx context.Context, treeID string) ([]*entities.Person, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var persons []*entities.Person
	for _, p := range m.Persons {
		if p.TreeID == treeID {
			persons = append(persons, clone(p))
		}
	}
	sort.Slice(persons, func(i, j int) bool { return persons[i].ID < persons[j].ID })
	return persons, nil
}

// ListPersonsByCreator returns a user's authored persons within a tree.
func (m *PersonStore) ListPersonsByCreator(ctx context.Context, treeID, userID string) ([]*entities.Person, error) {
	all, err := m.ListPersons(ctx, treeID)
	if err != nil {
		return nil, err
	}
	var persons []*entities.Person
	for _, p := range all {
		if p.CreatedBy == userID {
			persons = append(persons, p)
		}
	}
	return persons, nil
}

// SearchPersons matches names case-insensitively by substring.
func (m *PersonStore) SearchPersons(ctx context.Context, treeID, query string, limit int) ([]*entities.Person, error) {
	all, err := m.ListPersons(ctx, treeID)
	if err != nil {
		return nil, err
	}
	var persons []*entities.Person
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			persons = append(persons, p)
		}
		if limit > 0 && len(persons) == limit {
			break
		}
	}
	return persons, nil
}

// CountPersons returns the number of persons in a tree.
func (m *PersonStore) CountPersons(ctx context.Context, treeID string) (int, error) {
	all, err := m.ListPersons(ctx, treeID)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// CountPersonsByCreator returns how many persons a user authored in a tree.
func (m *PersonStore) CountPersonsByCreator(ctx context.Context, treeID, userID string) (int, error) {
	persons, err := m.ListPersonsByCreator(ctx, treeID, userID)
	if err != nil {
		return 0, err
	}
	return len(persons), nil
}

// BatchUpdate applies all writes or none. All targets are checked for
// existence before any field changes, matching the transactional store.
func (m *PersonStore) BatchUpdate(ctx context.Context, writes []ports.FieldWrite) error {
	m.BatchUpdateCallCount++
	m.BatchUpdateLastWrites = writes
	if m.Err != nil {
		return m.Err
	}
	if m.BatchUpdateErr != nil {
		return m.BatchUpdateErr
	}

	for _, w := range writes {
		if _, ok := m.Persons[w.PersonID]; !ok {
			return fmt.Errorf("updating person %s: %w", w.PersonID, entities.ErrNotFound)
		}
	}

	for _, w := range writes {
		p := m.Persons[w.PersonID]
		switch w.Field {
		case ports.FieldParentID:
			p.ParentID = w.Value.(string)
		case ports.FieldSpouseID:
			p.SpouseID = w.Value.(string)
		case ports.FieldChildren:
			children := w.Value.([]string)
			p.Children = append([]string{}, children...)
		case ports.FieldIsRoot:
			p.IsRoot = w.Value.(bool)
		default:
			return fmt.Errorf("unknown field %q", w.Field)
		}
	}
	return nil
}

// DeletePerson removes the record only.
func (m *PersonStore) DeletePerson(ctx context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Persons, id)
	return nil
}

// ListReferencing returns ids of persons referencing the given id.
func (m *PersonStore) ListReferencing(ctx context.Context, treeID, id string) ([]string, error) {
	all, err := m.ListPersons(ctx, treeID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, p := range all {
		if p.ID == id {
			continue
		}
		if p.ParentID == id || p.SpouseID == id || p.HasChild(id) {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

// SaveVersion appends a version record.
func (m *PersonStore) SaveVersion(ctx context.Context, version *entities.PersonVersion) error {
	if m.Err != nil {
		return m.Err
	}
	m.Versions = append(m.Versions, *version)
	return nil
}

// FindVersionsByPerson lists versions of a person, newest first.
func (m *PersonStore) FindVersionsByPerson(ctx context.Context, personID string) ([]entities.PersonVersion, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var versions []entities.PersonVersion
	for _, v := range m.Versions {
		if v.PersonID == personID {
			versions = append(versions, v)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Version > versions[j].Version })
	return versions, nil
}

// CountVersions counts versions of a person.
func (m *PersonStore) CountVersions(ctx context.Context, personID string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	count := 0
	for _, v := range m.Versions {
		if v.PersonID == personID {
			count++
		}
	}
	return count, nil
}

// LogAction appends an audit entry.
func (m *PersonStore) LogAction(ctx context.Context, action string, personID string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:       int64(len(m.Audit) + 1),
		Action:   action,
		PersonID: personID,
		Details:  details,
	})
	return nil
}

// FindAuditLog returns entries naming the person, directly or in the
// touched-persons detail.
func (m *PersonStore) FindAuditLog(ctx context.Context, personID string) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var entries []entities.AuditEntry
	for _, e := range m.Audit {
		if e.PersonID == personID || mentions(e.Details, personID) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func mentions(details map[string]any, personID string) bool {
	persons, ok := details["persons"].([]string)
	if !ok {
		return false
	}
	for _, id := range persons {
		if id == personID {
			return true
		}
	}
	return false
}

// clone deep-copies a person record.
func clone(p *entities.Person) *entities.Person {
	c := *p
	c.Children = append([]string{}, p.Children...)
	return &c
}
