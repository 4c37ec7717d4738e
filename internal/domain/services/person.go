package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/ports"
)

// PersonService manages the person record lifecycle.
type PersonService struct {
	store ports.PersonStore
}

// NewPersonService creates a new PersonService.
func NewPersonService(store ports.PersonStore) *PersonService {
	return &PersonService{store: store}
}

// Create allocates an id and writes sanitized attributes. Relationship
// fields are forced empty regardless of caller input; relationships are
// established by follow-up mutations. The person is flagged as a tree root
// when it is the first one its author adds.
func (s *PersonService) Create(ctx context.Context, person *entities.Person) (*entities.Person, error) {
	if person.Name == "" {
		return nil, errors.New("person name is required")
	}
	gender := person.Gender
	if gender == "" {
		gender = entities.GenderOther
	}
	if !gender.IsValid() {
		return nil, fmt.Errorf("invalid gender %q (valid: male, female, other)", person.Gender)
	}

	authored, err := s.store.CountPersonsByCreator(ctx, person.TreeID, person.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("counting authored persons: %w", err)
	}

	now := time.Now()
	created := &entities.Person{
		ID:             uuid.New().String(),
		TreeID:         person.TreeID,
		Name:           person.Name,
		NormalizedName: entities.NormalizeName(person.Name),
		Gender:         gender,
		BirthDate:      person.BirthDate,
		DeathDate:      person.DeathDate,
		Bio:            person.Bio,
		PhotoURL:       person.PhotoURL,
		Children:       []string{},
		CreatedBy:      person.CreatedBy,
		IsRoot:         authored == 0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreatePerson(ctx, created); err != nil {
		return nil, fmt.Errorf("creating person: %w", err)
	}

	touched := map[string]map[string]any{
		created.ID: {"name": created.Name, "is_root": created.IsRoot},
	}
	if err := recordChange(ctx, s.store, "person.create", entities.ChangeCreation, "", touched); err != nil {
		return nil, err
	}

	return created, nil
}

// Get finds a person by id.
func (s *PersonService) Get(ctx context.Context, id string) (*entities.Person, error) {
	return s.store.FindPersonByID(ctx, id)
}

// List enumerates every person of a tree.
func (s *PersonService) List(ctx context.Context, treeID string) ([]*entities.Person, error) {
	return s.store.ListPersons(ctx, treeID)
}

// Search searches persons by name pattern.
func (s *PersonService) Search(ctx context.Context, treeID, query string, limit int) ([]*entities.Person, error) {
	return s.store.SearchPersons(ctx, treeID, query, limit)
}

// Count returns the number of persons in a tree.
func (s *PersonService) Count(ctx context.Context, treeID string) (int, error) {
	return s.store.CountPersons(ctx, treeID)
}

// Delete removes the record only. References held by other persons are not
// cascaded; their ids are returned so the caller can surface them. Readers
// tolerate the resulting dangling references.
func (s *PersonService) Delete(ctx context.Context, treeID, id string) ([]string, error) {
	if _, err := s.store.FindPersonByID(ctx, id); err != nil {
		return nil, err
	}

	dangling, err := s.store.ListReferencing(ctx, treeID, id)
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}

	if err := s.store.DeletePerson(ctx, id); err != nil {
		return nil, fmt.Errorf("deleting person: %w", err)
	}

	details := map[string]any{"dangling": dangling}
	if err := s.store.LogAction(ctx, "person.delete", id, details); err != nil {
		return nil, fmt.Errorf("logging action: %w", err)
	}

	return dangling, nil
}

// History lists the version records of a person, newest first.
func (s *PersonService) History(ctx context.Context, id string) ([]entities.PersonVersion, error) {
	return s.store.FindVersionsByPerson(ctx, id)
}

// AuditLog lists audit entries mentioning a person.
func (s *PersonService) AuditLog(ctx context.Context, id string) ([]entities.AuditEntry, error) {
	return s.store.FindAuditLog(ctx, id)
}
