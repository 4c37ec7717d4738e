package services

import (
	"context"
	"fmt"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/infrastructure/parsers"
)

// ConflictStrategy defines how to handle persons whose name already exists
// in the tree during import.
type ConflictStrategy string

const (
	// ConflictSkip skips rows whose normalized name already exists.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictCreate imports the row anyway as a distinct person.
	ConflictCreate ConflictStrategy = "create"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool             // Validate without saving
	OnConflict ConflictStrategy // How to handle name conflicts
}

// ImportError represents an error for a specific row during import.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int
	Linked   int
	Errors   []ImportError
}

// ImportService imports persons from external files. Rows are created
// first, then the parent and spouse columns are resolved by name and
// applied as ordinary relationship mutations, so imported data goes
// through the same invariants as interactive edits.
type ImportService struct {
	persons *PersonService
	mutator *RelationshipService
}

// NewImportService creates a new import service.
func NewImportService(persons *PersonService, mutator *RelationshipService) *ImportService {
	return &ImportService{
		persons: persons,
		mutator: mutator,
	}
}

// Import validates and imports raw persons into a tree on behalf of userID.
func (s *ImportService) Import(ctx context.Context, treeID, userID string, rawPersons []parsers.RawPerson, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	valid, validationErrors := validateRawPersons(rawPersons)
	result.Errors = validationErrors

	if len(valid) == 0 {
		return result, nil
	}

	existing, err := s.persons.List(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("listing existing persons: %w", err)
	}
	byName := make(map[string][]*entities.Person)
	for _, p := range existing {
		byName[p.NormalizedName] = append(byName[p.NormalizedName], p)
	}

	if opts.DryRun {
		for i := range valid {
			if s.conflicts(&valid[i], byName, opts.OnConflict) {
				result.Skipped++
			} else {
				result.Imported++
			}
		}
		return result, nil
	}

	created := make([]*entities.Person, len(valid))
	for i := range valid {
		raw := &valid[i]
		if s.conflicts(raw, byName, opts.OnConflict) {
			result.Skipped++
			continue
		}

		person, err := s.persons.Create(ctx, &entities.Person{
			TreeID:    treeID,
			Name:      raw.Name,
			Gender:    entities.Gender(raw.Gender),
			BirthDate: raw.BirthDate,
			DeathDate: raw.DeathDate,
			Bio:       raw.Bio,
			PhotoURL:  raw.PhotoURL,
			CreatedBy: userID,
		})
		if err != nil {
			return nil, fmt.Errorf("creating person %q: %w", raw.Name, err)
		}

		created[i] = person
		byName[person.NormalizedName] = append(byName[person.NormalizedName], person)
		result.Imported++
	}

	// Link pass: every row is created before any name is resolved, so a
	// child may reference a parent defined further down the file.
	for i := range valid {
		if created[i] == nil {
			continue
		}
		s.link(ctx, userID, &valid[i], created[i], byName, result)
	}

	return result, nil
}

// conflicts reports whether a row should be skipped for a name conflict.
func (s *ImportService) conflicts(raw *parsers.RawPerson, byName map[string][]*entities.Person, onConflict ConflictStrategy) bool {
	if onConflict == ConflictCreate {
		return false
	}
	return len(byName[entities.NormalizeName(raw.Name)]) > 0
}

// link applies the row's parent and spouse columns through the relationship
// mutator. Resolution failures become row errors, not import failures.
func (s *ImportService) link(ctx context.Context, userID string, raw *parsers.RawPerson, person *entities.Person, byName map[string][]*entities.Person, result *ImportResult) {
	if raw.Parent != "" {
		parent, importErr := resolveName(raw, "parent", raw.Parent, byName)
		if importErr != nil {
			result.Errors = append(result.Errors, *importErr)
		} else if err := s.mutator.SetParentChild(ctx, userID, parent.ID, person.ID); err != nil {
			result.Errors = append(result.Errors, ImportError{
				Line: raw.LineNum, Field: "parent", Value: raw.Parent, Message: err.Error(),
			})
		} else {
			result.Linked++
		}
	}

	if raw.Spouse != "" {
		spouse, importErr := resolveName(raw, "spouse", raw.Spouse, byName)
		if importErr != nil {
			result.Errors = append(result.Errors, *importErr)
		} else if err := s.mutator.SetSpouse(ctx, userID, person.ID, spouse.ID); err != nil {
			result.Errors = append(result.Errors, ImportError{
				Line: raw.LineNum, Field: "spouse", Value: raw.Spouse, Message: err.Error(),
			})
		} else {
			result.Linked++
		}
	}
}

// validateRawPersons validates raw rows and returns valid ones with any
// errors.
func validateRawPersons(rawPersons []parsers.RawPerson) ([]parsers.RawPerson, []ImportError) {
	valid := make([]parsers.RawPerson, 0, len(rawPersons))
	var errors []ImportError

	for i := range rawPersons {
		raw := &rawPersons[i]
		lineNum := raw.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}
		raw.LineNum = lineNum

		if err := validateRawPerson(raw, lineNum); err != nil {
			errors = append(errors, *err)
			continue
		}

		valid = append(valid, *raw)
	}

	return valid, errors
}

// validateRawPerson validates a single row and returns an error if invalid.
func validateRawPerson(raw *parsers.RawPerson, lineNum int) *ImportError {
	if raw.Name == "" {
		return &ImportError{Line: lineNum, Field: "name", Message: "missing required field: name"}
	}

	if raw.Gender != "" && !entities.Gender(raw.Gender).IsValid() {
		return &ImportError{
			Line:    lineNum,
			Field:   "gender",
			Value:   raw.Gender,
			Message: fmt.Sprintf("invalid gender %q (valid: male, female, other)", raw.Gender),
		}
	}

	return nil
}

// resolveName finds the single person a name column refers to.
func resolveName(raw *parsers.RawPerson, field, name string, byName map[string][]*entities.Person) (*entities.Person, *ImportError) {
	matches := byName[entities.NormalizeName(name)]
	switch len(matches) {
	case 0:
		return nil, &ImportError{
			Line: raw.LineNum, Field: field, Value: name,
			Message: fmt.Sprintf("no person named %q", name),
		}
	case 1:
		return matches[0], nil
	default:
		return nil, &ImportError{
			Line: raw.LineNum, Field: field, Value: name,
			Message: fmt.Sprintf("%d persons named %q, cannot resolve", len(matches), name),
		}
	}
}
