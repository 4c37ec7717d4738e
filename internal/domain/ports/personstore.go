// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// Field names a mutable relationship field on a person record. BatchUpdate
// accepts only these fields; descriptive attributes never ride in a batch.
type Field string

const (
	FieldParentID Field = "parent_id"
	FieldSpouseID Field = "spouse_id"
	FieldChildren Field = "children"
	FieldIsRoot   Field = "is_root"
)

// FieldWrite is one field assignment inside an atomic batch. Value must be
// a string for FieldParentID and FieldSpouseID (empty string clears the
// link), a []string for FieldChildren, and a bool for FieldIsRoot.
type FieldWrite struct {
	PersonID string
	Field    Field
	Value    any
}

// PersonStore is the keyed record store backing the relationship engine.
// Every multi-field relationship mutation must go through a single
// BatchUpdate call so an interrupted process can never leave the graph
// half-updated.
type PersonStore interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Person record operations

	// CreatePerson inserts a new person record. Relationship fields on the
	// argument are ignored and persisted empty.
	CreatePerson(ctx context.Context, person *entities.Person) error

	// FindPersonByID finds a person by id. Returns an error wrapping
	// entities.ErrNotFound when the id does not resolve.
	FindPersonByID(ctx context.Context, id string) (*entities.Person, error)

	// ListPersons enumerates every person of a tree. This is the full-scan
	// primitive used by reverse-reference resolution and whole-store repair.
	ListPersons(ctx context.Context, treeID string) ([]*entities.Person, error)

	// ListPersonsByCreator lists persons authored by a user within a tree.
	ListPersonsByCreator(ctx context.Context, treeID, userID string) ([]*entities.Person, error)

	// SearchPersons searches persons by name pattern.
	SearchPersons(ctx context.Context, treeID, query string, limit int) ([]*entities.Person, error)

	// CountPersons returns the number of persons in a tree.
	CountPersons(ctx context.Context, treeID string) (int, error)

	// CountPersonsByCreator returns how many persons a user has authored in
	// a tree.
	CountPersonsByCreator(ctx context.Context, treeID, userID string) (int, error)

	// BatchUpdate applies a set of relationship field writes as one
	// all-or-nothing unit. A write addressing a missing person fails the
	// whole batch with entities.ErrNotFound.
	BatchUpdate(ctx context.Context, writes []FieldWrite) error

	// DeletePerson removes the record only; references held by other
	// records are not touched.
	DeletePerson(ctx context.Context, id string) error

	// ListReferencing returns ids of persons whose parent_id, spouse_id or
	// children reference the given id. Used to surface dangling references.
	ListReferencing(ctx context.Context, treeID, id string) ([]string, error)

	// Change history

	// SaveVersion appends a new person version.
	SaveVersion(ctx context.Context, version *entities.PersonVersion) error

	// FindVersionsByPerson lists versions of a person, newest first.
	FindVersionsByPerson(ctx context.Context, personID string) ([]entities.PersonVersion, error)

	// CountVersions counts how many versions a person has.
	CountVersions(ctx context.Context, personID string) (int, error)

	// Audit log

	// LogAction logs an action to the audit log.
	LogAction(ctx context.Context, action string, personID string, details map[string]any) error

	// FindAuditLog finds audit log entries for a specific person.
	FindAuditLog(ctx context.Context, personID string) ([]entities.AuditEntry, error)
}
