// Package sqlite provides a SQLite implementation of the PersonStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/ports"
	"github.com/ersonp/kin-core/internal/infrastructure/config"
)

// Repository implements ports.PersonStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Persons (one row per family tree node)
	CREATE TABLE IF NOT EXISTS persons (
		id TEXT PRIMARY KEY,
		tree_id TEXT NOT NULL,
		name TEXT NOT NULL,
		normalized_name TEXT NOT NULL,
		gender TEXT NOT NULL DEFAULT 'other',
		birth_date TEXT NOT NULL DEFAULT '',
		death_date TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		photo_url TEXT NOT NULL DEFAULT '',
		parent_id TEXT NOT NULL DEFAULT '',
		spouse_id TEXT NOT NULL DEFAULT '',
		children TEXT NOT NULL DEFAULT '[]',
		created_by TEXT NOT NULL,
		is_root INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_persons_tree ON persons(tree_id);
	CREATE INDEX IF NOT EXISTS idx_persons_creator ON persons(tree_id, created_by);
	CREATE INDEX IF NOT EXISTS idx_persons_normalized ON persons(tree_id, normalized_name);
	CREATE INDEX IF NOT EXISTS idx_persons_parent ON persons(parent_id);

	-- Person version history (tracks changes over time)
	CREATE TABLE IF NOT EXISTS person_versions (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		change_type TEXT NOT NULL,
		fields TEXT NOT NULL,
		reason TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(person_id, version)
	);
	CREATE INDEX IF NOT EXISTS idx_person_versions_person ON person_versions(person_id);

	-- Audit log (tracks all actions)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		person_id TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_person ON audit_log(person_id);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

const personColumns = `id, tree_id, name, normalized_name, gender, birth_date, death_date,
	bio, photo_url, parent_id, spouse_id, children, created_by, is_root, created_at, updated_at`

// CreatePerson inserts a new person record. Relationship fields on the
// argument are ignored and persisted empty.
func (r *Repository) CreatePerson(ctx context.Context, person *entities.Person) error {
	query := `
		INSERT INTO persons (` + personColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '', '', '[]', ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		person.ID,
		person.TreeID,
		person.Name,
		person.NormalizedName,
		string(person.Gender),
		person.BirthDate,
		person.DeathDate,
		person.Bio,
		person.PhotoURL,
		person.CreatedBy,
		person.IsRoot,
		person.CreatedAt,
		person.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving person: %w", err)
	}
	return nil
}

// FindPersonByID finds a person by its ID.
func (r *Repository) FindPersonByID(ctx context.Context, id string) (*entities.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	person, err := scanPersonRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("finding person %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return person, nil
}

// ListPersons lists all persons of a tree ordered by id.
func (r *Repository) ListPersons(ctx context.Context, treeID string) ([]*entities.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE tree_id = ? ORDER BY id ASC`
	return r.queryPersons(ctx, query, treeID)
}

// ListPersonsByCreator lists persons authored by a user within a tree.
func (r *Repository) ListPersonsByCreator(ctx context.Context, treeID, userID string) ([]*entities.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE tree_id = ? AND created_by = ? ORDER BY id ASC`
	return r.queryPersons(ctx, query, treeID, userID)
}

// SearchPersons searches persons by name pattern.
func (r *Repository) SearchPersons(ctx context.Context, treeID, query string, limit int) ([]*entities.Person, error) {
	normalizedQuery := "%" + entities.NormalizeName(query) + "%"
	sqlQuery := `
		SELECT ` + personColumns + `
		FROM persons
		WHERE tree_id = ? AND normalized_name LIKE ?
		ORDER BY name ASC
		LIMIT ?
	`
	return r.queryPersons(ctx, sqlQuery, treeID, normalizedQuery, limit)
}

// CountPersons returns the total number of persons in a tree.
func (r *Repository) CountPersons(ctx context.Context, treeID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons WHERE tree_id = ?`, treeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting persons: %w", err)
	}
	return count, nil
}

// CountPersonsByCreator returns how many persons a user has authored in a tree.
func (r *Repository) CountPersonsByCreator(ctx context.Context, treeID, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM persons WHERE tree_id = ? AND created_by = ?`, treeID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting persons by creator: %w", err)
	}
	return count, nil
}

// BatchUpdate applies a set of relationship field writes in one transaction.
// A write addressing a missing person rolls back the whole batch.
func (r *Repository) BatchUpdate(ctx context.Context, writes []ports.FieldWrite) error {
	if len(writes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, w := range writes {
		value, err := encodeFieldValue(w)
		if err != nil {
			return err
		}

		query := fmt.Sprintf(
			`UPDATE persons SET %s = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, string(w.Field))
		result, err := tx.ExecContext(ctx, query, value, w.PersonID)
		if err != nil {
			return fmt.Errorf("updating %s of person %s: %w", w.Field, w.PersonID, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking update of person %s: %w", w.PersonID, err)
		}
		if rows == 0 {
			return fmt.Errorf("updating person %s: %w", w.PersonID, entities.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// encodeFieldValue validates a write against the field whitelist and encodes
// its value for storage.
func encodeFieldValue(w ports.FieldWrite) (any, error) {
	switch w.Field {
	case ports.FieldParentID, ports.FieldSpouseID:
		s, ok := w.Value.(string)
		if !ok {
			return nil, fmt.Errorf("field %s requires a string value, got %T", w.Field, w.Value)
		}
		return s, nil
	case ports.FieldChildren:
		ids, ok := w.Value.([]string)
		if !ok {
			return nil, fmt.Errorf("field %s requires a []string value, got %T", w.Field, w.Value)
		}
		if ids == nil {
			ids = []string{}
		}
		data, err := json.Marshal(ids)
		if err != nil {
			return nil, fmt.Errorf("marshaling children: %w", err)
		}
		return string(data), nil
	case ports.FieldIsRoot:
		b, ok := w.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("field %s requires a bool value, got %T", w.Field, w.Value)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("field %q is not updatable", w.Field)
	}
}

// DeletePerson deletes a person record by id. References held by other
// records are not touched.
func (r *Repository) DeletePerson(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting person %s: %w", id, entities.ErrNotFound)
	}
	return nil
}

// ListReferencing returns ids of persons whose parent_id, spouse_id or
// children reference the given id.
func (r *Repository) ListReferencing(ctx context.Context, treeID, id string) ([]string, error) {
	// Children is a JSON array of quoted ids, so a LIKE on the quoted id
	// finds cache entries without decoding every row.
	query := `
		SELECT id FROM persons
		WHERE tree_id = ? AND id != ?
		  AND (parent_id = ? OR spouse_id = ? OR children LIKE ?)
		ORDER BY id ASC
	`
	quoted := `%"` + id + `"%`
	rows, err := r.db.QueryContext(ctx, query, treeID, id, id, id, quoted)
	if err != nil {
		return nil, fmt.Errorf("querying referencing persons: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var refID string
		if err := rows.Scan(&refID); err != nil {
			return nil, fmt.Errorf("scanning person id: %w", err)
		}
		ids = append(ids, refID)
	}
	return ids, rows.Err()
}

// SaveVersion saves a new person version.
func (r *Repository) SaveVersion(ctx context.Context, version *entities.PersonVersion) error {
	fields, err := json.Marshal(version.Fields)
	if err != nil {
		return fmt.Errorf("marshaling version fields: %w", err)
	}

	query := `
		INSERT INTO person_versions (id, person_id, version, change_type, fields, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		version.ID,
		version.PersonID,
		version.Version,
		string(version.ChangeType),
		string(fields),
		version.Reason,
		version.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving person version: %w", err)
	}
	return nil
}

// FindVersionsByPerson finds all versions of a person, newest first.
func (r *Repository) FindVersionsByPerson(ctx context.Context, personID string) ([]entities.PersonVersion, error) {
	query := `
		SELECT id, person_id, version, change_type, fields, reason, created_at
		FROM person_versions
		WHERE person_id = ?
		ORDER BY version DESC
	`
	rows, err := r.db.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("querying person versions: %w", err)
	}
	defer rows.Close()

	versions := make([]entities.PersonVersion, 0, 16)
	for rows.Next() {
		var v entities.PersonVersion
		var changeType, fields string
		var reason sql.NullString

		if err := rows.Scan(&v.ID, &v.PersonID, &v.Version, &changeType, &fields, &reason, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning person version: %w", err)
		}

		v.ChangeType = entities.ChangeType(changeType)
		v.Reason = reason.String
		if err := json.Unmarshal([]byte(fields), &v.Fields); err != nil {
			return nil, fmt.Errorf("unmarshaling version fields: %w", err)
		}

		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// CountVersions counts how many versions a person has.
func (r *Repository) CountVersions(ctx context.Context, personID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM person_versions WHERE person_id = ?`, personID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting versions: %w", err)
	}
	return count, nil
}

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action string, personID string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var personIDPtr sql.NullString
	if personID != "" {
		personIDPtr = sql.NullString{String: personID, Valid: true}
	}

	query := `INSERT INTO audit_log (action, person_id, details) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, personIDPtr, detailsJSON)
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLog finds audit log entries for a specific person, directly or
// via the touched-persons detail.
func (r *Repository) FindAuditLog(ctx context.Context, personID string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, person_id, details, created_at
		FROM audit_log
		WHERE person_id = ? OR details LIKE ?
		ORDER BY created_at DESC
	`
	quoted := `%"` + personID + `"%`
	rows, err := r.db.QueryContext(ctx, query, personID, quoted)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		var pid, details sql.NullString

		if err := rows.Scan(&entry.ID, &entry.Action, &pid, &details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.PersonID = pid.String
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// queryPersons is a helper to execute person queries.
func (r *Repository) queryPersons(ctx context.Context, query string, args ...any) ([]*entities.Person, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying persons: %w", err)
	}
	defer rows.Close()

	persons := make([]*entities.Person, 0, 16)
	for rows.Next() {
		person, err := scanPersonRow(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, person)
	}
	return persons, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPersonRow scans one person row, decoding the children JSON column.
func scanPersonRow(row rowScanner) (*entities.Person, error) {
	var p entities.Person
	var gender, children string

	err := row.Scan(
		&p.ID,
		&p.TreeID,
		&p.Name,
		&p.NormalizedName,
		&gender,
		&p.BirthDate,
		&p.DeathDate,
		&p.Bio,
		&p.PhotoURL,
		&p.ParentID,
		&p.SpouseID,
		&children,
		&p.CreatedBy,
		&p.IsRoot,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning person: %w", err)
	}

	p.Gender = entities.Gender(gender)
	if err := json.Unmarshal([]byte(children), &p.Children); err != nil {
		return nil, fmt.Errorf("unmarshaling children: %w", err)
	}
	if p.Children == nil {
		p.Children = []string{}
	}
	return &p, nil
}
