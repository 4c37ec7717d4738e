package entities

import "time"

// ChangeType indicates why a person record was changed.
type ChangeType string

const (
	ChangeCreation            ChangeType = "creation"
	ChangeRelationshipSet     ChangeType = "relationship_set"
	ChangeRelationshipRemoved ChangeType = "relationship_removed"
	ChangeRepair              ChangeType = "repair"
	ChangeDeletion            ChangeType = "deletion"
)

// PersonVersion records the field writes applied to one person by a single
// mutation batch, forming a per-person change history.
type PersonVersion struct {
	ID         string         `json:"id"`
	PersonID   string         `json:"person_id"`
	Version    int            `json:"version"`
	ChangeType ChangeType     `json:"change_type"`
	Fields     map[string]any `json:"fields"`
	Reason     string         `json:"reason,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
