// Package entities contains core domain data structures.
package entities

import (
	"strings"
	"time"
)

// Gender classifies a person for display purposes. No relationship rule
// depends on it.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// IsValid reports whether g is one of the known gender values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Person is one node in the family graph.
//
// ParentID, SpouseID and Children are the raw stored relationship fields.
// Children caches the reverse of ParentID and may lag behind it; readers
// must treat each child's own ParentID as authoritative and union in a
// reverse scan. SpouseID is intended to be symmetric but partial writes can
// leave it one-sided; the repair pass restores symmetry.
type Person struct {
	ID             string    `json:"id"`
	TreeID         string    `json:"tree_id"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalized_name"`
	Gender         Gender    `json:"gender"`
	BirthDate      string    `json:"birth_date,omitempty"`
	DeathDate      string    `json:"death_date,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	PhotoURL       string    `json:"photo_url,omitempty"`
	ParentID       string    `json:"parent_id,omitempty"`
	SpouseID       string    `json:"spouse_id,omitempty"`
	Children       []string  `json:"children"`
	CreatedBy      string    `json:"created_by"`
	IsRoot         bool      `json:"is_root"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HasChild reports whether id is present in the cached children list.
func (p *Person) HasChild(id string) bool {
	for _, c := range p.Children {
		if c == id {
			return true
		}
	}
	return false
}

// ChildrenWith returns the children list with id appended, de-duplicated.
// The receiver is not modified.
func (p *Person) ChildrenWith(id string) []string {
	if p.HasChild(id) {
		return append([]string(nil), p.Children...)
	}
	out := make([]string, 0, len(p.Children)+1)
	out = append(out, p.Children...)
	return append(out, id)
}

// ChildrenWithout returns the children list with every occurrence of id
// removed. The receiver is not modified.
func (p *Person) ChildrenWithout(id string) []string {
	out := make([]string, 0, len(p.Children))
	for _, c := range p.Children {
		if c != id {
			out = append(out, c)
		}
	}
	return out
}
