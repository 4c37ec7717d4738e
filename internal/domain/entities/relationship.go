package entities

import "fmt"

// Kind identifies a typed relationship edge between two persons.
type Kind string

const (
	// KindParentChild links a parent to a child via the child's ParentID and
	// the parent's Children cache.
	KindParentChild Kind = "parent-child"
	// KindSpouse links two persons symmetrically via SpouseID.
	KindSpouse Kind = "spouse"
	// KindSecondParent links a second parent to a child indirectly: the child
	// keeps its single ParentID, the second parent lists the child in
	// Children and is spouse-linked to the first parent.
	KindSecondParent Kind = "second-parent"
)

// ParseKind validates and converts a string to a relationship Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindParentChild, KindSpouse, KindSecondParent:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q (valid: parent-child, spouse, second-parent)", ErrInvalidRelationship, s)
	}
}
