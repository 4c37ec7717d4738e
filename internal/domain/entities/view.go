package entities

// RelationshipView is the display-ready set of relationships derived for one
// person from a resolved subgraph. Siblings and the second parent have no
// stored field; they are reconstructed at read time.
type RelationshipView struct {
	Parent                 *Person   `json:"parent,omitempty"`
	SecondParent           *Person   `json:"second_parent,omitempty"`
	Spouse                 *Person   `json:"spouse,omitempty"`
	Children               []*Person `json:"children"`
	Siblings               []*Person `json:"siblings"`
	SecondParentCandidates []*Person `json:"second_parent_candidates,omitempty"`
}
