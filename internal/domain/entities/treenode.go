package entities

// TreeNode is one node of the rooted, acyclic nested structure built for
// visualization and JSON export. The spouse is attached to the node but is
// never expanded with a subtree of its own; a blended family's children are
// merged into the node's children before serialization.
type TreeNode struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Gender    Gender      `json:"gender"`
	BirthDate string      `json:"birth_date,omitempty"`
	DeathDate string      `json:"death_date,omitempty"`
	Spouse    *TreeSpouse `json:"spouse"`
	Children  []*TreeNode `json:"children"`
}

// TreeSpouse is the non-expanded spouse attachment on a TreeNode.
type TreeSpouse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
