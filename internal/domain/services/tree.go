package services

import "github.com/ersonp/kin-core/internal/domain/entities"

// BuildTree produces the rooted, acyclic nested structure for a resolved
// subgraph. The underlying data is not guaranteed acyclic, so every descent
// carries a visited set and an already-visited id ends the branch instead
// of erroring. Returns nil for an empty subgraph.
func BuildTree(subgraph map[string]*entities.Person) *entities.TreeNode {
	root := SelectRoot(subgraph)
	if root == nil {
		return nil
	}
	return buildNode(root, subgraph, make(map[string]bool))
}

// SelectRoot picks the display root: an explicit IsRoot flag wins; failing
// that, the parentless person with the most transitive descendants; failing
// that, the first person by id. Ties break toward the smaller id so output
// stays deterministic.
func SelectRoot(subgraph map[string]*entities.Person) *entities.Person {
	ids := sortedIDs(subgraph)
	if len(ids) == 0 {
		return nil
	}

	for _, id := range ids {
		if subgraph[id].IsRoot {
			return subgraph[id]
		}
	}

	var best *entities.Person
	bestCount := -1
	for _, id := range ids {
		p := subgraph[id]
		if p.ParentID != "" && p.ParentID != p.ID {
			continue
		}
		count := countDescendants(p, subgraph, map[string]bool{p.ID: true})
		if count > bestCount {
			best, bestCount = p, count
		}
	}
	if best != nil {
		return best
	}

	return subgraph[ids[0]]
}

// countDescendants counts transitive descendants through the resolved
// children union. The visited set guards against cycles in corrupted data.
func countDescendants(p *entities.Person, subgraph map[string]*entities.Person, visited map[string]bool) int {
	count := 0
	for _, child := range resolveChildren(p, subgraph) {
		if visited[child.ID] {
			continue
		}
		visited[child.ID] = true
		count += 1 + countDescendants(child, subgraph, visited)
	}
	return count
}

// buildNode recursively assembles one node. The spouse is attached but not
// expanded; its own descendants appear on its side of the family, not here.
func buildNode(p *entities.Person, subgraph map[string]*entities.Person, visited map[string]bool) *entities.TreeNode {
	visited[p.ID] = true

	view := ResolveRelationships(p, subgraph)
	node := &entities.TreeNode{
		ID:        p.ID,
		Name:      p.Name,
		Gender:    p.Gender,
		BirthDate: p.BirthDate,
		DeathDate: p.DeathDate,
		Children:  []*entities.TreeNode{},
	}
	if view.Spouse != nil {
		node.Spouse = &entities.TreeSpouse{ID: view.Spouse.ID, Name: view.Spouse.Name}
	}

	for _, child := range view.Children {
		if visited[child.ID] {
			continue
		}
		node.Children = append(node.Children, buildNode(child, subgraph, visited))
	}
	return node
}
