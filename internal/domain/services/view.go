package services

import (
	"sort"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// ResolveRelationships derives the display-ready relationships for one
// person from a resolved subgraph snapshot. It is a pure read over the
// snapshot and never fails: inconsistent data degrades to best-effort
// results. The one exception to purity is a detected one-sided spouse link,
// which is repaired on the in-memory snapshot only; persisting the fix is
// the repair pass's job.
func ResolveRelationships(person *entities.Person, subgraph map[string]*entities.Person) *entities.RelationshipView {
	view := &entities.RelationshipView{
		Children: resolveChildren(person, subgraph),
		Siblings: []*entities.Person{},
	}

	if person.ParentID != "" && person.ParentID != person.ID {
		view.Parent = subgraph[person.ParentID]
	}
	view.Spouse = resolveSpouse(person, subgraph)
	view.SecondParent = resolveSecondParent(person, view.Parent, subgraph)
	view.Siblings = resolveSiblings(person, view.Parent, view.SecondParent, subgraph)
	view.SecondParentCandidates = secondParentCandidates(person, view.Spouse, view.Children, subgraph)

	return view
}

// resolveSpouse prefers the direct SpouseID and falls back to scanning for
// any other person whose SpouseID points here. Either way a missing half of
// the link is restored on the snapshot.
func resolveSpouse(person *entities.Person, subgraph map[string]*entities.Person) *entities.Person {
	if person.SpouseID != "" && person.SpouseID != person.ID {
		spouse := subgraph[person.SpouseID]
		if spouse != nil && spouse.SpouseID == "" {
			spouse.SpouseID = person.ID
		}
		return spouse
	}

	for _, id := range sortedIDs(subgraph) {
		other := subgraph[id]
		if other.ID != person.ID && other.SpouseID == person.ID {
			person.SpouseID = other.ID
			return other
		}
	}
	return nil
}

// resolveChildren unions the person's own children cache with a reverse
// scan for anyone whose ParentID points here. The cache alone is not
// authoritative; each child's own ParentID is.
func resolveChildren(person *entities.Person, subgraph map[string]*entities.Person) []*entities.Person {
	seen := make(map[string]bool)
	children := []*entities.Person{}

	for _, id := range person.Children {
		if id == person.ID || seen[id] {
			continue
		}
		if child, ok := subgraph[id]; ok {
			seen[id] = true
			children = append(children, child)
		}
	}
	for _, id := range sortedIDs(subgraph) {
		other := subgraph[id]
		if other.ID != person.ID && other.ParentID == person.ID && !seen[other.ID] {
			seen[other.ID] = true
			children = append(children, other)
		}
	}

	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })
	return children
}

// resolveSecondParent reconstructs second-parent-hood from the proxy shape:
// the primary parent's spouse counts as a second parent when it lists the
// person among its children.
func resolveSecondParent(person, parent *entities.Person, subgraph map[string]*entities.Person) *entities.Person {
	if parent == nil || parent.SpouseID == "" || parent.SpouseID == person.ID {
		return nil
	}
	second := subgraph[parent.SpouseID]
	if second != nil && second.HasChild(person.ID) {
		return second
	}
	return nil
}

// resolveSiblings computes the one relationship with no stored field at
// all: everyone else derivable as a child of the same parent, via either
// parent's ParentID back-references or children caches.
func resolveSiblings(person, parent, secondParent *entities.Person, subgraph map[string]*entities.Person) []*entities.Person {
	parents := []*entities.Person{}
	if parent != nil {
		parents = append(parents, parent)
	}
	if secondParent != nil {
		parents = append(parents, secondParent)
	}
	if len(parents) == 0 {
		return []*entities.Person{}
	}

	seen := make(map[string]bool)
	siblings := []*entities.Person{}
	for _, id := range sortedIDs(subgraph) {
		other := subgraph[id]
		if other.ID == person.ID || seen[other.ID] {
			continue
		}
		for _, par := range parents {
			if other.ID == par.ID {
				continue
			}
			if other.ParentID == par.ID || par.HasChild(other.ID) {
				seen[other.ID] = true
				siblings = append(siblings, other)
				break
			}
		}
	}
	return siblings
}

// secondParentCandidates offers the spouse's children this person has not
// adopted yet. A guided action for the caller, never auto-applied.
func secondParentCandidates(person, spouse *entities.Person, children []*entities.Person, subgraph map[string]*entities.Person) []*entities.Person {
	if spouse == nil {
		return nil
	}

	own := make(map[string]bool, len(children))
	for _, c := range children {
		own[c.ID] = true
	}

	seen := make(map[string]bool)
	var candidates []*entities.Person
	for _, c := range resolveChildren(spouse, subgraph) {
		if c.ID == person.ID || own[c.ID] || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		candidates = append(candidates, c)
	}
	return candidates
}

// sortedIDs returns the subgraph's keys in stable order so derived lists
// come out deterministic.
func sortedIDs(subgraph map[string]*entities.Person) []string {
	ids := make([]string, 0, len(subgraph))
	for id := range subgraph {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
