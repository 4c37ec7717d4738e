package services

import (
	"context"
	"fmt"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/ports"
)

// SubgraphService resolves the set of persons belonging to a user's family
// tree. Membership is transitive through graph edges, not a stored tenant
// id: the seed is everything the user authored, expanded to the connected
// component.
type SubgraphService struct {
	store ports.PersonStore
}

// NewSubgraphService creates a new SubgraphService.
func NewSubgraphService(store ports.PersonStore) *SubgraphService {
	return &SubgraphService{store: store}
}

// ResolveUserSubgraph computes the connected component around the persons
// authored by userID. Expansion follows parent, spouse and children
// references in both directions; the reverse direction re-scans the whole
// snapshot each pass because some edges are only recorded on one endpoint
// (a stale children cache, a one-sided spouse link). The loop terminates at
// a fixed point: each pass either adds a person or ends the search.
func (s *SubgraphService) ResolveUserSubgraph(ctx context.Context, treeID, userID string) (map[string]*entities.Person, error) {
	all, err := s.store.ListPersons(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("listing persons: %w", err)
	}

	byID := make(map[string]*entities.Person, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	result := make(map[string]*entities.Person)
	for _, p := range all {
		if p.CreatedBy == userID {
			result[p.ID] = p
		}
	}

	for changed := true; changed; {
		changed = false

		// Forward edges from current members.
		for _, p := range result {
			for _, ref := range forwardRefs(p) {
				if _, in := result[ref]; in {
					continue
				}
				if target, ok := byID[ref]; ok {
					result[ref] = target
					changed = true
				}
			}
		}

		// Reverse edges: anyone in the store pointing at a member joins.
		for _, p := range all {
			if _, in := result[p.ID]; in {
				continue
			}
			for _, ref := range forwardRefs(p) {
				if _, in := result[ref]; in {
					result[p.ID] = p
					changed = true
					break
				}
			}
		}
	}

	return result, nil
}

// forwardRefs returns the ids a person references directly, skipping empty
// and self-referential entries.
func forwardRefs(p *entities.Person) []string {
	refs := make([]string, 0, len(p.Children)+2)
	if p.ParentID != "" && p.ParentID != p.ID {
		refs = append(refs, p.ParentID)
	}
	if p.SpouseID != "" && p.SpouseID != p.ID {
		refs = append(refs, p.SpouseID)
	}
	for _, c := range p.Children {
		if c != "" && c != p.ID {
			refs = append(refs, c)
		}
	}
	return refs
}
