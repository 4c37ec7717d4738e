package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/services"
)

// ValidRelationKinds lists all valid relationship kind strings.
var ValidRelationKinds = []string{"parent-child", "spouse", "second-parent"}

// RelationshipHandler handles relationship mutations.
type RelationshipHandler struct {
	service *services.RelationshipService
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(service *services.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{service: service}
}

// HandleSet establishes a relationship of the given kind. For parent-child
// the operands are (parent, child); for spouse, the two spouses.
// Second-parent links need a third person and go through
// HandleAddSecondParent instead.
func (h *RelationshipHandler) HandleSet(ctx context.Context, actorID, kind, id1, id2 string) error {
	k, err := entities.ParseKind(kind)
	if err != nil {
		return err
	}

	switch k {
	case entities.KindParentChild:
		return h.service.SetParentChild(ctx, actorID, id1, id2)
	case entities.KindSpouse:
		return h.service.SetSpouse(ctx, actorID, id1, id2)
	default:
		return fmt.Errorf("%w: second-parent links take three persons, use the second-parent command", entities.ErrInvalidRelationship)
	}
}

// HandleAddSecondParent links secondParentID as a second parent of childID
// alongside firstParentID.
func (h *RelationshipHandler) HandleAddSecondParent(ctx context.Context, actorID, childID, firstParentID, secondParentID string) error {
	return h.service.AddSecondParent(ctx, actorID, childID, firstParentID, secondParentID)
}

// HandleRemove removes a relationship of the given kind between two persons.
func (h *RelationshipHandler) HandleRemove(ctx context.Context, actorID, kind, id1, id2 string) error {
	k, err := entities.ParseKind(kind)
	if err != nil {
		return err
	}
	return h.service.RemoveRelationship(ctx, actorID, k, id1, id2)
}
