package handlers

import (
	"context"

	"github.com/ersonp/kin-core/internal/domain/services"
)

// RepairHandler handles consistency repair operations.
type RepairHandler struct {
	service *services.RepairService
}

// NewRepairHandler creates a new RepairHandler.
func NewRepairHandler(service *services.RepairService) *RepairHandler {
	return &RepairHandler{service: service}
}

// HandlePerson repairs self-references on one person. Returns whether a
// correction was applied.
func (h *RepairHandler) HandlePerson(ctx context.Context, id string) (bool, error) {
	return h.service.RepairPerson(ctx, id)
}

// HandleSpouseLinks restores spouse symmetry across a whole tree. Returns
// the number of corrected links.
func (h *RepairHandler) HandleSpouseLinks(ctx context.Context, treeID string) (int, error) {
	return h.service.RepairAllSpouseLinks(ctx, treeID)
}
