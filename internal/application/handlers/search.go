package handlers

import (
	"context"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/services"
)

// SearchHandler handles semantic bio search.
type SearchHandler struct {
	service *services.BioSearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(service *services.BioSearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// HandleIndex (re)indexes every person of a tree for bio search.
func (h *SearchHandler) HandleIndex(ctx context.Context, treeID string) (int, error) {
	return h.service.IndexTree(ctx, treeID)
}

// HandleSearch runs a free-text query over indexed bios.
func (h *SearchHandler) HandleSearch(ctx context.Context, query string, limit int) ([]entities.BioDoc, error) {
	return h.service.Search(ctx, query, limit)
}
