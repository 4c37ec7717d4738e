package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/services"
)

// TreeHandler resolves a user's subgraph and serves the read-side views
// derived from it.
type TreeHandler struct {
	subgraph *services.SubgraphService
}

// NewTreeHandler creates a new TreeHandler.
func NewTreeHandler(subgraph *services.SubgraphService) *TreeHandler {
	return &TreeHandler{subgraph: subgraph}
}

// HandleView resolves the display relationships of one person within the
// user's subgraph.
func (h *TreeHandler) HandleView(ctx context.Context, treeID, userID, personID string) (*entities.RelationshipView, error) {
	graph, err := h.subgraph.ResolveUserSubgraph(ctx, treeID, userID)
	if err != nil {
		return nil, err
	}
	person, ok := graph[personID]
	if !ok {
		return nil, fmt.Errorf("resolving person %s in subgraph: %w", personID, entities.ErrNotFound)
	}
	return services.ResolveRelationships(person, graph), nil
}

// HandleTree builds the nested tree for the user's subgraph. Returns nil
// when the user has no persons.
func (h *TreeHandler) HandleTree(ctx context.Context, treeID, userID string) (*entities.TreeNode, error) {
	graph, err := h.subgraph.ResolveUserSubgraph(ctx, treeID, userID)
	if err != nil {
		return nil, err
	}
	return services.BuildTree(graph), nil
}

// HandleExport serializes the user's subgraph as "json" or "csv".
func (h *TreeHandler) HandleExport(ctx context.Context, treeID, userID, format string) (string, error) {
	graph, err := h.subgraph.ResolveUserSubgraph(ctx, treeID, userID)
	if err != nil {
		return "", err
	}

	switch format {
	case "json":
		return services.ExportJSON(graph)
	case "csv":
		return services.ExportCSV(graph)
	default:
		return "", fmt.Errorf("unsupported export format: %s (valid: json, csv)", format)
	}
}
