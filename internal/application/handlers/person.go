// Package handlers contains application-level orchestration between the CLI
// and domain services.
package handlers

import (
	"context"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/services"
)

// PersonHandler handles person record operations.
type PersonHandler struct {
	service *services.PersonService
}

// NewPersonHandler creates a new PersonHandler.
func NewPersonHandler(service *services.PersonService) *PersonHandler {
	return &PersonHandler{service: service}
}

// CreateOptions carries the descriptive attributes for a new person.
type CreateOptions struct {
	Gender    string
	BirthDate string
	DeathDate string
	Bio       string
	PhotoURL  string
}

// HandleCreate creates a new person in the tree on behalf of userID.
func (h *PersonHandler) HandleCreate(ctx context.Context, treeID, userID, name string, opts CreateOptions) (*entities.Person, error) {
	return h.service.Create(ctx, &entities.Person{
		TreeID:    treeID,
		Name:      name,
		Gender:    entities.Gender(opts.Gender),
		BirthDate: opts.BirthDate,
		DeathDate: opts.DeathDate,
		Bio:       opts.Bio,
		PhotoURL:  opts.PhotoURL,
		CreatedBy: userID,
	})
}

// HandleGet retrieves a person by id.
func (h *PersonHandler) HandleGet(ctx context.Context, id string) (*entities.Person, error) {
	return h.service.Get(ctx, id)
}

// HandleList lists every person of a tree.
func (h *PersonHandler) HandleList(ctx context.Context, treeID string) ([]*entities.Person, error) {
	return h.service.List(ctx, treeID)
}

// HandleSearch searches persons by name.
func (h *PersonHandler) HandleSearch(ctx context.Context, treeID, query string, limit int) ([]*entities.Person, error) {
	return h.service.Search(ctx, treeID, query, limit)
}

// HandleCount returns the number of persons in a tree.
func (h *PersonHandler) HandleCount(ctx context.Context, treeID string) (int, error) {
	return h.service.Count(ctx, treeID)
}

// HandleDelete removes a person and returns the ids still referencing it.
func (h *PersonHandler) HandleDelete(ctx context.Context, treeID, id string) ([]string, error) {
	return h.service.Delete(ctx, treeID, id)
}

// HandleHistory lists a person's change history, newest first.
func (h *PersonHandler) HandleHistory(ctx context.Context, id string) ([]entities.PersonVersion, error) {
	return h.service.History(ctx, id)
}

// HandleAuditLog lists audit entries mentioning a person.
func (h *PersonHandler) HandleAuditLog(ctx context.Context, id string) ([]entities.AuditEntry, error) {
	return h.service.AuditLog(ctx, id)
}
