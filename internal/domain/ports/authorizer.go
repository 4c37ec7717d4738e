package ports

import "context"

// Authorizer decides whether an actor may mutate a person record. The
// engine stays agnostic to who is calling; policy is injected at the
// boundary.
type Authorizer interface {
	// CanMutate returns nil when actorID may mutate personID, an error
	// explaining the refusal otherwise.
	CanMutate(ctx context.Context, actorID, personID string) error
}

// AllowAll permits every mutation. This matches the source system, where
// any authenticated actor may edit any person.
type AllowAll struct{}

// CanMutate always returns nil.
func (AllowAll) CanMutate(context.Context, string, string) error { return nil }
