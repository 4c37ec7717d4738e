package entities

import "errors"

// Sentinel errors for the caller-facing taxonomy. Anything else propagated
// from a store is a storage failure and keeps its wrapped cause chain.
var (
	// ErrNotFound means a referenced person id does not resolve in the store.
	ErrNotFound = errors.New("person not found")

	// ErrInvalidRelationship means self-referential operands or an
	// unrecognized relationship kind. Rejected before any write is attempted.
	ErrInvalidRelationship = errors.New("invalid relationship")
)
