package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/ports"
)

// recordChange appends a version row per touched person and one audit entry
// for an applied mutation. The batch itself has already committed; failures
// here surface to the caller but cannot roll the mutation back.
func recordChange(
	ctx context.Context,
	store ports.PersonStore,
	action string,
	changeType entities.ChangeType,
	reason string,
	touched map[string]map[string]any,
) error {
	ids := make([]string, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, personID := range ids {
		count, err := store.CountVersions(ctx, personID)
		if err != nil {
			return fmt.Errorf("counting versions: %w", err)
		}
		version := &entities.PersonVersion{
			ID:         uuid.New().String(),
			PersonID:   personID,
			Version:    count + 1,
			ChangeType: changeType,
			Fields:     touched[personID],
			Reason:     reason,
			CreatedAt:  time.Now(),
		}
		if err := store.SaveVersion(ctx, version); err != nil {
			return fmt.Errorf("saving version: %w", err)
		}
	}

	details := map[string]any{"persons": ids}
	if err := store.LogAction(ctx, action, ids[0], details); err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// touchedFields converts a write batch into the per-person field map used
// for version records.
func touchedFields(writes []ports.FieldWrite) map[string]map[string]any {
	touched := make(map[string]map[string]any)
	for _, w := range writes {
		if touched[w.PersonID] == nil {
			touched[w.PersonID] = make(map[string]any)
		}
		touched[w.PersonID][string(w.Field)] = w.Value
	}
	return touched
}
