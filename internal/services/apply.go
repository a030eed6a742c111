package services

import (
	"encoding/json"
	"fmt"
	"slices"
)

// applyUpdates checks every submitted field name against the entity's
// allow-list and, only if all pass, applies the submitted values verbatim
// onto the loaded entity. All-or-nothing: one unknown field rejects the
// whole update before anything is applied.
func applyUpdates(entity interface{}, updates map[string]json.RawMessage, allowed []string) error {
	if len(updates) == 0 {
		return fmt.Errorf("%w: no fields submitted", ErrInvalidUpdate)
	}

	for field := range updates {
		if !slices.Contains(allowed, field) {
			return fmt.Errorf("%w: field %q is not updatable", ErrInvalidUpdate, field)
		}
	}

	merged, err := json.Marshal(updates)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}
	if err := json.Unmarshal(merged, entity); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}
	return nil
}
