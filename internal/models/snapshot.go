package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Snapshot is a plain-data copy of an entity's fields at a point in time,
// keyed by the entity's JSON field names.
type Snapshot map[string]any

// SnapshotOf converts v into a Snapshot through its JSON representation.
func SnapshotOf(v any) (Snapshot, error) {
	if s, ok := v.(Snapshot); ok {
		return s, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	s := Snapshot{}
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	if s == nil {
		s = Snapshot{}
	}

	return s, nil
}
