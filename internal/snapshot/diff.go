package snapshot

import (
	"bytes"
	"sort"

	"github.com/goccy/go-json"

	"github.com/ginternational/backoffice/internal/models"
)

// ChangedFields returns the keys of after whose value differs from before[key].
//
// Values are compared by their canonical JSON encoding: object keys are sorted,
// array order matters. Only keys present in after are considered, so a key
// dropped from after is never reported. Callers that need removals detected
// must carry the key in after with a null value.
func ChangedFields(before, after models.Snapshot) []string {
	changed := make([]string, 0, len(after))

	// A key missing from before compares as null.
	for key, newVal := range after {
		if !equal(before[key], newVal) {
			changed = append(changed, key)
		}
	}

	sort.Strings(changed)

	return changed
}

// equal reports whether a and b have the same canonical JSON encoding.
// Values that cannot be encoded are treated as different.
func equal(a, b any) bool {
	ea, err := json.Marshal(a)
	if err != nil {
		return false
	}

	eb, err := json.Marshal(b)
	if err != nil {
		return false
	}

	return bytes.Equal(ea, eb)
}
