// Package snapshot implements the pure policies applied to entity snapshots
// before they are written to the audit trail: redaction and change detection.
package snapshot

import "github.com/ginternational/backoffice/internal/models"

// sensitiveKeys never appear in a persisted snapshot, at any depth.
var sensitiveKeys = map[string]struct{}{
	"password":        {},
	"confirmPassword": {},
	"tokens":          {},
	"__v":             {},
}

// IsSensitive reports whether key is stripped by Redact.
func IsSensitive(key string) bool {
	_, ok := sensitiveKeys[key]
	return ok
}

// Redact returns a deep copy of s without credential material, session tokens
// or storage version markers. Nested objects, including objects inside arrays,
// are redacted too. s is never modified; a nil snapshot yields an empty one.
func Redact(s models.Snapshot) models.Snapshot {
	return models.Snapshot(redactMap(s))
}

func redactMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))

	for k, v := range m {
		if IsSensitive(k) {
			continue
		}

		out[k] = redactValue(v)
	}

	return out
}

func redactValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return redactMap(x)
	case models.Snapshot:
		return redactMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = redactValue(e)
		}

		return out
	default:
		return v
	}
}
