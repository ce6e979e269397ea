package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dualsubstrate/web4r-go/internal/models"
)

// The helpers below treat decoded JSON values the way the backend's older
// clients did: absent, null, empty and zero values all read as "not there",
// and the next link of a fallback chain gets a chance.

// objectOf returns the child object at key, or nil.
func objectOf(m map[string]any, key string) map[string]any {
	child, _ := m[key].(map[string]any)
	return child
}

// listOf returns the child list at key, or nil.
func listOf(m map[string]any, key string) []any {
	child, _ := m[key].([]any)
	return child
}

// stringOf returns the scalar at key rendered as a string, or "" when the
// value is absent, empty, zero, or a container.
func stringOf(m map[string]any, key string) string {
	return scalarString(m[key])
}

// scalarString renders a scalar JSON value, mapping every falsy or
// non-scalar value to "".
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == 0 {
			return ""
		}
		return strconv.FormatFloat(s, 'g', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		if s {
			return "true"
		}
		return ""
	default:
		return ""
	}
}

// firstNonEmpty evaluates a string fallback chain: the first non-empty
// candidate wins. Callers place the documented sentinel last.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// scoreChain evaluates a score fallback chain: the first value that reads as
// a number wins. An exhausted chain yields the absent Score, which renders
// as "N/A".
func scoreChain(candidates ...any) models.Score {
	for _, c := range candidates {
		if s := models.ScoreFrom(c); s.Valid() {
			return s
		}
	}
	return models.Score{}
}

// claimStrings converts a raw claims list into ordered claim labels. Object
// entries contribute their stringified "label" field, scalars contribute
// themselves; entries without a usable label are dropped.
func claimStrings(entries []any) []string {
	claims := make([]string, 0, len(entries))
	for _, entry := range entries {
		var label string
		if obj, ok := entry.(map[string]any); ok {
			label = scalarString(obj["label"])
		} else {
			label = scalarString(entry)
		}
		if label != "" {
			claims = append(claims, label)
		}
	}
	return claims
}

// hintNamespace derives a namespace from the coordinate hint: the prefix
// before ':' when present, else the whole hint.
func hintNamespace(hint string) string {
	ns, _ := models.SplitNamespace(hint)
	return ns
}

// blobSummary scans payload.segments in order for the first segment whose
// blob_ref resolves to a string inside payload.blobs, and returns that text
// trimmed. Returns "" when the structure is absent or no segment matches.
func blobSummary(blob map[string]any) string {
	blobs := objectOf(blob, "blobs")
	segments := listOf(blob, "segments")
	if blobs == nil || segments == nil {
		return ""
	}
	for _, entry := range segments {
		segment, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		ref := stringOf(segment, "blob_ref")
		if ref == "" {
			continue
		}
		if text, ok := blobs[ref].(string); ok {
			return strings.TrimSpace(text)
		}
	}
	return ""
}
