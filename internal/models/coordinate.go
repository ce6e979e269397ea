package models

import "strings"

// SplitNamespace parses an optionally namespace-prefixed coordinate such as
// "EV:123". It returns the prefix before the first ':' and true, or the whole
// coordinate and false when no prefix is present. Coordinates are opaque and
// never mutated; this is the only parsing applied to them.
func SplitNamespace(coordinate string) (string, bool) {
	if ns, _, found := strings.Cut(coordinate, ":"); found {
		return ns, true
	}
	return coordinate, false
}
