// Package registry maintains ordered string lists with set semantics:
// uniqueness is enforced, insertion order is preserved, and both operations
// are pure and idempotent so replaying an event is harmless.
//
// Cardinalities are small (tens of approved tokens or templates), so a
// linear scan is the whole implementation.
package registry

import "slices"

// AddUnique returns list with id appended iff it is not already present.
// The input slice is never mutated; when nothing changes the original slice
// is returned as-is. An empty id is ignored - empty strings are a
// data-integrity violation, never a valid member.
func AddUnique(list []string, id string) []string {
	if id == "" {
		return list
	}
	if slices.Contains(list, id) {
		return list
	}
	out := make([]string, len(list), len(list)+1)
	copy(out, list)
	return append(out, id)
}

// RemoveAll returns a new list with every occurrence of id removed,
// preserving the relative order of the rest. A nil or empty input yields an
// empty (non-nil) list. Empty-string elements are dropped as well: they can
// only have entered through corrupted state, and silently carrying them
// forward would poison later scans. Callers that want to log the violation
// check ContainsEmpty first.
func RemoveAll(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, el := range list {
		if el == "" || el == id {
			continue
		}
		out = append(out, el)
	}
	return out
}

// ContainsEmpty reports whether the list holds an empty-string element.
func ContainsEmpty(list []string) bool {
	return slices.Contains(list, "")
}
