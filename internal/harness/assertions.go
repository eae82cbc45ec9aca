package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewatch/tidewatch/internal/store"
)

func checkAssertion(t *testing.T, st *store.Store, a Assertion, label string) {
	t.Helper()

	raw, ok, err := st.Get(context.Background(), a.Kind, a.ID)
	require.NoError(t, err, label)

	if a.Absent {
		assert.False(t, ok, "%s: entity should not exist", label)
		return
	}
	require.True(t, ok, "%s: entity not found", label)

	var actual map[string]any
	require.NoError(t, json.Unmarshal(raw, &actual), label)

	for field, want := range a.Expect {
		got, present := actual[field]
		if !present {
			t.Errorf("%s: field %q missing from entity", label, field)
			continue
		}
		if !valuesMatch(want, got) {
			t.Errorf("%s: field %q: expected %v, got %v", label, field, want, got)
		}
	}
}

// valuesMatch compares a YAML-decoded expectation against a JSON-decoded
// entity value. Scalars are compared by their printed form, which bridges
// YAML ints against JSON float64s and decimal strings. Lists and maps
// recurse; list order matters because registry lists are ordered.
func valuesMatch(want, got any) bool {
	switch w := want.(type) {
	case map[string]any:
		g, ok := got.(map[string]any)
		if !ok {
			return false
		}
		for k, wv := range w {
			gv, present := g[k]
			if !present || !valuesMatch(wv, gv) {
				return false
			}
		}
		return true

	case []any:
		g, ok := got.([]any)
		if !ok || len(g) != len(w) {
			return false
		}
		for i := range w {
			if !valuesMatch(w[i], g[i]) {
				return false
			}
		}
		return true

	default:
		return fmt.Sprint(want) == fmt.Sprint(got)
	}
}
