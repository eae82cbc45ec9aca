package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tidewatch/tidewatch/internal/alloc"
	"github.com/tidewatch/tidewatch/internal/chain"
	"github.com/tidewatch/tidewatch/internal/engine"
	"github.com/tidewatch/tidewatch/internal/handlers"
	"github.com/tidewatch/tidewatch/internal/store"
)

// Result is the outcome of one scenario replay. The store stays open until
// test cleanup so callers can make additional checks.
type Result struct {
	Scenario *Scenario
	Store    *store.Store
	Events   int
	Cursor   store.Cursor
}

// Run replays the scenario at path through the pipeline into a fresh
// temp-dir store, then evaluates its assertions.
func Run(t *testing.T, path string) *Result {
	t.Helper()

	sc, err := LoadScenario(path)
	require.NoError(t, err)

	events, err := sc.ParseEvents()
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(t.TempDir(), "scenario.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	reader := chain.NewStaticReader(sc.Views.Static())
	set := handlers.New(alloc.New(reader), reader, chain.LogTracker{}, sc.FeeDecimals)

	ctx := context.Background()
	pipeline, err := engine.New(ctx, st, set)
	require.NoError(t, err)

	for _, ev := range events {
		require.True(t, pipeline.Enqueue(ev))
	}
	pipeline.Stop()
	require.NoError(t, pipeline.Run(ctx))

	result := &Result{Scenario: sc, Store: st, Events: len(events)}
	if cur, ok := pipeline.Cursor(); ok {
		result.Cursor = cur
	}

	for i, a := range sc.Assertions {
		checkAssertion(t, st, a, fmt.Sprintf("assertion %d (%s/%s)", i, a.Kind, a.ID))
	}
	return result
}
