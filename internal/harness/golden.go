package harness

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/tidewatch/tidewatch/internal/store"
)

// dumpEntry is one entity in a golden snapshot. Bodies are embedded raw:
// they were produced by deterministic struct marshalling, so byte-for-byte
// comparison is stable across replays.
type dumpEntry struct {
	Kind string          `json:"kind"`
	ID   string          `json:"id"`
	Body json.RawMessage `json:"body"`
}

// RunWithGolden replays the scenario and compares the full entity dump
// against testdata/{scenario name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, path string) *Result {
	t.Helper()

	result := Run(t, path)

	rows, err := result.Store.Dump(context.Background())
	require.NoError(t, err)

	snapshot := snapshotRows(rows)
	data, err := json.MarshalIndent(snapshot, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithNameSuffix(".golden"))
	g.Assert(t, result.Scenario.Name, append(data, '\n'))
	return result
}

func snapshotRows(rows []store.Row) []dumpEntry {
	out := make([]dumpEntry, len(rows))
	for i, row := range rows {
		out[i] = dumpEntry{Kind: row.Kind, ID: row.ID, Body: json.RawMessage(row.Body)}
	}
	return out
}
