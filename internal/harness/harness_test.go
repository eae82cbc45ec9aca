package harness

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewatch/tidewatch/internal/entity"
)

func TestScenario_FeeLifecycle(t *testing.T) {
	result := Run(t, filepath.Join("testdata", "fee-lifecycle.yaml"))

	assert.Equal(t, 3, result.Events)
	assert.Equal(t, int64(102), result.Cursor.Block)
	assert.Equal(t, int64(3), result.Cursor.Seq)
}

func TestScenario_AllocationLifecycle(t *testing.T) {
	result := Run(t, filepath.Join("testdata", "allocation-lifecycle.yaml"))

	// Each applied set operation left an audit row: the initial set plus
	// two from the batched event.
	rows, err := result.Store.List(context.Background(), string(entity.KindAllocationUpdate))
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	deposits, err := result.Store.List(context.Background(), string(entity.KindVeDeposit))
	require.NoError(t, err)
	require.Len(t, deposits, 2)
	for _, row := range deposits {
		var dep entity.VeDeposit
		require.NoError(t, json.Unmarshal(row.Body, &dep))
		assert.Equal(t, "0x0000000000000000000000000000000000001001", dep.Provider)
	}
}

func TestScenario_TemplateLifecycleGolden(t *testing.T) {
	result := RunWithGolden(t, filepath.Join("testdata", "template-lifecycle.yaml"))
	assert.Equal(t, 4, result.Events)
}
