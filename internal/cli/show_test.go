package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewatch/tidewatch/internal/entity"
)

func TestShow_AllEntities(t *testing.T) {
	configPath, eventsPath, dbPath := writeFixtures(t)
	_, err := execute(t, "run", "--config", configPath, eventsPath)
	require.NoError(t, err)

	out, err := execute(t, "show", "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   []ShownEntity `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	kinds := map[string]bool{}
	for _, e := range resp.Data {
		kinds[e.Kind] = true
	}
	assert.True(t, kinds[string(entity.KindGlobalConfig)])
	assert.True(t, kinds[string(entity.KindTemplateRegistry)])
	assert.True(t, kinds[string(entity.KindAllocationUser)])
}

func TestShow_SingleKind(t *testing.T) {
	configPath, eventsPath, dbPath := writeFixtures(t)
	_, err := execute(t, "run", "--config", configPath, eventsPath)
	require.NoError(t, err)

	out, err := execute(t, "show", "--db", dbPath, "--format", "json", string(entity.KindToken))
	require.NoError(t, err)

	var resp struct {
		Data []ShownEntity `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", resp.Data[0].ID)
}

func TestShow_SingleEntity(t *testing.T) {
	configPath, eventsPath, dbPath := writeFixtures(t)
	_, err := execute(t, "run", "--config", configPath, eventsPath)
	require.NoError(t, err)

	out, err := execute(t, "show", "--db", dbPath, string(entity.KindGlobalConfig), entity.GlobalConfigID)
	require.NoError(t, err)
	assert.Contains(t, out, "approvedTokens")
}

func TestShow_MissingEntity(t *testing.T) {
	configPath, eventsPath, dbPath := writeFixtures(t)
	_, err := execute(t, "run", "--config", configPath, eventsPath)
	require.NoError(t, err)

	_, err = execute(t, "show", "--db", dbPath, string(entity.KindToken), "0xmissing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
