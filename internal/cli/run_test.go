package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewatch/tidewatch/internal/entity"
	"github.com/tidewatch/tidewatch/internal/store"
)

const testEvents = `{"kind":"TokenAdded","address":"0x000000000000000000000000000000000000f00d","block":100,"timestamp":1700000000,"tx":"0x01","logIndex":0,"params":{"token":"0x00000000000000000000000000000000000000aa"}}
{"kind":"SSContractAdded","address":"0x000000000000000000000000000000000000f00d","block":101,"timestamp":1700000100,"tx":"0x02","logIndex":0,"params":{"contract":"0x0000000000000000000000000000000000000011"}}
{"kind":"AllocationSet","address":"0x000000000000000000000000000000000000f00d","block":102,"timestamp":1700000200,"tx":"0x03","logIndex":0,"params":{"sender":"0x0000000000000000000000000000000000001001","nft":"0x0000000000000000000000000000000000002001","chainId":"1","amount":"50000000000000000000"}}
`

// writeFixtures writes a config and event log to dir; returns their paths
// and the database path the config points at.
func writeFixtures(t *testing.T) (configPath, eventsPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "state.db")
	configPath = filepath.Join(dir, "config.yaml")
	eventsPath = filepath.Join(dir, "events.ndjson")

	require.NoError(t, os.WriteFile(configPath, []byte(configWithDB(dbPath)), 0o644))
	require.NoError(t, os.WriteFile(eventsPath, []byte(testEvents), 0o644))
	return configPath, eventsPath, dbPath
}

func configWithDB(dbPath string) string {
	return `db: "` + dbPath + `"
network:
  chain_id: 1
  router: "0x000000000000000000000000000000000000f00d"
views:
  swap_ocean_fee: "1000000000000000"
  swap_non_ocean_fee: "2000000000000000"
  consume_fee: "30000000000000000"
  provider_fee: "0"
  tokens:
    "0x00000000000000000000000000000000000000aa":
      name: Ocean Token
      symbol: OCEAN
      decimals: 18
`
}

// execute runs the root command with args, returning captured stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRun_ReplaysEventLog(t *testing.T) {
	configPath, eventsPath, dbPath := writeFixtures(t)

	out, err := execute(t, "run", "--config", configPath, "--format", "json", eventsPath)
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	raw, ok, err := st.Get(context.Background(), string(entity.KindGlobalConfig), entity.GlobalConfigID)
	require.NoError(t, err)
	require.True(t, ok)
	var cfg entity.GlobalConfig
	require.NoError(t, json.Unmarshal(raw, &cfg))
	assert.Equal(t, []string{"0x00000000000000000000000000000000000000aa"}, cfg.ApprovedTokens)

	cur, ok, err := st.LoadCursor(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(102), cur.Block)
	assert.Equal(t, int64(3), cur.Seq)
}

func TestRun_IsIdempotent(t *testing.T) {
	configPath, eventsPath, dbPath := writeFixtures(t)

	_, err := execute(t, "run", "--config", configPath, eventsPath)
	require.NoError(t, err)
	_, err = execute(t, "run", "--config", configPath, eventsPath)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	// The second replay skipped everything: one audit row, not two, and
	// the cursor sequence did not advance.
	rows, err := st.List(context.Background(), string(entity.KindAllocationUpdate))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	cur, _, err := st.LoadCursor(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), cur.Seq)
}

func TestRun_MissingEventLog(t *testing.T) {
	configPath, _, _ := writeFixtures(t)

	_, err := execute(t, "run", "--config", configPath, filepath.Join(t.TempDir(), "nope.ndjson"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_MalformedEventLog(t *testing.T) {
	configPath, _, _ := writeFixtures(t)
	badLog := filepath.Join(t.TempDir(), "bad.ndjson")
	require.NoError(t, os.WriteFile(badLog, []byte(`{"kind":"Nope"}`), 0o644))

	_, err := execute(t, "run", "--config", configPath, badLog)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_InvalidFormatFlag(t *testing.T) {
	_, err := execute(t, "run", "--config", "whatever.yaml", "--format", "xml", "events.ndjson")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
