package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoadScenario_Defaults(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, `
name: minimal
events:
  - kind: SSContractAdded
    address: "0x000000000000000000000000000000000000f00d"
    block: 1
    timestamp: 1000
    tx: "0x01"
    logIndex: 0
    params:
      contract: "0x0000000000000000000000000000000000000011"
`))
	require.NoError(t, err)
	assert.Equal(t, "minimal", sc.Name)
	assert.Equal(t, int32(18), sc.FeeDecimals)
}

func TestLoadScenario_MissingName(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, `
events:
  - kind: SSContractAdded
`))
	assert.ErrorContains(t, err, "missing name")
}

func TestLoadScenario_NoEvents(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, `
name: empty
`))
	assert.ErrorContains(t, err, "no events")
}

func TestParseEvents_UnknownKind(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, `
name: bogus
events:
  - kind: NotAnEvent
    address: "0x000000000000000000000000000000000000f00d"
    block: 1
    timestamp: 1000
    tx: "0x01"
    logIndex: 0
    params: {}
`))
	require.NoError(t, err)

	_, err = sc.ParseEvents()
	assert.ErrorContains(t, err, "unknown event kind")
}

func TestParseEvents_BadAddress(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, `
name: bad-address
events:
  - kind: TokenAdded
    address: "0x000000000000000000000000000000000000f00d"
    block: 1
    timestamp: 1000
    tx: "0x01"
    logIndex: 0
    params:
      token: "not-hex"
`))
	require.NoError(t, err)

	_, err = sc.ParseEvents()
	assert.ErrorContains(t, err, "invalid address")
}
