package entity

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBucket is a map-backed Bucket for exercising the typed accessors.
type memBucket struct {
	rows map[string][]byte
}

func newMemBucket() *memBucket {
	return &memBucket{rows: make(map[string][]byte)}
}

func (m *memBucket) key(kind, id string) string { return kind + "\x00" + id }

func (m *memBucket) Load(kind, id string) ([]byte, bool, error) {
	raw, ok := m.rows[m.key(kind, id)]
	return raw, ok, nil
}

func (m *memBucket) Save(kind, id string, body []byte) error {
	m.rows[m.key(kind, id)] = body
	return nil
}

func (m *memBucket) SaveIfAbsent(kind, id string, body []byte) (bool, error) {
	k := m.key(kind, id)
	if _, ok := m.rows[k]; ok {
		return false, nil
	}
	m.rows[k] = body
	return true, nil
}

func TestAddressID_Lowercase(t *testing.T) {
	addr := common.HexToAddress("0xAbCd000000000000000000000000000000001234")
	assert.Equal(t, "0xabcd000000000000000000000000000000001234", AddressID(addr))
}

func TestCompositeKeys(t *testing.T) {
	target := TargetKey("0xnft", 137)
	assert.Equal(t, "0xnft-137", target)

	pair := AllocationKey("0xsender", target)
	assert.Equal(t, "0xsender-0xnft-137", pair)

	assert.Equal(t, "0xtx-0xsender-0xnft-137", UpdateKey("0xtx", pair))
	assert.Equal(t, "0xtx-0xabc-3", DepositKey("0xtx", "0xabc", 3))
}

func TestLoadSave_RoundTrip(t *testing.T) {
	b := newMemBucket()

	in := AllocationUser{
		ID:             "0xuser",
		AllocatedTotal: decimal.RequireFromString("12.5"),
		VeOcean:        "0xuser",
		FirstContact:   100,
		Tx:             "0xtx",
		Block:          7,
	}
	require.NoError(t, Save(b, in))

	out, ok, err := Load[AllocationUser](b, "0xuser")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in.ID, out.ID)
	assert.True(t, in.AllocatedTotal.Equal(out.AllocatedTotal))
	assert.Equal(t, in.VeOcean, out.VeOcean)
}

func TestLoad_AbsentIsNotAnError(t *testing.T) {
	b := newMemBucket()
	_, ok, err := Load[VeOCEAN](b, "0xmissing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveIfAbsent_FirstWriteWins(t *testing.T) {
	b := newMemBucket()

	first := AllocationUpdate{ID: "0xtx-0xpair", Type: UpdateTypeSet, AllocatedTotal: decimal.NewFromInt(100)}
	inserted, err := SaveIfAbsent(b, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	second := first
	second.AllocatedTotal = decimal.NewFromInt(999)
	inserted, err = SaveIfAbsent(b, second)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, ok, err := Load[AllocationUpdate](b, "0xtx-0xpair")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.AllocatedTotal.Equal(decimal.NewFromInt(100)))
}

func TestDecimalJSONIsExact(t *testing.T) {
	b := newMemBucket()

	v := VeOCEAN{ID: "0xh", LockedAmount: decimal.RequireFromString("0.000000000000000001")}
	require.NoError(t, Save(b, v))

	got, ok, err := Load[VeOCEAN](b, "0xh")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0.000000000000000001", got.LockedAmount.String())
}
