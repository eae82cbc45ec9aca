package engine

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewatch/tidewatch/internal/alloc"
	"github.com/tidewatch/tidewatch/internal/chain"
	"github.com/tidewatch/tidewatch/internal/entity"
	"github.com/tidewatch/tidewatch/internal/handlers"
	"github.com/tidewatch/tidewatch/internal/store"
	"github.com/tidewatch/tidewatch/internal/testutil"
)

var (
	pipeRouter   = common.HexToAddress("0x0000000000000000000000000000000000000f0e")
	pipeToken    = common.HexToAddress("0x0000000000000000000000000000000000000a0a")
	pipeTemplate = common.HexToAddress("0x0000000000000000000000000000000000000aa1")
)

func newPipeline(t *testing.T, s *store.Store, reader *testutil.Reader) *Pipeline {
	t.Helper()
	set := handlers.New(alloc.New(reader), reader, &testutil.Tracker{}, 18)
	p, err := New(context.Background(), s, set)
	require.NoError(t, err)
	return p
}

func openStore(t *testing.T, path string) *store.Store {
	t.Helper()
	s, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// run enqueues the events, closes the intake and drains the loop.
func run(t *testing.T, p *Pipeline, events ...chain.Event) {
	t.Helper()
	for _, ev := range events {
		require.True(t, p.Enqueue(ev))
	}
	p.Stop()
	require.NoError(t, p.Run(context.Background()))
}

func loadTemplates(t *testing.T, s *store.Store) entity.TemplateRegistry {
	t.Helper()
	raw, ok, err := s.Get(context.Background(), string(entity.KindTemplateRegistry), entity.TemplateRegistryID)
	require.NoError(t, err)
	require.True(t, ok)
	var reg entity.TemplateRegistry
	require.NoError(t, json.Unmarshal(raw, &reg))
	return reg
}

func TestPipeline_AppliesEventsInOrder(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "test.db"))
	p := newPipeline(t, s, &testutil.Reader{})

	run(t, p,
		chain.SSContractAdded{Meta: testutil.MetaAt(pipeRouter, 10, 0), Contract: pipeTemplate},
		chain.SSContractRemoved{Meta: testutil.MetaAt(pipeRouter, 10, 1), Contract: pipeTemplate},
	)

	assert.Empty(t, loadTemplates(t, s).SSTemplates)

	cur, ok := p.Cursor()
	require.True(t, ok)
	assert.Equal(t, int64(10), cur.Block)
	assert.Equal(t, uint(1), cur.LogIndex)
	assert.Equal(t, int64(2), cur.Seq)
}

func TestPipeline_SkipsEventsAtOrBeforeCursor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s := openStore(t, path)

	first := chain.SSContractAdded{Meta: testutil.MetaAt(pipeRouter, 10, 0), Contract: pipeTemplate}
	run(t, newPipeline(t, s, &testutil.Reader{}), first)

	// A fresh run re-delivers the old event plus one new one. Only the new
	// event is applied: the add is not re-run, so the remove still leaves
	// an empty list rather than failing to find a second copy.
	second := chain.SSContractRemoved{Meta: testutil.MetaAt(pipeRouter, 11, 0), Contract: pipeTemplate}
	p := newPipeline(t, s, &testutil.Reader{})
	run(t, p, first, second)

	assert.Empty(t, loadTemplates(t, s).SSTemplates)

	cur, ok := p.Cursor()
	require.True(t, ok)
	assert.Equal(t, int64(11), cur.Block)
	assert.Equal(t, int64(2), cur.Seq, "resumed clock continues the persisted sequence")
}

func TestPipeline_FailedEventIsSkippedWithoutCursorAdvance(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "test.db"))
	p := newPipeline(t, s, &testutil.Reader{FailFees: true})

	run(t, p,
		chain.TokenAdded{Meta: testutil.MetaAt(pipeRouter, 10, 0), Token: pipeToken},
		chain.SSContractAdded{Meta: testutil.MetaAt(pipeRouter, 11, 0), Contract: pipeTemplate},
	)

	// The reverted token event left nothing behind; the next event applied.
	_, ok, err := s.Get(context.Background(), string(entity.KindGlobalConfig), entity.GlobalConfigID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{entity.AddressID(pipeTemplate)}, loadTemplates(t, s).SSTemplates)

	cur, ok := p.Cursor()
	require.True(t, ok)
	assert.Equal(t, int64(11), cur.Block)
}

func TestPipeline_ContextCancellation(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "test.db"))
	p := newPipeline(t, s, &testutil.Reader{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// The intake closed on the way out.
	assert.False(t, p.Enqueue(chain.SSContractAdded{Meta: testutil.MetaAt(pipeRouter, 10, 0), Contract: pipeTemplate}))
}

func TestPipeline_EnqueueAfterStop(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "test.db"))
	p := newPipeline(t, s, &testutil.Reader{})

	p.Stop()
	assert.False(t, p.Enqueue(chain.SSContractAdded{Meta: testutil.MetaAt(pipeRouter, 10, 0), Contract: pipeTemplate}))
	require.NoError(t, p.Run(context.Background()))
}
