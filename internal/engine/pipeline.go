package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tidewatch/tidewatch/internal/chain"
	"github.com/tidewatch/tidewatch/internal/entity"
	"github.com/tidewatch/tidewatch/internal/handlers"
	"github.com/tidewatch/tidewatch/internal/store"
)

// Pipeline is the single-writer event loop. Enqueue is safe from any
// goroutine; Run must be called from exactly one.
type Pipeline struct {
	store    *store.Store
	handlers *handlers.Set
	queue    *eventQueue
	clock    *Clock
	runToken string

	// cursor is owned by the Run goroutine after New returns.
	cursor    store.Cursor
	hasCursor bool
}

// New builds a pipeline resuming from the store's persisted cursor. The
// run token is a fresh UUIDv7 identifying this ingest run in logs.
func New(ctx context.Context, s *store.Store, set *handlers.Set) (*Pipeline, error) {
	cur, ok, err := s.LoadCursor(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	p := &Pipeline{
		store:    s,
		handlers: set,
		queue:    newEventQueue(),
		clock:    NewClockAt(cur.Seq),
		runToken: uuid.Must(uuid.NewV7()).String(),
	}
	if ok {
		p.cursor = cur
		p.hasCursor = true
	}
	return p, nil
}

// Enqueue submits an event for processing. Returns false once the pipeline
// has stopped accepting events.
func (p *Pipeline) Enqueue(ev chain.Event) bool {
	return p.queue.Enqueue(ev)
}

// Stop closes the intake. Run drains what is already queued and returns.
func (p *Pipeline) Stop() {
	p.queue.Close()
}

// Cursor returns the position of the last applied event. Only meaningful
// after Run has returned.
func (p *Pipeline) Cursor() (store.Cursor, bool) {
	return p.cursor, p.hasCursor
}

// Run applies queued events in order until the context is cancelled or the
// queue is closed and drained. A failing event is logged and skipped -
// retrying would reorder it behind events that arrived later, and every
// handler leaves either a complete event or nothing.
func (p *Pipeline) Run(ctx context.Context) error {
	slog.Info("pipeline starting",
		"run", p.runToken,
		"resume_block", p.cursor.Block,
		"resume_seq", p.cursor.Seq,
	)

	for {
		ev, ok := p.queue.TryDequeue()
		if ok {
			if err := p.process(ctx, ev); err != nil {
				logEventError(ev, err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			p.queue.Close()
			slog.Info("pipeline stopping: context cancelled", "run", p.runToken)
			return ctx.Err()

		case <-p.queue.Wait():
			if p.queue.Drained() {
				slog.Info("pipeline stopping: queue drained",
					"run", p.runToken,
					"block", p.cursor.Block,
					"seq", p.clock.Current(),
				)
				return nil
			}
		}
	}
}

// process applies one event inside its own store transaction. Events at or
// before the cursor were applied by an earlier run and are skipped.
func (p *Pipeline) process(ctx context.Context, ev chain.Event) error {
	meta := ev.EventMeta()

	if p.hasCursor && !p.cursor.After(meta.Block, meta.LogIndex) {
		slog.Debug("event before cursor, skipping",
			"kind", ev.Kind(),
			"block", meta.Block,
			"log_index", meta.LogIndex,
		)
		return nil
	}

	cur := store.Cursor{
		Block:    meta.Block,
		LogIndex: meta.LogIndex,
		TxHash:   entity.HashID(meta.TxHash),
		Seq:      p.clock.Next(),
	}
	err := p.store.Apply(ctx, cur, func(tx *store.Tx) error {
		return p.handlers.Dispatch(ctx, tx, ev)
	})
	if err != nil {
		return err
	}

	p.cursor = cur
	p.hasCursor = true

	slog.Debug("event applied",
		"kind", ev.Kind(),
		"block", meta.Block,
		"log_index", meta.LogIndex,
		"seq", cur.Seq,
	)
	return nil
}

// logEventError reports a skipped event with enough position detail to
// find it in the source log. Reverted view calls are expected on stale
// contracts and logged at warn; everything else is an error.
func logEventError(ev chain.Event, err error) {
	meta := ev.EventMeta()
	attrs := []any{
		"kind", ev.Kind(),
		"block", meta.Block,
		"log_index", meta.LogIndex,
		"tx", entity.HashID(meta.TxHash),
		"error", err,
	}
	if errors.Is(err, chain.ErrReverted) {
		slog.Warn("event dropped: view call reverted", attrs...)
		return
	}
	slog.Error("event failed, skipping", attrs...)
}
