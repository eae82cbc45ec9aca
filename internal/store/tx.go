package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Cursor is the chain position of the last applied event, persisted in the
// same transaction as that event's entity writes. Seq is the pipeline's
// logical clock value, used to stamp entity rows.
type Cursor struct {
	Block    int64
	LogIndex uint
	TxHash   string
	Seq      int64
}

// After reports whether an event at (block, logIndex) comes after the
// cursor position.
func (c Cursor) After(block int64, logIndex uint) bool {
	if block != c.Block {
		return block > c.Block
	}
	return logIndex > c.LogIndex
}

// Tx is the per-event unit of work. All entity reads and writes a handler
// performs go through one Tx; either everything commits together or the
// event leaves no trace. Tx implements entity.Bucket.
type Tx struct {
	ctx context.Context
	tx  *sql.Tx
	seq int64
}

// Load returns the stored body for (kind, id), or ok=false if absent.
func (t *Tx) Load(kind, id string) ([]byte, bool, error) {
	var body []byte
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT body FROM entities WHERE kind = ? AND id = ?
	`, kind, id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s %q: %w", kind, id, err)
	}
	return body, true, nil
}

// Save upserts the body for (kind, id), stamping the event's seq.
func (t *Tx) Save(kind, id string, body []byte) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO entities (kind, id, body, updated_seq)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			body = excluded.body,
			updated_seq = excluded.updated_seq
	`, kind, id, string(body), t.seq)
	if err != nil {
		return fmt.Errorf("save %s %q: %w", kind, id, err)
	}
	return nil
}

// SaveIfAbsent writes the body only if no row exists for (kind, id).
// ON CONFLICT DO NOTHING makes replays first-write-wins: the existing row
// is untouched and inserted=false is returned.
func (t *Tx) SaveIfAbsent(kind, id string, body []byte) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO entities (kind, id, body, updated_seq)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, id) DO NOTHING
	`, kind, id, string(body), t.seq)
	if err != nil {
		return false, fmt.Errorf("save %s %q: %w", kind, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save %s %q: rows affected: %w", kind, id, err)
	}
	return affected > 0, nil
}

// Apply runs fn inside one transaction and, if it succeeds, advances the
// persisted cursor to cur in the same transaction before committing. Any
// error from fn rolls everything back - the event's writes and the cursor
// advance are atomic as a unit.
func (s *Store) Apply(ctx context.Context, cur Cursor, fn func(*Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	t := &Tx{ctx: ctx, tx: tx, seq: cur.Seq}
	if err := fn(t); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cursor (id, block, log_index, tx_hash, seq)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			block = excluded.block,
			log_index = excluded.log_index,
			tx_hash = excluded.tx_hash,
			seq = excluded.seq
	`, cur.Block, cur.LogIndex, cur.TxHash, cur.Seq)
	if err != nil {
		return fmt.Errorf("apply: advance cursor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply: commit: %w", err)
	}
	return nil
}

// View runs fn inside a read-only transaction. No cursor advance, no
// writes expected; used by audits and inspection commands that want the
// typed entity accessors.
func (s *Store) View(ctx context.Context, fn func(*Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("view: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{ctx: ctx, tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadCursor returns the persisted replay cursor, or ok=false if no event
// has ever been applied.
func (s *Store) LoadCursor(ctx context.Context) (Cursor, bool, error) {
	var c Cursor
	err := s.db.QueryRowContext(ctx, `
		SELECT block, log_index, tx_hash, seq FROM cursor WHERE id = 1
	`).Scan(&c.Block, &c.LogIndex, &c.TxHash, &c.Seq)
	if err == sql.ErrNoRows {
		return Cursor{}, false, nil
	}
	if err != nil {
		return Cursor{}, false, fmt.Errorf("load cursor: %w", err)
	}
	return c, true, nil
}
