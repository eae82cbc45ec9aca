package entity

import (
	"encoding/json"
	"fmt"
)

// Bucket is the untyped keyed store an entity reads and writes through.
// The SQLite store's per-event transaction implements it; tests can supply
// an in-memory map.
type Bucket interface {
	// Load returns the stored body for (kind, id), or ok=false if absent.
	Load(kind, id string) (body []byte, ok bool, err error)

	// Save upserts the body for (kind, id).
	Save(kind, id string, body []byte) error

	// SaveIfAbsent writes the body only if (kind, id) does not exist yet.
	// Reports whether the write happened; an existing row is not an error.
	SaveIfAbsent(kind, id string, body []byte) (inserted bool, err error)
}

// Load fetches and decodes an entity of type T by id. Absence is not an
// error: ok=false means the caller should create the entity with defaults.
func Load[T Entity](b Bucket, id string) (T, bool, error) {
	var e T
	raw, ok, err := b.Load(string(e.EntityKind()), id)
	if err != nil || !ok {
		return e, false, err
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, false, fmt.Errorf("decode %s %q: %w", e.EntityKind(), id, err)
	}
	return e, true, nil
}

// Save upserts an entity.
func Save[T Entity](b Bucket, e T) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s %q: %w", e.EntityKind(), e.EntityID(), err)
	}
	if err := b.Save(string(e.EntityKind()), e.EntityID(), raw); err != nil {
		return fmt.Errorf("save %s %q: %w", e.EntityKind(), e.EntityID(), err)
	}
	return nil
}

// SaveIfAbsent writes an entity only if no row exists for its key yet.
// Used for immutable audit records: the first write wins and replays are
// silently absorbed.
func SaveIfAbsent[T Entity](b Bucket, e T) (bool, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return false, fmt.Errorf("encode %s %q: %w", e.EntityKind(), e.EntityID(), err)
	}
	inserted, err := b.SaveIfAbsent(string(e.EntityKind()), e.EntityID(), raw)
	if err != nil {
		return false, fmt.Errorf("save %s %q: %w", e.EntityKind(), e.EntityID(), err)
	}
	return inserted, nil
}
