// Package store provides SQLite-backed durable storage for derived
// entities.
//
// The store holds two tables:
//   - entities: one row per (kind, id), body as JSON TEXT
//   - cursor: the single-row replay cursor (block, log index, seq) of the
//     last applied event
//
// # Atomicity
//
// All mutation goes through Apply: one SQL transaction per event, covering
// every entity write the event's handler performs plus the cursor advance.
// A handler error rolls the whole event back, so a half-updated entity can
// never persist - this is what makes an aborted view call safe.
//
// # Idempotency
//
// SaveIfAbsent uses ON CONFLICT DO NOTHING so immutable audit rows are
// first-write-wins: replaying an event re-derives identical state instead
// of duplicating records.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//   - single-connection pool: SQLite allows one writer at a time, and the
//     pipeline is single-writer by design anyway
package store
