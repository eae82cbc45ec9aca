// Package engine runs the single-writer event pipeline.
//
// Events arrive through Enqueue from any goroutine and are applied strictly
// in arrival order by the one goroutine running Run. Each event is applied
// inside its own store transaction together with a cursor advance, so a
// crash at any point leaves the store at an event boundary and a restart
// resumes exactly where it left off. Events at or before the persisted
// cursor are skipped without dispatch, which makes re-delivery of an
// already-applied log a no-op.
package engine
