// Package handlers maps each event kind onto the accounting and registry
// primitives. Every handler is a thin orchestration: read event fields,
// optionally issue view calls through the contract reader, mutate entities
// through the per-event unit of work.
//
// Failure policy: returning an error aborts the event - the caller rolls
// the unit of work back, so a handler that fails halfway (for example on a
// reverted view call after fees were already assigned in memory) persists
// nothing. Handlers never retry; retry belongs upstream.
package handlers
