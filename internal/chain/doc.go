// Package chain defines the typed events the pipeline consumes and the
// collaborator interfaces it talks to.
//
// Events arrive already decoded: ABI binding and log extraction happen
// upstream, in whatever delivers events to the pipeline. What this package
// fixes is the shape of an event once decoded - its chain position (Meta)
// and its typed parameters - plus the two outward-facing collaborators:
//
//   - ContractReader: synchronous read-only view calls against a contract.
//     Calls return a value or an error; ErrReverted marks revert-style
//     failures that abort the current event without failing the pipeline.
//   - Tracker: runtime registration of dynamically created contract
//     instances (fixed-rate exchanges, dispensers) so that future events
//     from them are delivered too.
//
// Delivery ordering is the upstream collaborator's responsibility: events
// are presented in finalized, monotonically increasing (block, log index)
// order, one at a time.
package chain
