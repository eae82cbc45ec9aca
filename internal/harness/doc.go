// Package harness runs YAML-defined replay scenarios end to end: events go
// through the real pipeline into a real SQLite store, final entity state is
// checked against the scenario's assertions, and the full entity dump can
// be compared against a golden file.
package harness
