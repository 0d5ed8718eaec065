// Package store keeps the step log of scripted genome runs in an in-memory
// SQLite database.
//
// The log has two tables:
//   - runs: one row per (scenario, representation) execution
//   - steps: one row per operation, with its arguments, outcome, and the
//     rendered genome and active ids afterwards
//
// Writes are idempotent: records are keyed by content-addressed ids (see
// internal/trace) and duplicates are ignored. Reads order by seq ASC, id ASC
// so results are identical across executions.
//
// The database lives only as long as the Store. Nothing is written to disk.
package store
