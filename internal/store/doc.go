// Package store provides a SQLite-backed journal of sequencer runs.
//
// The journal is append-only:
//   - Runs: one row per script execution (source, line count, outcome)
//   - Events: the engine trace of a run, keyed by (run_id, seq)
//
// Script lines themselves are never stored; a run records only where its
// script came from and how many lines it had.
//
// # Ordering
//
//   - Events are ordered by seq, the engine's logical clock, never by
//     wall time, so a journal reads back identically to the live trace.
//   - Run IDs are UUIDv7, so ordering runs by id orders them by start time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
