// Package engine implements the script sequencer.
//
// The engine runs an ordered list of script lines one command at a time.
// Each line is split into fields, field 0 selects a factory from a
// command.Registry, and the resulting command is driven through its
// lifecycle until it reports IsEnd, at which point the engine disposes it
// and moves on.
//
// ARCHITECTURE:
//
// Cooperative, single-threaded ticking:
// The host calls Tick once per time step. The engine never blocks, never
// starts goroutines and never sleeps. Time-based commands accumulate the
// host's per-tick delta themselves.
//
// Tick Processing Flow:
//  1. Update the active command
//  2. If End was requested or the command reports IsEnd, advance
//  3. Advancing disposes the old command, then builds and starts the next
//  4. A freshly started command that is already ended is advanced past
//     immediately, so runs of instantaneous commands finish in one tick
//  5. Reaching the end of the script fires the OnEnd listeners once
//
// Control transfer:
// JumpToIndex records a one-shot target that replaces the next "+1" advance.
// It is consumed by the first transition that uses it. End is a jump to
// Count combined with a forced completion of the active command, which still
// receives its final Update.
//
// INVARIANTS:
//   - At most one command is live; Dispose of the outgoing command always
//     precedes Start of the incoming one
//   - While Running, the active command is non-nil and CurrentIndex < Count
//   - OnEnd listeners fire exactly once per run
//   - Configuration and decode faults are terminal: the engine enters
//     StateFailed and every later Tick returns the same error
package engine
