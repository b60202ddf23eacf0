// Package command defines the lifecycle every script command implements and
// the registry that maps command names to constructors.
//
// Lifecycle, as driven by the sequencer:
//
//	factory(args) -> Start() -> [Update() ...] -> Dispose()
//
// IsEnd is polled after Start and after every Update. Start and Dispose are
// each called exactly once, and Dispose of one command always precedes Start
// of the next. Commands are never reused.
//
// Embed Base to inherit no-op Start/Update/Dispose and an IsEnd that reports
// true, which makes a command instantaneous unless it overrides IsEnd.
package command
