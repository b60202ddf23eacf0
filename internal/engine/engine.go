package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/seqctl/internal/args"
	"github.com/roach88/seqctl/internal/command"
	"github.com/roach88/seqctl/internal/script"
)

// State is the sequencer's run state.
type State int

const (
	// StateNotStarted is the state before Start and after Clear.
	StateNotStarted State = iota
	// StateRunning means a command is active.
	StateRunning
	// StateEnded means CurrentIndex == Count. Terminal until Restart.
	StateEnded
	// StateFailed means a fault aborted the run. Terminal until Restart.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateEnded:
		return "ended"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// noJump marks the absence of a pending jump.
const noJump = -1

// Engine sequences script lines through the command lifecycle.
//
// Engine is not safe for concurrent use: Start, Tick, JumpToIndex and End
// must all be called from the goroutine that drives the script. Commands may
// call JumpToIndex and End from inside their own lifecycle methods.
type Engine struct {
	registry *command.Registry
	script   *script.List

	current  int
	jump     int
	forceEnd bool

	active     command.Command
	activeName string

	state State
	err   error

	endListeners []func()

	clock    *Clock
	frame    int64
	observer Observer
	logger   *slog.Logger
	maxChain int
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeparator sets the field separator for script lines.
// An empty separator keeps the default "|".
func WithSeparator(sep string) Option {
	return func(e *Engine) {
		e.script.SetSeparator(sep)
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver attaches a trace observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithClock sets the logical clock used to stamp trace events.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithMaxChainSteps limits the transitions a single Tick may make.
//
// Default: DefaultMaxChainSteps. A non-positive value disables the limit.
func WithMaxChainSteps(n int) Option {
	return func(e *Engine) {
		e.maxChain = n
	}
}

// New creates an Engine that builds commands from reg.
// The registry is borrowed and must not change while a script runs.
func New(reg *command.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		script:   script.NewList(),
		jump:     noJump,
		clock:    NewClock(),
		logger:   slog.Default(),
		maxChain: DefaultMaxChainSteps,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start installs lines as the script and restarts from the first line.
func (e *Engine) Start(lines ...string) error {
	e.script.Set(lines)
	return e.Restart()
}

// StartList installs a copy of l's lines as the script and restarts.
// The engine keeps its own separator.
func (e *Engine) StartList(l *script.List) error {
	e.script.SetList(l)
	return e.Restart()
}

// Restart runs the installed script again from index 0.
//
// A command still active from a previous run is disposed first. Pending
// jumps and forced ends are discarded.
func (e *Engine) Restart() error {
	if e.active != nil {
		e.disposeActive()
	}

	e.current = 0
	e.jump = noJump
	e.forceEnd = false
	e.err = nil
	e.frame = 0

	if e.script.Count() == 0 {
		return e.fail(NewEmptyScriptError())
	}

	e.state = StateRunning
	e.logger.Info("script started", "lines", e.script.Count())

	if err := e.enter(0); err != nil {
		return e.fail(err)
	}
	return nil
}

// Tick advances the script by one time step.
//
// It updates the active command and, if the command has ended or End was
// requested, moves to the next line (or the pending jump target). Tick is a
// no-op once the script has ended, and returns the original fault once the
// run has failed.
func (e *Engine) Tick() error {
	switch e.state {
	case StateNotStarted:
		return NewNotStartedError()
	case StateFailed:
		return e.err
	case StateEnded:
		return nil
	}

	e.frame++
	e.emit(EventUpdate, e.current, e.activeName, "")
	e.active.Update()

	if e.forceEnd || e.active.IsEnd() {
		e.forceEnd = false
		if err := e.advance(); err != nil {
			return e.fail(err)
		}
		if e.jump != noJump && e.current == e.jump {
			e.jump = noJump
		}
	}

	if e.current >= e.script.Count() {
		e.finish()
	}
	return nil
}

// advance moves past the active command, chaining through commands that are
// already ended after Start. A pending jump replaces the next +1 step. The
// jump stays pending while chaining, so the chain stops on the jump target
// even when that line is instant; Tick clears it once it has been reached.
func (e *Engine) advance() error {
	quota := newChainQuota(e.maxChain)
	count := e.script.Count()

	for {
		target := e.current + 1
		if e.jump != noJump {
			target = e.jump
		}
		if target > count {
			target = count
		}
		if target == e.current {
			return nil
		}
		if err := quota.Check(target); err != nil {
			return err
		}

		e.disposeActive()
		e.current = target
		if e.current >= count {
			return nil
		}

		if err := e.enter(e.current); err != nil {
			return err
		}
		if !e.active.IsEnd() {
			return nil
		}
	}
}

// enter builds and starts the command at index.
func (e *Engine) enter(index int) error {
	line, err := e.script.At(index)
	if err != nil {
		return &RuntimeError{Code: ErrCodeIndexOutOfRange, Message: "script index out of range", Index: index, Err: err}
	}

	a := args.New(e.script.Split(line)...)
	cmd, err := e.registry.New(a)
	if err != nil {
		return classifyBuildError(index, line, err)
	}

	e.active = cmd
	e.activeName = a.Name()
	e.emit(EventStart, index, e.activeName, "")
	e.logger.Debug("command started", "index", index, "command", e.activeName, "frame", e.frame)

	cmd.Start()
	return nil
}

// disposeActive disposes and releases the active command.
func (e *Engine) disposeActive() {
	e.emit(EventDispose, e.current, e.activeName, "")
	e.logger.Debug("command disposed", "index", e.current, "command", e.activeName, "frame", e.frame)

	e.active.Dispose()
	e.active = nil
	e.activeName = ""
}

// finish marks the run ended and notifies listeners.
func (e *Engine) finish() {
	e.state = StateEnded
	e.emit(EventEnd, e.current, "", "")
	e.logger.Info("script ended", "frames", e.frame)

	listeners := make([]func(), len(e.endListeners))
	copy(listeners, e.endListeners)
	for _, fn := range listeners {
		fn()
	}
}

// fail aborts the run with err.
func (e *Engine) fail(err error) error {
	e.state = StateFailed
	e.err = err
	e.emit(EventFault, e.current, e.activeName, err.Error())
	e.logger.Error("script failed", "index", e.current, "error", err)
	return err
}

func (e *Engine) emit(kind EventKind, index int, name, detail string) {
	if e.observer == nil {
		return
	}
	e.observer.Observe(TraceEvent{
		Seq:     e.clock.Next(),
		Frame:   e.frame,
		Kind:    kind,
		Index:   index,
		Command: name,
		Detail:  detail,
	})
}

// classifyBuildError maps a registry failure onto a RuntimeError code.
func classifyBuildError(index int, line string, err error) *RuntimeError {
	re := &RuntimeError{Index: index, Line: line, Err: err}
	switch {
	case errors.Is(err, command.ErrUnknownCommand):
		re.Code = ErrCodeUnknownCommand
		re.Message = "command is not registered"
	case args.IsDecodeError(err):
		re.Code = ErrCodeDecodeFailed
		re.Message = "malformed argument"
	default:
		re.Code = ErrCodeConstructFailed
		re.Message = "command rejected its arguments"
	}
	return re
}

// JumpToIndex makes the next transition go to index instead of the next line.
//
// The jump takes effect when the active command completes (naturally or via
// End), not immediately. Calling it again before then replaces the target.
// index may equal Count, which ends the script at the next completion.
func (e *Engine) JumpToIndex(index int) error {
	if index < 0 || index > e.script.Count() {
		return NewIndexError(index, e.script.Count())
	}
	e.jump = index
	return nil
}

// End forces the run to finish at the next Tick.
//
// The active command still receives that Tick's Update and is then disposed
// regardless of its own IsEnd.
func (e *Engine) End() {
	e.jump = e.script.Count()
	e.forceEnd = true
}

// Clear disposes any active command, empties the script and returns the
// engine to StateNotStarted. End listeners are kept.
func (e *Engine) Clear() {
	if e.active != nil {
		e.disposeActive()
	}
	e.script.Clear()
	e.current = 0
	e.jump = noJump
	e.forceEnd = false
	e.err = nil
	e.frame = 0
	e.state = StateNotStarted
}

// OnEnd registers fn to be called when a run reaches the end of its script.
func (e *Engine) OnEnd(fn func()) {
	if fn != nil {
		e.endListeners = append(e.endListeners, fn)
	}
}

// Dispose detaches all end listeners. It does not dispose an active command.
func (e *Engine) Dispose() {
	e.endListeners = nil
}

// CurrentIndex returns the index of the active line, or Count once ended.
func (e *Engine) CurrentIndex() int {
	return e.current
}

// Count returns the number of script lines.
func (e *Engine) Count() int {
	return e.script.Count()
}

// State returns the run state.
func (e *Engine) State() State {
	return e.state
}

// Err returns the fault that aborted the run, if any.
func (e *Engine) Err() error {
	return e.err
}

// Frame returns the number of Ticks processed since the last restart.
func (e *Engine) Frame() int64 {
	return e.frame
}

// PendingJump returns the pending jump target and whether one is set.
func (e *Engine) PendingJump() (int, bool) {
	return e.jump, e.jump != noJump
}

// ActiveCommand returns the name of the active command, or "".
func (e *Engine) ActiveCommand() string {
	return e.activeName
}

// Separator returns the field separator.
func (e *Engine) Separator() string {
	return e.script.Separator()
}

// SetSeparator changes the field separator for lines built after the call.
func (e *Engine) SetSeparator(sep string) {
	e.script.SetSeparator(sep)
}

// Line returns the raw script line at index.
func (e *Engine) Line(index int) (string, error) {
	return e.script.At(index)
}
