package commands

import (
	"log/slog"
	"time"

	"github.com/roach88/seqctl/internal/args"
	"github.com/roach88/seqctl/internal/command"
)

// moveCommand interpolates the current object toward a target.
type moveCommand struct {
	command.Base
	target   Vec3
	duration time.Duration
	elapsed  time.Duration
	clock    Clock
	sink     Sink
}

func newMove(env Env) command.Factory {
	return func(a *args.Arguments) (command.Command, error) {
		target, err := vec3At(a, 1)
		if err != nil {
			return nil, err
		}
		d, err := a.Duration(4)
		if err != nil {
			return nil, err
		}
		return &moveCommand{target: target, duration: d, clock: env.Clock, sink: env.Sink}, nil
	}
}

func (c *moveCommand) IsEnd() bool {
	return c.elapsed >= c.duration
}

func (c *moveCommand) Start() {
	c.sink.Emit(Event{Kind: EventMoveStart, Position: c.target})
}

func (c *moveCommand) Update() {
	c.elapsed += c.clock.Delta()
	c.sink.Emit(Event{Kind: EventMove, Progress: c.progress()})
}

func (c *moveCommand) Dispose() {
	c.sink.Emit(Event{Kind: EventMoveEnd, Position: c.target})
}

func (c *moveCommand) progress() float64 {
	if c.duration <= 0 {
		return 1
	}
	return clamp01(float64(c.elapsed) / float64(c.duration))
}

type waitCommand struct {
	command.Base
	duration time.Duration
	elapsed  time.Duration
	clock    Clock
	logger   *slog.Logger
}

func newWait(env Env) command.Factory {
	return func(a *args.Arguments) (command.Command, error) {
		d, err := a.Duration(1)
		if err != nil {
			return nil, err
		}
		return &waitCommand{duration: d, clock: env.Clock, logger: env.Logger}, nil
	}
}

func (c *waitCommand) IsEnd() bool {
	return c.elapsed >= c.duration
}

func (c *waitCommand) Start() {
	c.logger.Debug("wait started", "duration", c.duration)
}

func (c *waitCommand) Update() {
	c.elapsed += c.clock.Delta()
}

func (c *waitCommand) Dispose() {
	c.logger.Debug("wait finished", "elapsed", c.elapsed)
}

// clickCommand waits for an input press. The press is sampled in Update so
// IsEnd stays a pure query.
type clickCommand struct {
	command.Base
	pressed bool
	input   Input
	logger  *slog.Logger
}

func newClick(env Env) command.Factory {
	return func(*args.Arguments) (command.Command, error) {
		return &clickCommand{input: env.Input, logger: env.Logger}, nil
	}
}

func (c *clickCommand) IsEnd() bool {
	return c.pressed
}

// Start samples the input once, so a press that is already pending lets a
// Click reached mid-chain finish on the tick it starts.
func (c *clickCommand) Start() {
	c.logger.Debug("waiting for input")
	c.poll()
}

func (c *clickCommand) Update() {
	c.poll()
}

func (c *clickCommand) poll() {
	if !c.pressed {
		c.pressed = c.input.Pressed()
	}
}

func (c *clickCommand) Dispose() {
	c.logger.Debug("input received")
}
