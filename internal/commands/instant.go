package commands

import (
	"fmt"
	"log/slog"

	"github.com/roach88/seqctl/internal/args"
	"github.com/roach88/seqctl/internal/command"
)

type logCommand struct {
	command.Base
	message string
	sink    Sink
	logger  *slog.Logger
}

func newLog(env Env) command.Factory {
	return func(a *args.Arguments) (command.Command, error) {
		return &logCommand{message: a.Arg(1), sink: env.Sink, logger: env.Logger}, nil
	}
}

func (c *logCommand) Start() {
	c.logger.Info("script log", "message", c.message)
	c.sink.Emit(Event{Kind: EventLog, Message: c.message})
}

type createCommand struct {
	command.Base
	name string
	pos  Vec3
	sink Sink
}

func newCreate(env Env) command.Factory {
	return func(a *args.Arguments) (command.Command, error) {
		pos, err := vec3At(a, 2)
		if err != nil {
			return nil, err
		}
		return &createCommand{name: a.Arg(1), pos: pos, sink: env.Sink}, nil
	}
}

func (c *createCommand) Start() {
	c.sink.Emit(Event{Kind: EventCreate, Name: c.name, Position: c.pos})
}

type setPositionCommand struct {
	command.Base
	pos  Vec3
	sink Sink
}

func newSetPosition(env Env) command.Factory {
	return func(a *args.Arguments) (command.Command, error) {
		pos, err := vec3At(a, 1)
		if err != nil {
			return nil, err
		}
		return &setPositionCommand{pos: pos, sink: env.Sink}, nil
	}
}

func (c *setPositionCommand) Start() {
	c.sink.Emit(Event{Kind: EventSetPosition, Position: c.pos})
}

type jumpCommand struct {
	command.Base
	index   int
	control Control
	logger  *slog.Logger
}

func newJump(env Env) command.Factory {
	return func(a *args.Arguments) (command.Command, error) {
		index, err := a.Int(1)
		if err != nil {
			return nil, err
		}
		if index < 0 {
			return nil, fmt.Errorf("jump index %d is negative", index)
		}
		return &jumpCommand{index: index, control: env.Control, logger: env.Logger}, nil
	}
}

func (c *jumpCommand) Start() {
	if err := c.control.JumpToIndex(c.index); err != nil {
		c.logger.Warn("jump ignored", "index", c.index, "error", err)
	}
}

const labelName = "Label"

// labelCommand only marks a line for Goto and host searches.
type labelCommand struct {
	command.Base
}

func newLabel() command.Factory {
	return func(*args.Arguments) (command.Command, error) {
		return &labelCommand{}, nil
	}
}

type gotoCommand struct {
	command.Base
	tag     string
	control Control
	logger  *slog.Logger
}

func newGoto(env Env) command.Factory {
	return func(a *args.Arguments) (command.Command, error) {
		tag := a.Arg(1)
		if tag == "" {
			return nil, fmt.Errorf("goto requires a tag")
		}
		return &gotoCommand{tag: tag, control: env.Control, logger: env.Logger}, nil
	}
}

// Start jumps to the first Label line whose tag matches.
func (c *gotoCommand) Start() {
	for i := c.control.FindIndexOfCommand(0, labelName); i >= 0; i = c.control.FindIndexOfCommand(i+1, labelName) {
		if c.control.FindIndexOfTag(i, c.tag, 1) != i {
			continue
		}
		if err := c.control.JumpToIndex(i); err != nil {
			c.logger.Warn("goto ignored", "tag", c.tag, "error", err)
		}
		return
	}
	c.logger.Warn("goto target not found", "tag", c.tag)
}

type endCommand struct {
	command.Base
	control Control
}

func newEnd(env Env) command.Factory {
	return func(*args.Arguments) (command.Command, error) {
		return &endCommand{control: env.Control}, nil
	}
}

func (c *endCommand) Start() {
	c.control.End()
}

func vec3At(a *args.Arguments, first int) (Vec3, error) {
	var v Vec3
	var err error
	if v.X, err = a.Float(first); err != nil {
		return Vec3{}, err
	}
	if v.Y, err = a.Float(first + 1); err != nil {
		return Vec3{}, err
	}
	if v.Z, err = a.Float(first + 2); err != nil {
		return Vec3{}, err
	}
	return v, nil
}
