package commands

import (
	"errors"
	"log/slog"
	"time"

	"github.com/roach88/seqctl/internal/command"
)

// Clock supplies the time elapsed during the current tick.
type Clock interface {
	Delta() time.Duration
}

// Input reports whether the user pressed the input during the current tick.
type Input interface {
	Pressed() bool
}

// InputFunc adapts a function to Input.
type InputFunc func() bool

// Pressed calls f.
func (f InputFunc) Pressed() bool { return f() }

// Control is the subset of the sequencer that commands may drive.
type Control interface {
	JumpToIndex(index int) error
	End()
	FindIndexOfCommand(start int, name string) int
	FindIndexOfTag(start int, tag string, offset int) int
}

// Env carries the host dependencies handed to every built-in command.
type Env struct {
	Sink    Sink
	Clock   Clock
	Input   Input
	Control Control
	Logger  *slog.Logger
}

func (env Env) withDefaults() (Env, error) {
	if env.Clock == nil {
		return env, errors.New("commands: env.Clock is required")
	}
	if env.Control == nil {
		return env, errors.New("commands: env.Control is required")
	}
	if env.Sink == nil {
		env.Sink = Discard
	}
	if env.Input == nil {
		env.Input = InputFunc(func() bool { return false })
	}
	if env.Logger == nil {
		env.Logger = slog.Default()
	}
	return env, nil
}

// Register adds every built-in command to reg.
func Register(reg *command.Registry, env Env) error {
	env, err := env.withDefaults()
	if err != nil {
		return err
	}

	table := []struct {
		name    string
		factory command.Factory
	}{
		{"Log", newLog(env)},
		{"Create", newCreate(env)},
		{"SetPosition", newSetPosition(env)},
		{"Move", newMove(env)},
		{"Wait", newWait(env)},
		{"Click", newClick(env)},
		{"Jump", newJump(env)},
		{labelName, newLabel()},
		{"Goto", newGoto(env)},
		{"End", newEnd(env)},
	}
	for _, entry := range table {
		if err := reg.Register(entry.name, entry.factory); err != nil {
			return err
		}
	}
	return nil
}
