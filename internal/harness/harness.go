package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/seqctl/internal/command"
	"github.com/roach88/seqctl/internal/commands"
	"github.com/roach88/seqctl/internal/engine"
	"github.com/roach88/seqctl/internal/scene"
	"github.com/roach88/seqctl/internal/testutil"
)

// Harness drives one scenario with a fixed-step clock and scripted input.
type Harness struct {
	scenario *Scenario
	engine   *engine.Engine
	scene    *scene.Scene
	clock    *testutil.StepClock
	logger   *slog.Logger
	result   *Result

	tick    int
	pressed map[int]bool
	control map[int][]ControlStep
}

// Run executes a scenario and returns the result.
//
// An error is returned only when the harness itself cannot be assembled.
// Sequencer faults are recorded in Result.Fault so scenarios can assert on
// them.
//
// Execution flow:
// 1. Register the built-in commands against a fresh scene
// 2. Start the script
// 3. Tick until the run ends, fails or reaches max_ticks
// 4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	h, err := newHarness(scenario)
	if err != nil {
		return nil, err
	}

	h.execute()

	for _, errMsg := range EvaluateAssertions(h.result, scenario.Assertions) {
		h.result.AddError(errMsg)
	}
	return h.result, nil
}

func newHarness(scenario *Scenario) (*Harness, error) {
	if scenario == nil {
		return nil, errors.New("nil scenario")
	}

	delta := scenario.Delta
	if delta == 0 {
		delta = DefaultDelta
	}

	h := &Harness{
		scenario: scenario,
		clock:    testutil.NewStepClock(time.Duration(delta * float64(time.Second))),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		result:   NewResult(),
		pressed:  make(map[int]bool),
		control:  make(map[int][]ControlStep),
	}
	h.scene = scene.New(h.logger)
	for _, tick := range scenario.Input {
		h.pressed[tick] = true
	}
	for _, step := range scenario.Control {
		h.control[step.Tick] = append(h.control[step.Tick], step)
	}

	reg := command.NewRegistry()
	h.engine = engine.New(reg,
		engine.WithSeparator(scenario.Separator),
		engine.WithLogger(h.logger),
		engine.WithObserver(engine.ObserverFunc(func(ev engine.TraceEvent) {
			h.result.Trace = append(h.result.Trace, ev)
		})),
	)
	h.engine.OnEnd(func() { h.result.EndCount++ })

	err := commands.Register(reg, commands.Env{
		Sink:    h.scene,
		Clock:   h.clock,
		Input:   commands.InputFunc(func() bool { return h.pressed[h.tick] }),
		Control: h.engine,
		Logger:  h.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}
	return h, nil
}

// execute runs the scenario to completion and fills in the result.
func (h *Harness) execute() {
	maxTicks := h.scenario.MaxTicks
	if maxTicks == 0 {
		maxTicks = DefaultMaxTicks
	}

	err := h.engine.Start(h.scenario.Script...)
	for err == nil && h.engine.State() == engine.StateRunning && h.tick < maxTicks {
		h.tick++
		if err = h.applyControl(); err != nil {
			break
		}
		h.clock.Advance()
		err = h.engine.Tick()
	}

	r := h.result
	r.Ticks = h.tick
	r.Ended = h.engine.State() == engine.StateEnded
	r.FinalIndex = h.engine.CurrentIndex()
	r.Messages = h.scene.Messages()
	r.Objects = h.scene.Objects()
	if err != nil {
		r.FaultError = err.Error()
		var re *engine.RuntimeError
		if errors.As(err, &re) {
			r.Fault = string(re.Code)
		} else {
			r.Fault = "UNKNOWN"
		}
	}
}

// applyControl performs the host calls scheduled for the current tick.
func (h *Harness) applyControl() error {
	for _, step := range h.control[h.tick] {
		switch {
		case step.Jump != nil:
			if err := h.engine.JumpToIndex(*step.Jump); err != nil {
				h.logger.Warn("scenario jump rejected", "tick", h.tick, "error", err)
			}
		case step.End:
			h.engine.End()
		case step.Restart:
			if err := h.engine.Restart(); err != nil {
				return err
			}
		}
	}
	return nil
}
