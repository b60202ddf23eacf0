package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/seqctl/internal/commands"
)

const (
	// DefaultDelta is the tick length when a scenario does not set one.
	DefaultDelta = 1.0 / 60.0

	// DefaultMaxTicks bounds scenarios that never end.
	DefaultMaxTicks = 1000
)

// Scenario is one scripted sequencer run with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Separator overrides the field separator. Empty means "|".
	Separator string `yaml:"separator,omitempty"`

	// Delta is the simulated length of one tick in seconds.
	Delta float64 `yaml:"delta,omitempty"`

	// MaxTicks stops a run that has not ended. Zero means DefaultMaxTicks.
	MaxTicks int `yaml:"max_ticks,omitempty"`

	// Script lists the lines to run.
	Script []string `yaml:"script"`

	// Input lists the ticks (1-based) on which the input is pressed.
	Input []int `yaml:"input,omitempty"`

	// Control lists host calls made just before a tick.
	Control []ControlStep `yaml:"control,omitempty"`

	// Assertions validate the finished run.
	Assertions []Assertion `yaml:"assertions"`
}

// ControlStep is a host call scheduled before a tick. Exactly one of Jump,
// End and Restart is set.
type ControlStep struct {
	Tick    int  `yaml:"tick"`
	Jump    *int `yaml:"jump,omitempty"`
	End     bool `yaml:"end,omitempty"`
	Restart bool `yaml:"restart,omitempty"`
}

// Assertion validates part of a Result.
type Assertion struct {
	// Type selects the check; see the package documentation.
	Type string `yaml:"type"`

	// Expect is the scalar or list compared by ended, end_count,
	// final_index, ticks and messages.
	Expect any `yaml:"expect,omitempty"`

	// Kind, Command and Index select trace events. Empty or nil matches any.
	Kind    string `yaml:"kind,omitempty"`
	Command string `yaml:"command,omitempty"`
	Index   *int   `yaml:"index,omitempty"`

	// Count is the expected number of matches (trace_count).
	Count int `yaml:"count,omitempty"`

	// Events is the expected order (trace_order), each "kind [Command][@index]".
	Events []string `yaml:"events,omitempty"`

	// Object and Position are used by object_position.
	Object   string         `yaml:"object,omitempty"`
	Position *commands.Vec3 `yaml:"position,omitempty"`

	// Code is the expected error code (fault).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertEnded          = "ended"
	AssertEndCount       = "end_count"
	AssertFinalIndex     = "final_index"
	AssertTicks          = "ticks"
	AssertMessages       = "messages"
	AssertTraceContains  = "trace_contains"
	AssertTraceOrder     = "trace_order"
	AssertTraceCount     = "trace_count"
	AssertObjectPosition = "object_position"
	AssertFault          = "fault"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a scenario from YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by path.
func LoadScenarios(dir string) ([]*Scenario, []string, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, nil, fmt.Errorf("glob scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, paths, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Script) == 0 {
		return fmt.Errorf("script is required and must be non-empty")
	}

	if s.Delta < 0 {
		return fmt.Errorf("delta must be non-negative")
	}

	if s.MaxTicks < 0 {
		return fmt.Errorf("max_ticks must be non-negative")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, tick := range s.Input {
		if tick < 1 {
			return fmt.Errorf("input[%d]: tick must be >= 1", i)
		}
	}

	for i, step := range s.Control {
		if step.Tick < 1 {
			return fmt.Errorf("control[%d]: tick must be >= 1", i)
		}
		actions := 0
		if step.Jump != nil {
			actions++
		}
		if step.End {
			actions++
		}
		if step.Restart {
			actions++
		}
		if actions != 1 {
			return fmt.Errorf("control[%d]: exactly one of jump, end, restart is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEnded:
		if _, ok := a.Expect.(bool); !ok {
			return fmt.Errorf("assertions[%d]: expect must be a bool for ended", index)
		}
	case AssertEndCount, AssertFinalIndex, AssertTicks:
		if _, ok := a.Expect.(int); !ok {
			return fmt.Errorf("assertions[%d]: expect must be an integer for %s", index, a.Type)
		}
	case AssertMessages:
		if _, err := toStrings(a.Expect); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertTraceContains:
		if a.Kind == "" && a.Command == "" {
			return fmt.Errorf("assertions[%d]: kind or command is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for trace_order", index)
		}
		for _, ev := range a.Events {
			if _, err := parseEventPattern(ev); err != nil {
				return fmt.Errorf("assertions[%d]: %w", index, err)
			}
		}
	case AssertTraceCount:
		if a.Kind == "" && a.Command == "" {
			return fmt.Errorf("assertions[%d]: kind or command is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertObjectPosition:
		if a.Object == "" {
			return fmt.Errorf("assertions[%d]: object is required for object_position", index)
		}
		if a.Position == nil {
			return fmt.Errorf("assertions[%d]: position is required for object_position", index)
		}
	case AssertFault:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for fault", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// toStrings converts a decoded YAML sequence into strings.
func toStrings(v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expect must be a list of strings")
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expect[%d] must be a string, got %T", i, item)
		}
		out[i] = s
	}
	return out, nil
}
