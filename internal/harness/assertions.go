package harness

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/roach88/seqctl/internal/engine"
)

// positionTolerance absorbs float error from repeated lerp steps.
const positionTolerance = 1e-9

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string              // Assertion type for categorization
	Expected string              // Human-readable expected outcome
	Actual   string              // Human-readable actual outcome
	Trace    []engine.TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  %s\n", FormatEvent(ev))
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against r and returns the
// failure messages.
func EvaluateAssertions(r *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(r, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertEnded:
		return assertScalar(a.Type, a.Expect, r.Ended)
	case AssertEndCount:
		return assertScalar(a.Type, a.Expect, r.EndCount)
	case AssertFinalIndex:
		return assertScalar(a.Type, a.Expect, r.FinalIndex)
	case AssertTicks:
		return assertScalar(a.Type, a.Expect, r.Ticks)
	case AssertMessages:
		return assertMessages(r, a)
	case AssertTraceContains:
		return assertTraceContains(r.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(r.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(r.Trace, a)
	case AssertObjectPosition:
		return assertObjectPosition(r, a)
	case AssertFault:
		return assertFault(r, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertScalar(kind string, expected, actual any) error {
	if reflect.DeepEqual(expected, actual) {
		return nil
	}
	return &AssertionError{
		Type:     kind,
		Expected: fmt.Sprintf("%v", expected),
		Actual:   fmt.Sprintf("%v", actual),
	}
}

func assertMessages(r *Result, a Assertion) error {
	expected, err := toStrings(a.Expect)
	if err != nil {
		return err
	}
	actual := r.Messages
	if actual == nil {
		actual = []string{}
	}
	if reflect.DeepEqual(expected, actual) {
		return nil
	}
	return &AssertionError{
		Type:     AssertMessages,
		Expected: fmt.Sprintf("%q", expected),
		Actual:   fmt.Sprintf("%q", actual),
	}
}

// eventPattern selects trace events. Empty fields match anything.
type eventPattern struct {
	Kind    string
	Command string
	Index   *int
}

func (p eventPattern) matches(ev engine.TraceEvent) bool {
	if p.Kind != "" && string(ev.Kind) != p.Kind {
		return false
	}
	if p.Command != "" && ev.Command != p.Command {
		return false
	}
	if p.Index != nil && ev.Index != *p.Index {
		return false
	}
	return true
}

func (p eventPattern) String() string {
	s := p.Kind
	if p.Command != "" || p.Index != nil {
		s += " " + p.Command
	}
	if p.Index != nil {
		s += "@" + strconv.Itoa(*p.Index)
	}
	return s
}

// parseEventPattern parses "kind", "kind Command" or "kind Command@index".
// The command may be omitted: "kind @index".
func parseEventPattern(s string) (eventPattern, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return eventPattern{}, fmt.Errorf("invalid event pattern %q", s)
	}

	p := eventPattern{Kind: fields[0]}
	if len(fields) == 1 {
		return p, nil
	}

	cmd, idx, hasIndex := strings.Cut(fields[1], "@")
	p.Command = cmd
	if hasIndex {
		n, err := strconv.Atoi(idx)
		if err != nil {
			return eventPattern{}, fmt.Errorf("invalid index in event pattern %q", s)
		}
		p.Index = &n
	}
	return p, nil
}

func patternOf(a Assertion) eventPattern {
	return eventPattern{Kind: a.Kind, Command: a.Command, Index: a.Index}
}

// assertTraceContains checks that at least one event matches.
func assertTraceContains(trace []engine.TraceEvent, a Assertion) error {
	p := patternOf(a)
	for _, ev := range trace {
		if p.matches(ev) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("event %q", p),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the patterns match events in order.
// Events don't need to be consecutive (intervening events are allowed).
func assertTraceOrder(trace []engine.TraceEvent, a Assertion) error {
	pos := 0
	for _, raw := range a.Events {
		p, err := parseEventPattern(raw)
		if err != nil {
			return err
		}

		found := false
		for pos < len(trace) {
			ev := trace[pos]
			pos++
			if p.matches(ev) {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("events in order: %q", a.Events),
				Actual:   fmt.Sprintf("no %q after the previous match", raw),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks the number of matching events.
func assertTraceCount(trace []engine.TraceEvent, a Assertion) error {
	p := patternOf(a)
	count := 0
	for _, ev := range trace {
		if p.matches(ev) {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %q", a.Count, p),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

func assertObjectPosition(r *Result, a Assertion) error {
	obj, ok := r.Object(a.Object)
	if !ok {
		return &AssertionError{
			Type:     AssertObjectPosition,
			Expected: fmt.Sprintf("object %q", a.Object),
			Actual:   "object not in scene",
		}
	}

	want := *a.Position
	got := obj.Position
	if math.Abs(want.X-got.X) > positionTolerance ||
		math.Abs(want.Y-got.Y) > positionTolerance ||
		math.Abs(want.Z-got.Z) > positionTolerance {
		return &AssertionError{
			Type:     AssertObjectPosition,
			Expected: fmt.Sprintf("%s at (%g, %g, %g)", a.Object, want.X, want.Y, want.Z),
			Actual:   fmt.Sprintf("(%g, %g, %g)", got.X, got.Y, got.Z),
		}
	}
	return nil
}

func assertFault(r *Result, a Assertion) error {
	if r.Fault == a.Code {
		return nil
	}
	actual := r.Fault
	if actual == "" {
		actual = "no fault"
	}
	return &AssertionError{
		Type:     AssertFault,
		Expected: a.Code,
		Actual:   actual,
	}
}
