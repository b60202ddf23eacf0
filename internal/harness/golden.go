package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/seqctl/internal/engine"
)

// FormatTrace renders a run as stable text for golden comparison.
//
// Only deterministic fields are included. Fault details are left out of
// the trace lines because they embed wrapped library errors; the fault code
// is in the header.
func FormatTrace(name string, r *Result) []byte {
	var buf strings.Builder

	fmt.Fprintf(&buf, "scenario: %s\n", name)
	fmt.Fprintf(&buf, "ended: %t\n", r.Ended)
	fmt.Fprintf(&buf, "end_count: %d\n", r.EndCount)
	fmt.Fprintf(&buf, "final_index: %d\n", r.FinalIndex)
	fmt.Fprintf(&buf, "ticks: %d\n", r.Ticks)
	if r.Fault != "" {
		fmt.Fprintf(&buf, "fault: %s\n", r.Fault)
	}

	if len(r.Messages) > 0 {
		buf.WriteString("messages:\n")
		for _, msg := range r.Messages {
			fmt.Fprintf(&buf, "  %q\n", msg)
		}
	}

	if len(r.Objects) > 0 {
		buf.WriteString("objects:\n")
		for _, obj := range r.Objects {
			fmt.Fprintf(&buf, "  %s (%g, %g, %g)\n", obj.Name, obj.Position.X, obj.Position.Y, obj.Position.Z)
		}
	}

	buf.WriteString("trace:\n")
	for _, ev := range r.Trace {
		fmt.Fprintf(&buf, "  %s\n", FormatEvent(ev))
	}

	return []byte(buf.String())
}

// FormatEvent renders one event as "seq frame kind index [command]".
func FormatEvent(ev engine.TraceEvent) string {
	s := fmt.Sprintf("%d f%d %s #%d", ev.Seq, ev.Frame, ev.Kind, ev.Index)
	if ev.Command != "" {
		s += " " + ev.Command
	}
	return s
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, FormatTrace(scenarioName, result))
}
