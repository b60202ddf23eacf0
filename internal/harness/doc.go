// Package harness runs scripted sequencer scenarios and checks their traces.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: two_waits
//	description: "Back-to-back waits advance on the tick their time runs out"
//	delta: 0.5          # seconds per tick
//	max_ticks: 20       # safety stop, default 1000
//	separator: "|"      # optional
//	script:
//	  - Wait|1
//	  - Wait|1
//	input: [3]          # ticks on which the input reports a press
//	control:            # host calls made before the given tick
//	  - tick: 2
//	    jump: 1
//	assertions:
//	  - type: final_index
//	    expect: 2
//	  - type: trace_order
//	    events: ["start Wait@0", "start Wait@1", "end"]
//
// # Assertion Types
//
//   - ended: the run reached the end of its script (expect: true|false)
//   - end_count: number of end notifications (expect: N)
//   - final_index: CurrentIndex after the run (expect: N)
//   - ticks: number of ticks driven (expect: N)
//   - messages: Log output in order (expect: [..])
//   - trace_contains: an event with kind/command/index exists
//   - trace_order: events appear in the given order (gaps allowed)
//   - trace_count: exactly count events match kind/command/index
//   - object_position: a scene object ends at position
//   - fault: the run failed with the given error code
//
// # Deterministic Testing
//
// Every run uses a fixed-step clock, a fresh scene and a discard logger, so
// the same scenario always produces the same trace. RunWithGolden compares
// that trace against testdata/golden/<name>.golden.
package harness
