package harness

import (
	"github.com/roach88/seqctl/internal/engine"
	"github.com/roach88/seqctl/internal/scene"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Trace is every engine event in seq order.
	Trace []engine.TraceEvent `json:"trace"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	Ended      bool           `json:"ended"`
	EndCount   int            `json:"end_count"`
	FinalIndex int            `json:"final_index"`
	Ticks      int            `json:"ticks"`
	Fault      string         `json:"fault,omitempty"`
	FaultError string         `json:"fault_error,omitempty"`
	Messages   []string       `json:"messages,omitempty"`
	Objects    []scene.Object `json:"objects,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []engine.TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Object returns the named scene object from the finished run.
func (r *Result) Object(name string) (scene.Object, bool) {
	for _, obj := range r.Objects {
		if obj.Name == name {
			return obj, true
		}
	}
	return scene.Object{}, false
}
