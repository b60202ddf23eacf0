package engine

// EventKind identifies a lifecycle transition in the trace.
type EventKind string

const (
	EventStart   EventKind = "start"
	EventUpdate  EventKind = "update"
	EventDispose EventKind = "dispose"
	EventEnd     EventKind = "end"
	EventFault   EventKind = "fault"
)

// TraceEvent describes one lifecycle transition.
type TraceEvent struct {
	Seq     int64     `json:"seq"`
	Frame   int64     `json:"frame"`
	Kind    EventKind `json:"kind"`
	Index   int       `json:"index"`
	Command string    `json:"command,omitempty"`
	Detail  string    `json:"detail,omitempty"`
}

// Observer receives trace events synchronously from the goroutine driving
// the engine. Implementations must not call back into the engine.
type Observer interface {
	Observe(ev TraceEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev TraceEvent)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev TraceEvent) {
	f(ev)
}

// MultiObserver fans events out to several observers in order.
type MultiObserver []Observer

// Observe forwards ev to every observer.
func (m MultiObserver) Observe(ev TraceEvent) {
	for _, o := range m {
		o.Observe(ev)
	}
}
