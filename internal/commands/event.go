package commands

// EventKind identifies a side effect reported by a command.
type EventKind string

const (
	EventLog         EventKind = "log"
	EventCreate      EventKind = "create"
	EventSetPosition EventKind = "set_position"
	EventMoveStart   EventKind = "move_start"
	EventMove        EventKind = "move"
	EventMoveEnd     EventKind = "move_end"
)

// Vec3 is a point in scene space.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Lerp interpolates between a and b; t is clamped to [0, 1].
func Lerp(a, b Vec3, t float64) Vec3 {
	t = clamp01(t)
	return Vec3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// Event is a side effect reported to the host.
type Event struct {
	Kind     EventKind
	Name     string  // EventCreate
	Message  string  // EventLog
	Position Vec3    // EventCreate, EventSetPosition, EventMoveStart
	Progress float64 // EventMove, in [0, 1]
}

// Sink receives command events.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev Event)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) { f(ev) }

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(Event) {})

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
