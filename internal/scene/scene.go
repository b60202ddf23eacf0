// Package scene is a minimal host world that applies command events.
//
// Objects are created by name; SetPosition and Move act on the most
// recently created object, matching how scripts are usually written:
//
//	Create|cube|0|1|2
//	SetPosition|1|2|3
//	Move|-1|0|1|1
package scene

import (
	"log/slog"

	"github.com/roach88/seqctl/internal/commands"
)

// Object is a named thing in the scene.
type Object struct {
	Name     string        `json:"name"`
	Position commands.Vec3 `json:"position"`
}

// Scene tracks objects and records every event it receives.
// It implements commands.Sink.
type Scene struct {
	objects map[string]*Object
	order   []string
	current *Object

	moveFrom commands.Vec3
	moveTo   commands.Vec3

	events []commands.Event
	logger *slog.Logger
}

// New creates an empty scene. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Scene {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scene{
		objects: make(map[string]*Object),
		logger:  logger,
	}
}

// Emit applies ev to the scene.
func (s *Scene) Emit(ev commands.Event) {
	s.events = append(s.events, ev)

	switch ev.Kind {
	case commands.EventCreate:
		obj, ok := s.objects[ev.Name]
		if !ok {
			obj = &Object{Name: ev.Name}
			s.objects[ev.Name] = obj
			s.order = append(s.order, ev.Name)
		}
		obj.Position = ev.Position
		s.current = obj
		s.logger.Debug("object created", "name", ev.Name, "position", ev.Position)

	case commands.EventSetPosition:
		if s.requireCurrent(ev) {
			s.current.Position = ev.Position
		}

	case commands.EventMoveStart:
		if s.requireCurrent(ev) {
			s.moveFrom = s.current.Position
			s.moveTo = ev.Position
		}

	case commands.EventMove:
		if s.current != nil {
			s.current.Position = commands.Lerp(s.moveFrom, s.moveTo, ev.Progress)
		}

	case commands.EventMoveEnd:
		if s.current != nil {
			s.current.Position = s.moveTo
		}
	}
}

func (s *Scene) requireCurrent(ev commands.Event) bool {
	if s.current == nil {
		s.logger.Warn("no object to apply event to", "event", ev.Kind)
		return false
	}
	return true
}

// Object returns a copy of the named object.
func (s *Scene) Object(name string) (Object, bool) {
	obj, ok := s.objects[name]
	if !ok {
		return Object{}, false
	}
	return *obj, true
}

// Objects returns copies of all objects in creation order.
func (s *Scene) Objects() []Object {
	out := make([]Object, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.objects[name])
	}
	return out
}

// Events returns the events received so far.
func (s *Scene) Events() []commands.Event {
	out := make([]commands.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Messages returns the text of every log event in order.
func (s *Scene) Messages() []string {
	var out []string
	for _, ev := range s.events {
		if ev.Kind == commands.EventLog {
			out = append(out, ev.Message)
		}
	}
	return out
}
