package command

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/seqctl/internal/args"
)

// RegistryError reports an invalid registration.
type RegistryError struct {
	Name    string
	Message string
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	return fmt.Sprintf("register command %q: %s", e.Name, e.Message)
}

// ErrUnknownCommand is wrapped by New when a name has no factory.
var ErrUnknownCommand = errors.New("unknown command")

// Registry maps case-sensitive command names to factories.
//
// A Registry is populated by the host before a run and is read-only while a
// sequencer is using it.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register associates name with f.
// Empty names, nil factories and duplicate names are rejected.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return &RegistryError{Name: name, Message: "name is empty"}
	}
	if f == nil {
		return &RegistryError{Name: name, Message: "factory is nil"}
	}
	if _, exists := r.factories[name]; exists {
		return &RegistryError{Name: name, Message: "already registered"}
	}
	r.factories[name] = f
	return nil
}

// MustRegister is like Register but panics on error.
// Intended for static registration tables.
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.factories)
}

// New builds the command named by a.Name() using its registered factory.
func (r *Registry) New(a *args.Arguments) (Command, error) {
	name := a.Name()
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	cmd, err := f(a)
	if err != nil {
		return nil, fmt.Errorf("construct %s: %w", name, err)
	}
	if cmd == nil {
		return nil, fmt.Errorf("construct %s: factory returned nil command", name)
	}
	return cmd, nil
}
