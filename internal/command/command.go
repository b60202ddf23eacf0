package command

import "github.com/roach88/seqctl/internal/args"

// Command is one running script command.
type Command interface {
	// IsEnd reports whether the command has finished.
	IsEnd() bool

	// Start is called once before the first Update.
	Start()

	// Update is called once per tick while the command has not ended.
	// It must not block.
	Update()

	// Dispose is called once after the command has ended.
	Dispose()
}

// Factory constructs a Command from a decoded script line.
// A malformed argument should be returned as an error, not defaulted.
type Factory func(a *args.Arguments) (Command, error)

// Base supplies default lifecycle methods. Embed it in command types.
type Base struct{}

// IsEnd reports true so that commands complete immediately by default.
func (Base) IsEnd() bool { return true }

func (Base) Start()   {}
func (Base) Update()  {}
func (Base) Dispose() {}
