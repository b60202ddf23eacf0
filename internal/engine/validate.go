package engine

import (
	"github.com/roach88/seqctl/internal/args"
	"github.com/roach88/seqctl/internal/command"
	"github.com/roach88/seqctl/internal/script"
)

// Validate builds, but does not start, a command for every line in l.
//
// It reports each unknown command and malformed argument up front instead
// of at the tick where the line would run. Returns nil if every line builds.
// Factories must be free of side effects for this to be safe, which holds
// for commands that defer their effects to Start.
func Validate(reg *command.Registry, l *script.List) []error {
	var errs []error
	for i := 0; i < l.Count(); i++ {
		line, err := l.At(i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := reg.New(args.New(l.Split(line)...)); err != nil {
			errs = append(errs, classifyBuildError(i, line, err))
		}
	}
	return errs
}

// Validate checks the engine's installed script against its registry.
func (e *Engine) Validate() []error {
	return Validate(e.registry, e.script)
}
