package engine

// The search helpers operate on raw lines, independent of the run position.
// Hosts use them to compute jump targets, for example the line tagged "loop".

// FindIndex returns the first line index satisfying match, or script.NotFound.
func (e *Engine) FindIndex(match func(string) bool) int {
	return e.script.FindIndex(match)
}

// FindIndexFrom returns the first index at or after start satisfying match.
func (e *Engine) FindIndexFrom(start int, match func(string) bool) int {
	return e.script.FindIndexFrom(start, match)
}

// FindIndexIn searches count lines beginning at start.
func (e *Engine) FindIndexIn(start, count int, match func(string) bool) int {
	return e.script.FindIndexIn(start, count, match)
}

// FindLastIndex returns the last line index satisfying match.
func (e *Engine) FindLastIndex(match func(string) bool) int {
	return e.script.FindLastIndex(match)
}

// FindIndexOfCommand returns the first index at or after start running name.
func (e *Engine) FindIndexOfCommand(start int, name string) int {
	return e.script.FindIndexOfCommand(start, name)
}

// FindIndexOfTag returns the first index at or after start whose field at
// offset equals tag.
func (e *Engine) FindIndexOfTag(start int, tag string, offset int) int {
	return e.script.FindIndexOfTag(start, tag, offset)
}
