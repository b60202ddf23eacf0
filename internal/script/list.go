package script

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NotFound is returned by every search when no line matches.
const NotFound = -1

// DefaultSeparator splits a line into fields.
const DefaultSeparator = "|"

// IndexError reports direct access outside [0, Count).
type IndexError struct {
	Index int
	Count int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("script index %d out of range [0, %d)", e.Index, e.Count)
}

// List is an ordered, replaceable sequence of script lines.
//
// List is not safe for concurrent use. A sequencer borrows it for the
// duration of a run and never mutates it element-wise.
type List struct {
	lines     []string
	separator string
}

// NewList creates a List holding lines, split with DefaultSeparator.
func NewList(lines ...string) *List {
	l := &List{separator: DefaultSeparator}
	l.Set(lines)
	return l
}

// Separator returns the field separator.
func (l *List) Separator() string {
	return l.separator
}

// SetSeparator changes the field separator. An empty separator restores the default.
func (l *List) SetSeparator(sep string) {
	if sep == "" {
		sep = DefaultSeparator
	}
	l.separator = sep
}

// Count returns the number of lines.
func (l *List) Count() int {
	return len(l.lines)
}

// At returns the line at index.
func (l *List) At(index int) (string, error) {
	if index < 0 || index >= len(l.lines) {
		return "", &IndexError{Index: index, Count: len(l.lines)}
	}
	return l.lines[index], nil
}

// Fields returns the line at index split into fields.
func (l *List) Fields(index int) ([]string, error) {
	line, err := l.At(index)
	if err != nil {
		return nil, err
	}
	return l.Split(line), nil
}

// Split splits a line with the list's separator.
func (l *List) Split(line string) []string {
	return strings.Split(line, l.separator)
}

// Lines returns a copy of all lines.
func (l *List) Lines() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Set replaces the contents with lines.
func (l *List) Set(lines []string) {
	next := make([]string, len(lines))
	for i, line := range lines {
		next[i] = norm.NFC.String(line)
	}
	l.lines = next
}

// SetList replaces the contents with a copy of other's lines.
// The separator is left unchanged.
func (l *List) SetList(other *List) {
	if other == nil {
		l.Clear()
		return
	}
	l.Set(other.lines)
}

// Clear removes all lines.
func (l *List) Clear() {
	l.lines = nil
}
