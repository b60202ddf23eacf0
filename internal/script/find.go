package script

import "golang.org/x/text/unicode/norm"

// FindIndex returns the index of the first line satisfying match.
func (l *List) FindIndex(match func(string) bool) int {
	return l.FindIndexIn(0, len(l.lines), match)
}

// FindIndexFrom returns the index of the first line at or after start satisfying match.
func (l *List) FindIndexFrom(start int, match func(string) bool) int {
	return l.FindIndexIn(start, len(l.lines)-start, match)
}

// FindIndexIn scans count lines beginning at start and returns the index of
// the first one satisfying match. A window outside the list yields NotFound.
func (l *List) FindIndexIn(start, count int, match func(string) bool) int {
	if match == nil || start < 0 || count < 0 || start+count > len(l.lines) {
		return NotFound
	}
	for i := start; i < start+count; i++ {
		if match(l.lines[i]) {
			return i
		}
	}
	return NotFound
}

// FindLastIndex returns the index of the last line satisfying match.
func (l *List) FindLastIndex(match func(string) bool) int {
	if match == nil {
		return NotFound
	}
	for i := len(l.lines) - 1; i >= 0; i-- {
		if match(l.lines[i]) {
			return i
		}
	}
	return NotFound
}

// FindIndexOfCommand returns the first index at or after start whose command
// name equals name. Empty lines are skipped.
func (l *List) FindIndexOfCommand(start int, name string) int {
	return l.FindIndexOfTag(start, name, 0)
}

// FindIndexOfTag returns the first index at or after start whose field at
// offset equals tag. Empty lines and lines with no field at offset are skipped.
func (l *List) FindIndexOfTag(start int, tag string, offset int) int {
	if start < 0 || offset < 0 {
		return NotFound
	}
	tag = norm.NFC.String(tag)
	for i := start; i < len(l.lines); i++ {
		line := l.lines[i]
		if line == "" {
			continue
		}
		fields := l.Split(line)
		if len(fields) <= offset {
			continue
		}
		if fields[offset] == tag {
			return i
		}
	}
	return NotFound
}
