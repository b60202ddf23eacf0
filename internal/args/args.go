package args

import (
	"strconv"
	"strings"
	"time"
)

// Arguments holds the fields of one script line, command name included.
type Arguments struct {
	fields []string
}

// New creates Arguments from the split fields of a line.
// The slice is copied so later mutation by the caller has no effect.
func New(fields ...string) *Arguments {
	cp := make([]string, len(fields))
	copy(cp, fields)
	return &Arguments{fields: cp}
}

// Len returns the number of fields, command name included.
func (a *Arguments) Len() int {
	return len(a.fields)
}

// Name returns field 0, or "" for an empty field list.
func (a *Arguments) Name() string {
	return a.Arg(0)
}

// Field returns the raw field at index and whether it is present.
func (a *Arguments) Field(index int) (string, bool) {
	if index < 0 || index >= len(a.fields) {
		return "", false
	}
	return a.fields[index], true
}

// Arg returns the field at index as a string.
// A missing field resolves to def[0], or "" when no default is given.
func (a *Arguments) Arg(index int, def ...string) string {
	return a.resolve(index, "", def)
}

// Int parses the field at index as a base-10 integer.
// A missing field resolves to def[0], or "0".
func (a *Arguments) Int(index int, def ...string) (int, error) {
	raw := a.resolve(index, "0", def)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, newDecodeError(index, raw, KindInt, err)
	}
	return n, nil
}

// Float parses the field at index as a 64-bit float.
// A missing field resolves to def[0], or "0".
func (a *Arguments) Float(index int, def ...string) (float64, error) {
	raw := a.resolve(index, "0", def)
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, newDecodeError(index, raw, KindFloat, err)
	}
	return f, nil
}

// Bool parses the field at index as an integer and reports whether it is non-zero.
// A missing field resolves to def[0], or "0".
func (a *Arguments) Bool(index int, def ...string) (bool, error) {
	raw := a.resolve(index, "0", def)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false, newDecodeError(index, raw, KindBool, err)
	}
	return n != 0, nil
}

// Duration parses the field at index as a number of seconds.
// A missing field resolves to def[0], or "0".
func (a *Arguments) Duration(index int, def ...string) (time.Duration, error) {
	raw := a.resolve(index, "0", def)
	secs, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, newDecodeError(index, raw, KindDuration, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// String joins the fields with commas.
func (a *Arguments) String() string {
	return strings.Join(a.fields, ",")
}

func (a *Arguments) resolve(index int, fallback string, def []string) string {
	if v, ok := a.Field(index); ok {
		return v
	}
	if len(def) > 0 {
		return def[0]
	}
	return fallback
}
