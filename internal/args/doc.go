// Package args decodes the positional fields of a single script line.
//
// Field 0 is always the command name, so argument addressing is 1-based
// relative to the line:
//
//	Move|-1|0|1|2.5
//	  Int(0)   -> error ("Move" is not a number)
//	  Float(1) -> -1
//	  Float(4) -> 2.5
//
// Every accessor takes an optional default that is used only when the
// requested field is missing. A present field that fails to parse is a
// DecodeError; defaulting never hides malformed input.
package args
