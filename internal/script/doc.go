// Package script holds the ordered list of raw script lines a sequencer runs.
//
// A line is a string of fields joined by a separator (default "|"). Field 0
// names the command and the remaining fields are its positional arguments.
// Insertion order is execution order, and indices stay stable until the list
// is replaced with Set or emptied with Clear.
//
// Lines are NFC-normalized when stored, so command and tag searches match
// regardless of how the author's editor composed accented characters.
//
// Search helpers never fail: they return NotFound for absent matches and for
// out-of-range search windows. Direct indexed access with At is the only
// operation that reports an out-of-range index as an error.
package script
