// Package commands provides the built-in script commands.
//
//	Log|message                 log a message
//	Create|name|x|y|z           create an object at a position
//	SetPosition|x|y|z           place the current object
//	Move|x|y|z|seconds          move the current object over time
//	Wait|seconds                wait
//	Click                       wait for an input press
//	Jump|index                  continue at a line index
//	Label|tag                   mark a jump target (no effect)
//	Goto|tag                    continue at the first line tagged tag
//	End                         finish the script
//
// Commands never touch host state directly. They report effects through the
// Sink in Env, read time from Env.Clock, poll Env.Input and redirect the
// sequencer through Env.Control. Hosts and tests substitute any of them.
package commands
