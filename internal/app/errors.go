// Package app wires a state history to the line-oriented REPL and the Lua
// script runtime, and renders history outcomes as text.
package app

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrQuit signals that the session should end normally.
	ErrQuit = errors.New("quit requested")

	// ErrUnknownCommand indicates an unrecognized REPL command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrMissingArgument indicates a command was given without its argument.
	ErrMissingArgument = errors.New("missing argument")

	// ErrNoMark indicates "back" was used before "mark".
	ErrNoMark = errors.New("no mark set")
)

// CommandError represents an error from a single REPL command.
type CommandError struct {
	Command string // Command name (e.g., "goto", "back")
	Arg     string // Argument as typed, if any
	Err     error  // Underlying error
}

// NewCommandError creates a new CommandError.
func NewCommandError(command, arg string, err error) *CommandError {
	return &CommandError{Command: command, Arg: arg, Err: err}
}

func (e *CommandError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Command
	if e.Arg != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Arg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for CommandError.
// Matches both the wrapper itself and the wrapped error.
func (e *CommandError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*CommandError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}
