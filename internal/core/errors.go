package core

import (
	"fmt"
	"strings"
)

// InvalidSyntaxError is returned when the input does not match a complete
// command path. Syntax is the closest known usage, empty if nothing matched.
type InvalidSyntaxError struct {
	Input  string
	Syntax string
}

func (e *InvalidSyntaxError) Error() string {
	if e.Syntax == "" {
		return fmt.Sprintf("unknown command %q", e.Input)
	}
	return fmt.Sprintf("invalid syntax %q, expected %q", e.Input, e.Syntax)
}

// InvalidSenderError is returned when the command is restricted to other sender kinds.
type InvalidSenderError struct {
	Kind     string
	Required []string
}

func (e *InvalidSenderError) Error() string {
	return fmt.Sprintf("sender kind %q not allowed, need %s", e.Kind, strings.Join(e.Required, "|"))
}

// NoPermissionError is returned when the sender fails a permission check.
type NoPermissionError struct {
	Input      string
	Permission string
}

func (e *NoPermissionError) Error() string {
	if e.Permission == "" {
		return fmt.Sprintf("no permission for %q", e.Input)
	}
	return fmt.Sprintf("no permission for %q, missing %q", e.Input, e.Permission)
}

// ArgumentParsingError is returned when a token fails its argument parser.
// Position is the 0-based token index within the command line.
type ArgumentParsingError struct {
	Position int
	Token    string
	Argument string
	Err      error
}

func (e *ArgumentParsingError) Error() string {
	return fmt.Sprintf("argument %q at position %d (%q): %v", e.Argument, e.Position, e.Token, e.Err)
}

func (e *ArgumentParsingError) Unwrap() error {
	return e.Err
}

// ExecutionError wraps a failure raised by a handler.
type ExecutionError struct {
	Input string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute %q: %v", e.Input, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// DuplicateDefinitionError is returned by registration when a terminal path
// is already bound to a handler. It is a programming error and should abort startup.
type DuplicateDefinitionError struct {
	Syntax string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("command %q is already registered", e.Syntax)
}
