package engine

import (
	"fmt"
	"strings"
)

// ValidationError reports an argument value that must not reach the
// executor, such as a template placeholder or a disallowed enum value.
type ValidationError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s in %q: %v", e.Reason, e.Param, e.Value)
}

// UnknownActionError reports a proposed or confirmed action name that is not
// in the catalog.
type UnknownActionError struct {
	Action    string
	Available []string
}

func (e *UnknownActionError) Error() string {
	names := e.Available
	if len(names) > 10 {
		names = names[:10]
	}
	return fmt.Sprintf("unknown action %q (available: %s...)", e.Action, strings.Join(names, ", "))
}

// TransportError wraps an executor or provider I/O failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
