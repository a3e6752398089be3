// Package app ties the editing history, autosave, presets and export into
// a Session.
package app

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrClosed indicates the session was used after Close.
	ErrClosed = errors.New("session closed")

	// ErrNotStarted indicates Start has not been called.
	ErrNotStarted = errors.New("session not started")

	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrNoStore indicates NewSession was given no store.
	ErrNoStore = errors.New("no store configured")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op      string // Operation name (e.g., "export", "save preset")
	Target  string // Target of the operation (e.g., preset name, file path)
	Context string // Additional context
	Err     error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

// WithContext adds context to the error.
// Safe to call on nil receiver - returns nil.
func (e *OperationError) WithContext(ctx string) *OperationError {
	if e == nil {
		return nil
	}
	e.Context = ctx
	return e
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	var msg string
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	} else {
		msg = e.Op
	}

	if e.Context != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Context)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for OperationError.
// Matches both the wrapper itself and the wrapped error.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

// wrapOp returns nil for a nil err, otherwise an OperationError.
func wrapOp(op, target string, err error) error {
	if err == nil {
		return nil
	}
	return NewOperationError(op, target, err)
}
