// Package errors defines the error taxonomy of a mirror run. Every error
// has one of two severities: fatal errors stop the run before the
// destination is touched (bad URL, unreachable remote, failed clone,
// missing prerequisite), while push failures are warnings that are
// reported per category and never stop the remaining pushes. IsFatal
// tells the two apart.
package errors

import (
	"errors"
	"fmt"
)

// OperationError wraps a failure of a named workflow step that has no
// richer type of its own, such as the git prerequisite check or the
// workspace setup. Operation errors are always fatal.
type OperationError struct {
	Op  string // workflow step, e.g. "prerequisite" or "workspace"
	Err error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// New wraps err as a fatal failure of the named workflow step.
func New(op string, err error) *OperationError {
	return &OperationError{
		Op:  op,
		Err: err,
	}
}

// Is matches operation errors by step name, so callers can test for a
// step's failure without comparing wrapped causes.
func (e *OperationError) Is(target error) bool {
	t, ok := target.(*OperationError)
	if !ok {
		return false
	}
	return e.Op == t.Op
}

// IsFatal reports whether an error aborts the whole mirror run. Push
// failures are surfaced as warnings; everything else in the taxonomy is
// fatal.
func IsFatal(err error) bool {
	var pe *PushError
	return err != nil && !errors.As(err, &pe)
}
