package coordinator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when the remote boundary reports a missing row.
var ErrNotFound = errors.New("entity not found")

// RemoteFailureError wraps a failure from the persistence boundary. The
// optimistic local change has already been rolled back when the caller
// sees it.
type RemoteFailureError struct {
	Cause error
}

func (e *RemoteFailureError) Error() string {
	return fmt.Sprintf("remote mutation failed: %v", e.Cause)
}

func (e *RemoteFailureError) Unwrap() error { return e.Cause }

// ValidationFailureError enumerates offending fields of a rejected patch.
type ValidationFailureError struct {
	FieldErrors map[string]string
}

func (e *ValidationFailureError) Error() string {
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e.FieldErrors[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
