package lightstore

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups when an entity has no entry in the
// store being queried. It is an ordinary result, not a failure: callers
// branch on it with errors.Is to distinguish "entity has no light" from
// "entity does not exist" at a higher level.
var ErrNotFound = errors.New("entity not found")

// ValidationError rejects a malformed or conflicting bulk-insert batch.
// The batch was not applied; the caller may correct the input and retry.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid batch: %s", e.Op, e.Reason)
}

func validationErrf(op string, format string, args ...any) *ValidationError {
	return &ValidationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// DebugChecks enables the deep store audits: full index-vs-array scans
// after every mutation. The cheap O(1) length checks always run. Tests turn
// this on; production hosts normally leave it off, the scans are O(n).
var DebugChecks = false

// InvariantViolation is the panic value raised by internal audits when a
// parallel-array length mismatch or a dangling lookup slot is detected.
// It signals a programming error inside the store, never bad caller input,
// and is not meant to be recovered from outside of tests.
type InvariantViolation struct {
	Store  string
	Detail string
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("%s: invariant violated: %s", v.Store, v.Detail)
}

func invariantf(store string, format string, args ...any) {
	panic(&InvariantViolation{Store: store, Detail: fmt.Sprintf(format, args...)})
}
