package core

import (
	"errors"
	"fmt"
)

var (
	// ErrStructural is returned for arity or depth mismatches, invalid depth
	// selections, malformed slice steps and operands of the wrong shape.
	ErrStructural = errors.New("structural error")

	// ErrNonUnique is returned when a composite row would appear twice.
	ErrNonUnique = errors.New("labels are not unique")

	// ErrKeyNotFound is returned when a label or key cannot be resolved.
	ErrKeyNotFound = errors.New("key not found")

	// ErrType is returned for keys whose semantics do not apply, such as
	// stepping through a level that has no ordering.
	ErrType = errors.New("type error")

	// ErrNotImplemented is returned for requests that are recognized but
	// deliberately unsupported.
	ErrNotImplemented = errors.New("not implemented")
)

// StructuralError describes an arity, depth or shape violation.
//
// errors.Is(err, ErrStructural) reports true for every StructuralError.
type StructuralError struct {
	Op     string
	Reason string
	cause  error
}

// NewStructuralError returns a StructuralError for op.
func NewStructuralError(op, format string, args ...any) *StructuralError {
	return &StructuralError{Op: op, Reason: fmt.Sprintf(format, args...), cause: ErrStructural}
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *StructuralError) Unwrap() error { return e.cause }

// NonUniqueError reports the first duplicated label that was found.
type NonUniqueError struct {
	Label any
	cause error
}

// NewNonUniqueError returns a NonUniqueError for label.
func NewNonUniqueError(label any) *NonUniqueError {
	return &NonUniqueError{Label: label, cause: ErrNonUnique}
}

func (e *NonUniqueError) Error() string {
	return fmt.Sprintf("labels are not unique: %v", e.Label)
}

func (e *NonUniqueError) Unwrap() error { return e.cause }

// KeyError reports a key that could not be resolved.
type KeyError struct {
	Key   any
	cause error
}

// NewKeyError returns a KeyError for key.
func NewKeyError(key any) *KeyError {
	return &KeyError{Key: key, cause: ErrKeyNotFound}
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key not found: %v", e.Key)
}

func (e *KeyError) Unwrap() error { return e.cause }

// TypeError reports a key whose semantics are incompatible with the target.
type TypeError struct {
	Op     string
	Reason string
	cause  error
}

// NewTypeError returns a TypeError for op.
func NewTypeError(op, format string, args ...any) *TypeError {
	return &TypeError{Op: op, Reason: fmt.Sprintf(format, args...), cause: ErrType}
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *TypeError) Unwrap() error { return e.cause }

// NotImplemented returns an error wrapping ErrNotImplemented.
func NotImplemented(op, reason string) error {
	return fmt.Errorf("%s: %s: %w", op, reason, ErrNotImplemented)
}
