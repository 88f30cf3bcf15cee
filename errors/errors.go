// Package errors provides the error types raised by the binding layer.
// All error types support matching via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrAlreadyReleased is returned when an owned handle is released twice.
var ErrAlreadyReleased = stdErrors.New("handle already released")

// ConstructionError reports that the host failed to construct an object.
type ConstructionError struct {
	Class string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("failed to create object of class %s", e.Class)
}

// InstanceNotFoundError reports an instance id the host does not know.
type InstanceNotFoundError struct {
	Class string
	ID    uint64
}

func (e *InstanceNotFoundError) Error() string {
	return fmt.Sprintf("instance %d of class %s does not exist", e.ID, e.Class)
}

// BindingError reports a missing or mismatched instance binding.
type BindingError struct {
	Class  string
	Reason string
	ID     uint64
}

func (e *BindingError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("instance binding of %s (id %d): %s", e.Class, e.ID, e.Reason)
	}
	return fmt.Sprintf("instance binding of %s: %s", e.Class, e.Reason)
}

// BorrowError reports a borrow that conflicts with one already held.
type BorrowError struct {
	Class     string
	Requested string // "shared" or "exclusive"
	Held      string
}

func (e *BorrowError) Error() string {
	return fmt.Sprintf("cannot borrow %s as %s: already borrowed as %s", e.Class, e.Requested, e.Held)
}

// NotImplementedError marks an operation the binding layer does not support yet.
type NotImplementedError struct {
	Operation string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("not implemented: %s", e.Operation)
}

// RegistrationError reports a failure while registering a class, method or
// property with the host.
type RegistrationError struct {
	Err    error
	Class  string
	Member string
	Reason string
}

func (e *RegistrationError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		if msg != "" {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		} else {
			msg = e.Err.Error()
		}
	}
	if e.Member != "" {
		return fmt.Sprintf("register %s.%s: %s", e.Class, e.Member, msg)
	}
	return fmt.Sprintf("register %s: %s", e.Class, msg)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// InterfaceError reports an incomplete host interface table.
type InterfaceError struct {
	Err     error
	Missing []string
}

func (e *InterfaceError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("host interface incomplete, missing: %v", e.Missing)
	}
	return fmt.Sprintf("host interface invalid: %v", e.Err)
}

func (e *InterfaceError) Unwrap() error {
	return e.Err
}

// DirectiveError reports a malformed export directive found by the generator.
type DirectiveError struct {
	Err    error
	File   string
	Struct string
	Field  string
	Key    string
	Line   int
}

func (e *DirectiveError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	target := e.Struct
	if e.Field != "" {
		target = e.Struct + "." + e.Field
	}
	if e.Key != "" {
		return fmt.Sprintf("%s: %s: directive key %q: %v", loc, target, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", loc, target, e.Err)
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}
