package config

import (
	"errors"
	"fmt"
)

// ErrorKind classifies configuration failures so callers can branch on the
// failure class instead of matching message text.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindMissingSource reports that a required configuration source, such
	// as the override file, could not be found.
	KindMissingSource
	// KindMissingField reports a required field with no value in any source.
	KindMissingField
	// KindTypeCoercion reports a raw value that could not be converted to
	// the declared field type.
	KindTypeCoercion
	// KindConstraintViolation reports a well-typed value outside its
	// declared bounds.
	KindConstraintViolation
	// KindUninitializedAccess reports a configuration read before any
	// successful initialization, after the recovery attempt also failed.
	KindUninitializedAccess
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingSource:
		return "missing_source"
	case KindMissingField:
		return "missing_field"
	case KindTypeCoercion:
		return "type_coercion"
	case KindConstraintViolation:
		return "constraint_violation"
	case KindUninitializedAccess:
		return "uninitialized_access"
	default:
		return "unknown"
	}
}

// Error is the configuration error type. Field names the offending
// environment variable when one applies.
type Error struct {
	Kind   ErrorKind
	Field  string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	msg = fmt.Sprintf("%s: %s", e.Kind, msg)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether any error in the wrap chain is a configuration
// Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		var cfgErr *Error
		if errors.As(err, &cfgErr) {
			if cfgErr.Kind == kind {
				return true
			}
			err = cfgErr.Err
			continue
		}
		err = errors.Unwrap(err)
	}
	return false
}

// KindOf returns the kind of the outermost configuration Error in the wrap
// chain, or KindUnknown when there is none.
func KindOf(err error) ErrorKind {
	var cfgErr *Error
	if errors.As(err, &cfgErr) {
		return cfgErr.Kind
	}
	return KindUnknown
}

func newMissingSource(reason string) *Error {
	return &Error{Kind: KindMissingSource, Reason: reason}
}

func newMissingField(field string) *Error {
	return &Error{Kind: KindMissingField, Field: field, Reason: "required value is missing"}
}

func newTypeCoercion(field, reason string, err error) *Error {
	return &Error{Kind: KindTypeCoercion, Field: field, Reason: reason, Err: err}
}

func newConstraintViolation(field, reason string) *Error {
	return &Error{Kind: KindConstraintViolation, Field: field, Reason: reason}
}
