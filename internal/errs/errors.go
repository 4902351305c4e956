// Package errs provides the unified error type used across aam.
//
// Drivers, providers and the annotation runner wrap their native errors into
// *errs.Error before returning them. Callers use the Is* predicates to decide
// whether a failure is fatal for one table, for one association, or for the
// whole run.
//
// Usage:
//
//	// In a provider, wrap native errors:
//	return errs.Wrap(errs.ErrKindProviderFailure, "inspect table users", pgErr)
//
//	// In the runner, count the table as failed and move on:
//	if errs.IsProviderFailure(err) {
//	    counts.Error++
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
type ErrKind int

const (
	ErrKindUnknown               ErrKind = iota
	ErrKindNotFound                      // no rows, no object, no model
	ErrKindConnectionFailed              // cannot reach the backend
	ErrKindTimeout                       // context deadline / cancellation
	ErrKindQueryFailed                   // SQL or storage operation error
	ErrKindInvalidInput                  // bad arguments or malformed manifest
	ErrKindPermissionDenied              // access denied / auth failure
	ErrKindUnresolvedTarget              // association target type is not in the catalog
	ErrKindMetadataInconsistency         // declared structure contradicts the table
	ErrKindProviderFailure               // a table snapshot could not be built
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindUnresolvedTarget:
		return "unresolved_target"
	case ErrKindMetadataInconsistency:
		return "metadata_inconsistency"
	case ErrKindProviderFailure:
		return "provider_failure"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all aam subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a format string.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a "not found" result.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a backend operation failure.
func IsQueryFailed(err error) bool {
	return KindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// IsUnresolvedTarget reports whether err means an association points at a
// model the catalog does not know.
func IsUnresolvedTarget(err error) bool {
	return KindOf(err) == ErrKindUnresolvedTarget
}

// IsMetadataInconsistency reports whether err describes declared structure
// that contradicts the table.
func IsMetadataInconsistency(err error) bool {
	return KindOf(err) == ErrKindMetadataInconsistency
}

// IsProviderFailure reports whether a table snapshot could not be built.
func IsProviderFailure(err error) bool {
	return KindOf(err) == ErrKindProviderFailure
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
