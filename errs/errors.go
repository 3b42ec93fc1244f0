// Package errs defines the structured error taxonomy shared by the SDK.
package errs

import "errors"

// Kind is a stable category for programmatic error handling.
//
// These categories are intended to remain stable across versions.
// Callers should branch on Kind rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindParse covers malformed identifier text and malformed response
	// envelopes. Never retried.
	KindParse Kind = "Parse"

	// KindConstruction covers invalid builder state: a missing required field,
	// a mutation after freeze, or a body too large for a type without chunking
	// support. Surfaced before any network attempt.
	KindConstruction Kind = "Construction"

	// KindCrypto covers signing and key-material failures.
	KindCrypto Kind = "Crypto"

	// KindTransport covers channel/connection failures. The dispatcher retries
	// these against another node; they surface only once retries are exhausted.
	KindTransport Kind = "Transport"

	// KindPrecheck covers a definitive non-success application status returned
	// by a node. The permanent subset terminates dispatch immediately.
	KindPrecheck Kind = "Precheck"

	// KindMaxAttempts reports a spent retry budget: the network never accepted
	// or rejected the operation within the configured attempt ceiling.
	KindMaxAttempts Kind = "MaxAttempts"

	// KindDeadline reports that the caller's deadline expired between attempts.
	KindDeadline Kind = "Deadline"

	KindInternal Kind = "Internal"
)

// Error is the SDK's structured error type.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New returns a structured error with the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns a structured error wrapping cause.
func Wrap(kind Kind, msg string, cause error) error {
	if cause == nil {
		return New(kind, msg)
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind for a structured error, or "" if unknown.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}
