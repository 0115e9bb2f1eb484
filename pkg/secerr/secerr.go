// Package secerr defines the typed error kinds shared by every component of
// the comparison engine. Error text names the kind and the failing
// operation only — plaintexts and blinded intermediate values must never
// reach a diagnostic.
package secerr

import (
	"errors"
	"fmt"
)

// Kind enumerates the design-level error categories.
type Kind int

const (
	// ConfigurationError: invalid l, kappa, or capacity; missing mandatory key.
	ConfigurationError Kind = iota
	// CryptoFailure: the underlying cryptosystem reports encrypt/decrypt failure.
	CryptoFailure
	// ProtocolViolation: malformed message, wrong bit-length, unexpected counter.
	ProtocolViolation
	// PrecisionBound: inputs violate |a|,|b| < 2^(l-1).
	PrecisionBound
	// CacheExhaustion: reported only when tuple reuse is forbidden.
	CacheExhaustion
)

func (k Kind) String() string {
	switch k {
	case ConfigurationError:
		return "ConfigurationError"
	case CryptoFailure:
		return "CryptoFailure"
	case ProtocolViolation:
		return "ProtocolViolation"
	case PrecisionBound:
		return "PrecisionBound"
	case CacheExhaustion:
		return "CacheExhaustion"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type returned by every package in this
// module. Op names the operation that failed (e.g. "randomizer.Cache.Pop");
// Err, if non-nil, is wrapped and reachable via errors.Unwrap, but its
// message is never included implicitly in Error() to keep diagnostics free
// of sensitive detail — callers that need the cause can unwrap explicitly.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("secomp: %s: %s", e.Kind, e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an *Error for the given kind and operation, optionally
// wrapping a cause.
func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
