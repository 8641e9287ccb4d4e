package avcrypto

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain indicates an operation that is mathematically undefined for
	// its input: inverse of a non-invertible element, a point that is not on
	// the curve, or a signature component outside [1, n-1].
	ErrDomain = errors.New("avcrypto: domain error")

	// ErrAuthentication indicates an AEAD tag mismatch. No plaintext is
	// available when this error is returned.
	ErrAuthentication = errors.New("avcrypto: authentication failed")

	// ErrEncoding indicates malformed or wrong-length fixed-width input.
	ErrEncoding = errors.New("avcrypto: encoding error")

	// ErrMisuse indicates an API contract violation: update after finalize,
	// block counter overflow, or an out-of-range nonce.
	ErrMisuse = errors.New("avcrypto: misuse")
)

// Error wraps a sentinel error with the operation that produced it.
type Error struct {
	Op  string // Operation that failed, e.g. "ecdsa.Sign"
	Err error  // Underlying error; wraps one of the sentinels above
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an *Error carrying one of the package sentinels plus detail text.
// Detail must never contain secret material.
func E(op string, kind error, format string, args ...any) error {
	return &Error{
		Op:  op,
		Err: fmt.Errorf("%w: "+format, append([]any{kind}, args...)...),
	}
}
