package crypto

import "fmt"

// ErrorCode identifies a kind of key, hash or encoding failure.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrChecksum indicates a Base58Check string whose trailing four bytes
	// do not match the double SHA-256 of the preceding bytes.
	ErrChecksum ErrorCode = iota

	// ErrInvalidFormat indicates a Base58Check string that has characters
	// outside the alphabet or too few bytes to hold a version and checksum.
	ErrInvalidFormat

	// ErrInvalidPrivateKey indicates a private key that is not a scalar in
	// [1, N-1].
	ErrInvalidPrivateKey

	// ErrInvalidPublicKey indicates bytes that do not encode a point on the
	// curve.
	ErrInvalidPublicKey

	// ErrInvalidSignature indicates a signature that cannot be parsed.
	ErrInvalidSignature

	// ErrRecoveryFailed indicates that no recovery id reproduces the
	// signing key.
	ErrRecoveryFailed

	// ErrInvalidDerivation indicates a child index that produces an invalid
	// key. Callers skip to the next index.
	ErrInvalidDerivation

	// ErrDeriveHardFromPublic indicates an attempt to derive a hardened
	// child from a public extended key.
	ErrDeriveHardFromPublic

	// ErrInvalidSeedLen indicates a seed outside of [MinSeedBytes,
	// MaxSeedBytes].
	ErrInvalidSeedLen

	// ErrWrongNetwork indicates an encoded key whose version bytes belong to
	// a different network than the one supplied.
	ErrWrongNetwork

	// ErrDeriveBeyondMaxDepth indicates an attempt to derive a child of a
	// key at the maximum BIP32 depth of 255.
	ErrDeriveBeyondMaxDepth

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrChecksum:             "ErrChecksum",
	ErrInvalidFormat:        "ErrInvalidFormat",
	ErrInvalidPrivateKey:    "ErrInvalidPrivateKey",
	ErrInvalidPublicKey:     "ErrInvalidPublicKey",
	ErrInvalidSignature:     "ErrInvalidSignature",
	ErrRecoveryFailed:       "ErrRecoveryFailed",
	ErrInvalidDerivation:    "ErrInvalidDerivation",
	ErrDeriveHardFromPublic: "ErrDeriveHardFromPublic",
	ErrInvalidSeedLen:       "ErrInvalidSeedLen",
	ErrWrongNetwork:         "ErrWrongNetwork",
	ErrDeriveBeyondMaxDepth: "ErrDeriveBeyondMaxDepth",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error implements the error interface so codes can be used as sentinels with
// errors.Is.
func (e ErrorCode) Error() string {
	return e.String()
}

// Error identifies a failure together with the function that raised it.
type Error struct {
	Code        ErrorCode // Kind of failure
	Func        string    // Function that failed
	Description string    // Human-readable description
	Cause       error     // Underlying error (if any)
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Func, e.Description, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Func, e.Description)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error's code.
func (e *Error) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

// makeError creates an Error given a set of arguments.
func makeError(c ErrorCode, fn, desc string) *Error {
	return &Error{Code: c, Func: fn, Description: desc}
}
