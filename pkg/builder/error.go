package builder

import "fmt"

// ErrorCode identifies a kind of transaction builder failure.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrUnknownDependency indicates an input spending a transaction that
	// was never added as a dependency.
	ErrUnknownDependency ErrorCode = iota

	// ErrKeyMismatch indicates a public key or redeem script that does not
	// hash to the spent output, a key that is not part of an input, or a
	// private key that does not belong to the given public key.
	ErrKeyMismatch

	// ErrInsufficientSignatures indicates a broadcast encoding requested
	// while an input still lacks signatures.
	ErrInsufficientSignatures

	// ErrConflictingSignature indicates two different signatures for the
	// same key of the same input.
	ErrConflictingSignature

	// ErrInvalidSignature indicates a signature that cannot be parsed or
	// does not verify against the input's signature hash.
	ErrInvalidSignature

	// ErrNonStandardOutput indicates a spent output that is neither
	// pay-to-pubkey-hash nor pay-to-script-hash.
	ErrNonStandardOutput

	// ErrIndexOutOfRange indicates an input, output or outpoint index past
	// the end.
	ErrIndexOutOfRange

	// ErrDuplicateInput indicates a second input spending one outpoint.
	ErrDuplicateInput

	// ErrUnsupportedSigHash indicates a hash type other than ALL, NONE or
	// SINGLE, optionally combined with ANYONECANPAY.
	ErrUnsupportedSigHash

	// ErrInvalidMode indicates a script signature mode that does not apply
	// to the requested operation.
	ErrInvalidMode

	// ErrIncompatible indicates builders that do not describe the same
	// unsigned transaction.
	ErrIncompatible

	// ErrMalformedState indicates a serialized builder that cannot be
	// decoded.
	ErrMalformedState

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrUnknownDependency:      "ErrUnknownDependency",
	ErrKeyMismatch:            "ErrKeyMismatch",
	ErrInsufficientSignatures: "ErrInsufficientSignatures",
	ErrConflictingSignature:   "ErrConflictingSignature",
	ErrInvalidSignature:       "ErrInvalidSignature",
	ErrNonStandardOutput:      "ErrNonStandardOutput",
	ErrIndexOutOfRange:        "ErrIndexOutOfRange",
	ErrDuplicateInput:         "ErrDuplicateInput",
	ErrUnsupportedSigHash:     "ErrUnsupportedSigHash",
	ErrInvalidMode:            "ErrInvalidMode",
	ErrIncompatible:           "ErrIncompatible",
	ErrMalformedState:         "ErrMalformedState",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error implements the error interface.
func (e ErrorCode) Error() string {
	return e.String()
}

// Error is returned by every builder operation. Input is the index of the
// input concerned, or -1.
type Error struct {
	Code        ErrorCode
	Func        string
	Input       int
	Description string
	Cause       error
}

// Error satisfies the error interface and prints human-readable errors.
func (e *Error) Error() string {
	var s string
	if e.Input >= 0 {
		s = fmt.Sprintf("%s: input %d: %s", e.Func, e.Input, e.Description)
	} else {
		s = fmt.Sprintf("%s: %s", e.Func, e.Description)
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
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

// makeError creates an Error that concerns no particular input.
func makeError(c ErrorCode, fn, desc string) *Error {
	return &Error{Code: c, Func: fn, Input: -1, Description: desc}
}

// inputError creates an Error about input i.
func inputError(c ErrorCode, fn string, i int, desc string) *Error {
	return &Error{Code: c, Func: fn, Input: i, Description: desc}
}
