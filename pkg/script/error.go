package script

import "fmt"

// ErrorCode identifies a kind of script error.
type ErrorCode int

const (
	// ErrMalformedPush indicates a push opcode whose data runs past the
	// end of the script.
	ErrMalformedPush ErrorCode = iota

	// ErrMalformedRedeemScript indicates a multisig redeem script that
	// does not follow OP_m <pubkey>... OP_n OP_CHECKMULTISIG, or whose
	// parameters are out of range.
	ErrMalformedRedeemScript

	// ErrInvalidHashLength indicates a hash that is not 20 bytes.
	ErrInvalidHashLength

	// ErrUnsupportedAddress indicates an address whose version byte is
	// neither the pay-to-pubkey-hash nor the pay-to-script-hash id of the
	// network.
	ErrUnsupportedAddress

	// ErrNonStandard indicates a script that matches no standard template.
	ErrNonStandard

	// ErrScriptTooLong indicates a script built past the maximum size.
	ErrScriptTooLong

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

var errorCodeStrings = map[ErrorCode]string{
	ErrMalformedPush:         "ErrMalformedPush",
	ErrMalformedRedeemScript: "ErrMalformedRedeemScript",
	ErrInvalidHashLength:     "ErrInvalidHashLength",
	ErrUnsupportedAddress:    "ErrUnsupportedAddress",
	ErrNonStandard:           "ErrNonStandard",
	ErrScriptTooLong:         "ErrScriptTooLong",
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

// Error identifies a script-related error. It has full support for
// errors.Is and errors.As, so the caller can ascertain the specific reason
// for the error by checking the underlying error code.
type Error struct {
	Code        ErrorCode
	Description string
	Cause       error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Description, e.Cause)
	}
	return e.Description
}

// Unwrap returns the underlying cause.
func (e Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error's code.
func (e Error) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

// scriptError creates an Error given a set of arguments.
func scriptError(c ErrorCode, desc string) Error {
	return Error{Code: c, Description: desc}
}
