package wire

import "fmt"

// ErrorCode identifies a kind of decode or encode failure.
type ErrorCode int

const (
	// ErrTruncatedBuffer indicates a field that would read past the end of
	// the supplied bytes. Decoding never pads a short buffer.
	ErrTruncatedBuffer ErrorCode = iota

	// ErrMalformedMessage indicates a payload that cannot be a valid
	// encoding of its command: shorter than the command's minimum, a
	// nested length running past the payload, or a count above the
	// protocol limit.
	ErrMalformedMessage

	// ErrUnknownCommand indicates an envelope naming a command with no
	// payload decoder.
	ErrUnknownCommand

	// ErrChecksumMismatch indicates a payload whose double SHA-256 does not
	// start with the envelope checksum. DecodeMessage reports this through
	// MessageHeader.ChecksumValid and never returns it.
	ErrChecksumMismatch

	// ErrInvalidCommand indicates a command string that is too long or has
	// bytes after its NUL padding.
	ErrInvalidCommand

	// ErrPayloadTooLarge indicates a message whose payload exceeds
	// MaxMessagePayload.
	ErrPayloadTooLarge

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrTruncatedBuffer:  "ErrTruncatedBuffer",
	ErrMalformedMessage: "ErrMalformedMessage",
	ErrUnknownCommand:   "ErrUnknownCommand",
	ErrChecksumMismatch: "ErrChecksumMismatch",
	ErrInvalidCommand:   "ErrInvalidCommand",
	ErrPayloadTooLarge:  "ErrPayloadTooLarge",
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

// MessageError describes an issue with a message. The Code lets callers tell
// a peer sending garbage apart from a plain I/O failure.
type MessageError struct {
	Code        ErrorCode // Kind of failure
	Func        string    // Function name
	Description string    // Human readable description of the issue
	Cause       error     // Underlying error (if any)
}

// Error satisfies the error interface and prints human-readable errors.
func (e *MessageError) Error() string {
	msg := e.Description
	if e.Func != "" {
		msg = fmt.Sprintf("%v: %v", e.Func, e.Description)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%v: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *MessageError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error's code.
func (e *MessageError) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

// messageError creates an error for the given function, code and
// description.
func messageError(f string, code ErrorCode, desc string) *MessageError {
	return &MessageError{Code: code, Func: f, Description: desc}
}
