package merkle

import "fmt"

// ErrorCode identifies a kind of proof failure.
type ErrorCode int

const (
	// ErrInvalidProof indicates a compressed proof that does not decode to
	// a well formed tree: a hash or flag queue ran out early, input was
	// left over, a subtree was duplicated, or the rebuilt root differs from
	// the expected one.
	ErrInvalidProof ErrorCode = iota

	// ErrInconsistentProof indicates two proofs that cannot describe the
	// same tree.
	ErrInconsistentProof

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidProof:      "ErrInvalidProof",
	ErrInconsistentProof: "ErrInconsistentProof",
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

// ProofError is returned for any proof that fails to parse, verify or
// merge.
type ProofError struct {
	Code        ErrorCode
	Func        string
	Description string
}

func (e *ProofError) Error() string {
	return fmt.Sprintf("%s: %s", e.Func, e.Description)
}

// Is reports whether target is this error's code.
func (e *ProofError) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

func proofError(f string, code ErrorCode, format string, args ...interface{}) *ProofError {
	return &ProofError{
		Code:        code,
		Func:        f,
		Description: fmt.Sprintf(format, args...),
	}
}
