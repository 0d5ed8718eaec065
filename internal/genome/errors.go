package genome

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes genome errors.
type ErrorCode string

const (
	// ErrCodeInvalidPosition indicates an insert position outside [0, Len()].
	ErrCodeInvalidPosition ErrorCode = "INVALID_POSITION"

	// ErrCodeInvalidLength indicates a negative TE or genome length.
	ErrCodeInvalidLength ErrorCode = "INVALID_LENGTH"

	// ErrCodeInvariantViolation indicates the TE table disagrees with the
	// sequence. Only Check reports it.
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
)

// Error is returned by genome operations that reject their arguments.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the operation that failed ("new", "insert", "check").
	Op string

	// Message is a human-readable description.
	Message string

	// TE is the element involved, if any.
	TE TEID
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.TE != 0 {
		return fmt.Sprintf("%s: %s: %s (te=%d)", e.Op, e.Code, e.Message, e.TE)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// IsInvalidPosition reports whether err is an out of range position error.
func IsInvalidPosition(err error) bool {
	return CodeOf(err) == ErrCodeInvalidPosition
}

// IsInvalidLength reports whether err is a negative length error.
func IsInvalidLength(err error) bool {
	return CodeOf(err) == ErrCodeInvalidLength
}

// IsInvariantViolation reports whether err came from a failed Check.
func IsInvariantViolation(err error) bool {
	return CodeOf(err) == ErrCodeInvariantViolation
}

func newPositionError(pos, length int) *Error {
	return &Error{
		Code:    ErrCodeInvalidPosition,
		Op:      "insert",
		Message: fmt.Sprintf("position %d outside [0, %d]", pos, length),
	}
}

func newLengthError(op string, length int) *Error {
	return &Error{
		Code:    ErrCodeInvalidLength,
		Op:      op,
		Message: fmt.Sprintf("length %d is negative", length),
	}
}

func newInvariantError(te TEID, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvariantViolation,
		Op:      "check",
		Message: fmt.Sprintf(format, args...),
		TE:      te,
	}
}
