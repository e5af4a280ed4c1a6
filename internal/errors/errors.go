package errors

import "errors"

// Domain sentinels shared by the engines. Services translate them into
// gRPC status errors via Map; repositories return them raw.
var (
	// ErrUnauthenticated means no valid session backs the call. Engines
	// check this before issuing any write.
	ErrUnauthenticated = errors.New("no valid session")

	// ErrValidation covers rejected input: empty profession, a reaction
	// kind not allowed on the subject, a subject reference that is not
	// exactly one of post/comment.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("record not found")
)

// Validation wraps a message into an ErrValidation chain so callers can
// both errors.Is it and read the reason.
func Validation(msg string) error {
	return &validationError{msg: msg}
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }
