package response

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBody is returned by the body accessors when no entity was received
	ErrNoBody = errors.New("response has no body")
	// ErrBodyConsumed is returned when the entity stream was already handed out
	ErrBodyConsumed = errors.New("response body already consumed")
	// ErrBodyRead matches every *BodyError via errors.Is
	ErrBodyRead = errors.New("response body read failed")
)

// BodyError wraps an I/O failure while materializing the body
type BodyError struct {
	Op  string
	Err error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

// Is lets callers test for ErrBodyRead without knowing the cause
func (e *BodyError) Is(target error) bool {
	return target == ErrBodyRead
}
