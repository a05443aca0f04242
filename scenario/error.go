package scenario

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when an element's declared or implied
	// length runs past the end of the scenario payload.
	ErrTruncated = errors.New("scenario: truncated element stream")

	// ErrInvalidTarget is returned when a Goto*/GosubWith target offset
	// does not land on any parsed element's byte offset.
	ErrInvalidTarget = errors.New("scenario: target does not hit an element head")
)

// ParseError annotates a parse failure with the byte offset at which it
// was detected.
type ParseError struct {
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("github.com/rlvm-project/rlvm/scenario: parse error @ offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
