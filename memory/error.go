package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned when a bank access index falls outside the
	// addressable range for its view type.
	ErrOutOfRange = errors.New("memory: address out of range")

	// ErrEmptyStack is returned when a return operation is attempted on an
	// empty call stack.
	ErrEmptyStack = errors.New("memory: call stack is empty")

	// ErrStackMismatch is returned when a return operation's expected frame
	// kind does not match the frame actually on top of the stack.
	ErrStackMismatch = errors.New("memory: stack frame kind mismatch")
)

// AccessError annotates ErrOutOfRange with the offending bank/view/address,
// mirroring the teacher's XP/DP-annotated RuntimeError.
type AccessError struct {
	Bank Bank
	View int
	Addr int
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("github.com/rlvm-project/rlvm/memory: bank %v view %d addr %d: %v", e.Bank, e.View, e.Addr, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }
