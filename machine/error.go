package machine

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefinedModule is raised when a Command's (modtype, module)
	// pair has no registered Module.
	ErrUndefinedModule = errors.New("machine: undefined module")

	// ErrUndefinedOpcode is raised when a Command's (opcode, overload)
	// pair has no registered Operation within a known Module.
	ErrUndefinedOpcode = errors.New("machine: undefined opcode")

	// ErrParamTypeMismatch is raised when parsed parameters do not match
	// an Operation's declared kind tuple.
	ErrParamTypeMismatch = errors.New("machine: parameter type mismatch")

	// ErrDuplicateRegistration is raised when two Operations are
	// registered under the same key; this is a programmer error.
	ErrDuplicateRegistration = errors.New("machine: duplicate registration")
)

// DispatchError annotates a dispatch failure with the offending command
// identity, mirroring the teacher's RuntimeError{XP, DP, Op}.
type DispatchError struct {
	ModType  int
	Module   int
	Opcode   int
	Overload int
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("github.com/rlvm-project/rlvm/machine: dispatch (%d,%d,%d,%d): %v",
		e.ModType, e.Module, e.Opcode, e.Overload, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
