package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when a file is shorter than the fixed TOC.
	ErrTruncated = errors.New("archive: file shorter than table of contents")

	// ErrBadHeader is returned when a per-scenario header fails its
	// minimum-size or internal consistency checks.
	ErrBadHeader = errors.New("archive: malformed scenario header")

	// ErrNoScenario is returned when a scenario id has no populated slot.
	ErrNoScenario = errors.New("archive: no such scenario")

	// ErrEncryptedUnsupported is returned when a scenario's compiler tag
	// requires the second XOR layer but no key is registered for the game.
	ErrEncryptedUnsupported = errors.New("archive: second-layer xor key not registered for this title")

	// ErrBadCompression is returned when the LZSS stream is internally
	// inconsistent (a back-reference pointing before the start of output).
	ErrBadCompression = errors.New("archive: corrupt compressed payload")
)

// LoadError wraps ErrTruncated/ErrBadHeader/ErrEncryptedUnsupported with the
// archive path and, where applicable, the offending scenario id.
type LoadError struct {
	Path       string
	ScenarioID int
	HasID      bool
	Err        error
}

func (e *LoadError) Error() string {
	if e.HasID {
		return fmt.Sprintf("github.com/rlvm-project/rlvm/archive: %s: scenario %d: %v", e.Path, e.ScenarioID, e.Err)
	}
	return fmt.Sprintf("github.com/rlvm-project/rlvm/archive: %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
