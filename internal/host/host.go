// Package host defines the minimal surface/audio/event/dialog boundary
// spec.md §1 names as external collaborators "specified only by the
// interfaces the core consumes." A headless run wires NullSystem; a real
// front end implements System against its own windowing and audio stack
// without either side importing the other.
package host

import "time"

// System is the seam between the machine and everything spec.md scopes
// out of the core: rendering, audio, and input. None of its methods are
// called by machine/modules directly; cmd/rlvm wraps it in a Clock, the
// collaborator the Sys module's wait operations use. No code in this
// module calls CursorPosition, PresentFrame, PlaySound or Dialog.
type System interface {
	// Now returns the host's wall-clock time, backing the wait long
	// operation's target-time arithmetic.
	Now() time.Time

	// CursorPosition reports the last known pointer location, backing
	// the mouse-click handler's cursor recording (spec.md §4.5).
	CursorPosition() (x, y int)

	// PresentFrame hands a rendered frame to the display surface. The
	// core never calls this; it exists so a graphical front end has a
	// named seam to implement against.
	PresentFrame()

	// PlaySound starts playback of the named audio cue. Like
	// PresentFrame, this is a front-end seam with no core caller.
	PlaySound(name string)

	// Dialog surfaces a blocking host dialog (used by save/load prompts
	// outside this core's scope) and reports the user's choice.
	Dialog(prompt string, options []string) (choice int, err error)
}

// NullSystem is a no-op System for headless runs: PresentFrame/PlaySound
// do nothing, Dialog always picks the first option, and Now/CursorPosition
// fall back to the real clock and the origin.
type NullSystem struct{}

func (NullSystem) Now() time.Time             { return time.Now() }
func (NullSystem) CursorPosition() (int, int) { return 0, 0 }
func (NullSystem) PresentFrame()              {}
func (NullSystem) PlaySound(string)           {}
func (NullSystem) Dialog(_ string, options []string) (int, error) {
	return 0, nil
}

// Clock adapts a System to the modules.Clock interface the Sys module's
// wait operations need, converting System.Now to milliseconds since the
// adapter was constructed so WaitLongOp's target arithmetic stays in a
// comfortably small int64 range.
type Clock struct {
	sys   System
	epoch time.Time
}

// NewClock returns a Clock rooted at sys's current time.
func NewClock(sys System) *Clock {
	return &Clock{sys: sys, epoch: sys.Now()}
}

// Milliseconds returns elapsed time since the Clock was constructed.
func (c *Clock) Milliseconds() int64 {
	return c.sys.Now().Sub(c.epoch).Milliseconds()
}
