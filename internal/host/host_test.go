package host

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixedSystem struct {
	now time.Time
}

func (f *fixedSystem) Now() time.Time             { return f.now }
func (f *fixedSystem) CursorPosition() (int, int) { return 0, 0 }
func (f *fixedSystem) PresentFrame()              {}
func (f *fixedSystem) PlaySound(string)           {}
func (f *fixedSystem) Dialog(string, []string) (int, error) {
	return 0, nil
}

func TestClockMeasuresElapsedSinceConstruction(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sys := &fixedSystem{now: start}
	clock := NewClock(sys)

	require.EqualValues(t, 0, clock.Milliseconds())

	sys.now = start.Add(250 * time.Millisecond)
	require.EqualValues(t, 250, clock.Milliseconds())
}

func TestNullSystemIsPanicFree(t *testing.T) {
	var sys NullSystem
	sys.PresentFrame()
	sys.PlaySound("click")
	x, y := sys.CursorPosition()
	require.Zero(t, x)
	require.Zero(t, y)
	choice, err := sys.Dialog("continue?", []string{"yes", "no"})
	require.NoError(t, err)
	require.Zero(t, choice)
	require.WithinDuration(t, time.Now(), sys.Now(), time.Second)
}
