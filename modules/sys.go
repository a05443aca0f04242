package modules

import (
	"github.com/rlvm-project/rlvm/expr"
	"github.com/rlvm-project/rlvm/machine"
)

// Clock supplies wall-clock milliseconds to the wait operations, the
// seam a host's event loop plugs into (grounded on
// Modules/Module_Sys_Wait.cpp's EventSystem::getTicks() dependency).
type Clock interface {
	Milliseconds() int64
}

// NewSysModule returns the timing operations, grounded on
// Modules/Module_Sys_Wait.cpp's LongOp_wait (modtype 1, module 4 — this
// package's own assignment; Module_Sys.cpp's registration constructor
// was not present in the retrieved source).
func NewSysModule(clock Clock) *machine.Module {
	m := machine.NewModule("Sys")
	m.Register(0, 0, waitOp{clock: clock, breakOnClick: false})
	m.Register(1, 0, waitOp{clock: clock, breakOnClick: true})
	return m
}

// waitOp installs a waitLongOp for ms milliseconds, optionally breakable
// by a click the host reports through WaitLongOp.NotifyClick.
type waitOp struct {
	clock        Clock
	breakOnClick bool
}

func (waitOp) ParamKinds() []machine.ParamKind {
	return []machine.ParamKind{machine.KindIntConst}
}
func (waitOp) Disposition() machine.Disposition { return machine.Void }

func (w waitOp) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	ms, err := env.EvalInt(args[0])
	if err != nil {
		return 0, err
	}
	m.PushLongOperation(&WaitLongOp{
		target:       w.clock.Milliseconds() + int64(ms),
		clock:        w.clock,
		breakOnClick: w.breakOnClick,
	})
	return 0, nil
}

// WaitLongOp suspends bytecode until the target time is reached or, when
// breakOnClick is set, the host reports a click via NotifyClick first.
// Grounded on LongOp_wait's wait_until_target_time_/break_on_clicks_
// fields, collapsed from its many optional exit conditions to the two
// this core actually needs.
type WaitLongOp struct {
	target       int64
	clock        Clock
	breakOnClick bool
	clicked      bool
}

// NotifyClick lets a host's input handling end the wait early.
func (w *WaitLongOp) NotifyClick() { w.clicked = true }

func (w *WaitLongOp) Tick(m *machine.Machine) machine.TickResult {
	if w.breakOnClick && w.clicked {
		return machine.Done
	}
	if w.clock.Milliseconds() >= w.target {
		return machine.Done
	}
	return machine.Continue
}
