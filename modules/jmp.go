package modules

import (
	"errors"

	"github.com/rlvm-project/rlvm/expr"
	"github.com/rlvm-project/rlvm/machine"
)

// ErrUnknownEntrypoint is returned when farcall/gosub name an entrypoint
// id the target scenario never declares.
var ErrUnknownEntrypoint = errors.New("modules: unknown entrypoint")

// NewJmpModule returns the flow-control operations that, unlike
// Goto/GotoIf/GotoOn/GotoCase/GosubWith, are ordinary registered
// Operations rather than distinct scenario.CommandKind values: their
// arguments are plain integers with no embedded jump target, so they
// need no special byte-stream parsing, only special (self-managed)
// execution. Grounded on RLMachine::farcall/returnFromFarcall/gosub/
// returnFromGosub.
func NewJmpModule() *machine.Module {
	m := machine.NewModule("Jmp")
	m.Register(0x11, 0, farcallOp{})
	m.Register(0x12, 0, rtlOp{})
	m.Register(0x13, 0, gosubOp{})
	m.Register(0x14, 0, retOp{})
	return m
}

type farcallOp struct{}

func (farcallOp) ParamKinds() []machine.ParamKind {
	return []machine.ParamKind{machine.KindIntConst, machine.KindIntConst}
}
func (farcallOp) Disposition() machine.Disposition { return machine.Void }
func (farcallOp) SelfManaged() bool                { return true }

func (farcallOp) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	scenarioID, err := env.EvalInt(args[0])
	if err != nil {
		return 0, err
	}
	entrypoint, err := env.EvalInt(args[1])
	if err != nil {
		return 0, err
	}
	script, err := m.Scenarios.Scenario(int(scenarioID))
	if err != nil {
		return 0, err
	}
	handle, ok := script.Entrypoints[int(entrypoint)]
	if !ok {
		return 0, ErrUnknownEntrypoint
	}
	m.Stack.FarCall(int(scenarioID), int(handle))
	return 0, nil
}

type rtlOp struct{}

func (rtlOp) ParamKinds() []machine.ParamKind    { return nil }
func (rtlOp) Disposition() machine.Disposition   { return machine.Void }
func (rtlOp) SelfManaged() bool                  { return true }
func (rtlOp) Call(m *machine.Machine, _ []expr.Piece) (int32, error) {
	return 0, m.Stack.ReturnFar()
}

type gosubOp struct{}

func (gosubOp) ParamKinds() []machine.ParamKind {
	return []machine.ParamKind{machine.KindIntConst}
}
func (gosubOp) Disposition() machine.Disposition { return machine.Void }
func (gosubOp) SelfManaged() bool                { return true }

func (gosubOp) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	entrypoint, err := env.EvalInt(args[0])
	if err != nil {
		return 0, err
	}
	current := m.Stack.Top().Scenario
	script, err := m.Scenarios.Scenario(current)
	if err != nil {
		return 0, err
	}
	handle, ok := script.Entrypoints[int(entrypoint)]
	if !ok {
		return 0, ErrUnknownEntrypoint
	}
	m.Stack.Gosub(current, int(handle))
	return 0, nil
}

type retOp struct{}

func (retOp) ParamKinds() []machine.ParamKind  { return nil }
func (retOp) Disposition() machine.Disposition { return machine.Void }
func (retOp) SelfManaged() bool                { return true }
func (retOp) Call(m *machine.Machine, _ []expr.Piece) (int32, error) {
	return 0, m.Stack.ReturnGosub()
}
