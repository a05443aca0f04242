package machine

import (
	"testing"

	"github.com/rlvm-project/rlvm/scenario"
	"github.com/stretchr/testify/require"
)

type fakeScenarios struct {
	scripts map[int]*scenario.Script
}

func (f *fakeScenarios) Scenario(id int) (*scenario.Script, error) {
	return f.scripts[id], nil
}

func twoCommaScript() *scenario.Script {
	return &scenario.Script{
		Elements: []scenario.Element{
			scenario.CommaElement{Offset: 0},
			scenario.CommaElement{Offset: 1},
		},
		Entrypoints: map[int]scenario.ElementHandle{},
	}
}

// recordingLongOp pushes a child the first time it ticks, then completes
// on its second tick, matching concrete scenario 6's decorator sequence.
type recordingLongOp struct {
	name    string
	log     *[]string
	child   LongOperation
	ticked  bool
}

func (op *recordingLongOp) Tick(m *Machine) TickResult {
	*op.log = append(*op.log, op.name)
	if !op.ticked {
		op.ticked = true
		if op.child != nil {
			m.PushLongOperation(op.child)
		}
		return Continue
	}
	return Done
}

type oneShotLongOp struct {
	name string
	log  *[]string
}

func (op *oneShotLongOp) Tick(m *Machine) TickResult {
	*op.log = append(*op.log, op.name)
	return Done
}

func TestLongOperationDecoratorSequencing(t *testing.T) {
	script := twoCommaScript()
	m := New(&fakeScenarios{scripts: map[int]*scenario.Script{0: script}}, NewRegistry(), 0, 0)

	var log []string
	child := &oneShotLongOp{name: "B", log: &log}
	parent := &recordingLongOp{name: "A", log: &log, child: child}
	m.PushLongOperation(parent)

	// Tick 1: A runs, pushes B, stays on the stack (Continue).
	halted, err := m.Step()
	require.NoError(t, err)
	require.False(t, halted)
	require.Equal(t, []string{"A"}, log)
	require.Equal(t, 0, m.Stack.Top().IP)

	// Tick 2: B runs to completion and is popped.
	halted, err = m.Step()
	require.NoError(t, err)
	require.False(t, halted)
	require.Equal(t, []string{"A", "B"}, log)

	// Tick 3: A resumes, completes, is popped. Bytecode IP still untouched.
	halted, err = m.Step()
	require.NoError(t, err)
	require.False(t, halted)
	require.Equal(t, []string{"A", "B", "A"}, log)
	require.Equal(t, 0, m.Stack.Top().IP)

	// Only now does bytecode resume, one element per step.
	halted, err = m.Step()
	require.NoError(t, err)
	require.False(t, halted)
	require.Equal(t, 1, m.Stack.Top().IP)

	halted, err = m.Step()
	require.NoError(t, err)
	require.True(t, halted)
}

func faultingCommandScript() *scenario.Script {
	return &scenario.Script{
		Elements: []scenario.Element{
			&scenario.CommandElement{
				Offset: 0,
				Ident:  scenario.CommandIdent{ModType: 1, Module: 99, Opcode: 0, Argc: 0, Overload: 0},
				Kind:   scenario.CommandFunction,
			},
		},
		Entrypoints: map[int]scenario.ElementHandle{},
	}
}

func TestIPAdvancesAfterException(t *testing.T) {
	script := faultingCommandScript()
	m := New(&fakeScenarios{scripts: map[int]*scenario.Script{0: script}}, NewRegistry(), 0, 0)

	halted, err := m.Step()
	require.Error(t, err)
	var dispatchErr *DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	require.Equal(t, ErrUndefinedModule, dispatchErr.Err)

	// The faulting element was the script's only one: the forced IP
	// advance must have halted the machine rather than re-executing it.
	require.True(t, halted)
	require.Equal(t, 1, m.Stack.Top().IP)

	// Stepping again must not re-run the faulting element.
	halted, err = m.Step()
	require.NoError(t, err)
	require.True(t, halted)
}

func TestHaltOnExceptionStopsImmediately(t *testing.T) {
	script := faultingCommandScript()
	m := New(&fakeScenarios{scripts: map[int]*scenario.Script{0: script}}, NewRegistry(), 0, 0)
	m.HaltOnException = true

	res := m.Run(10)
	require.True(t, res.Halted)
	require.Len(t, res.Errors, 1)
	require.Equal(t, 1, res.Steps)
}

func TestDecodeShiftJISConvertsDoubleByteText(t *testing.T) {
	require.Equal(t, "hello", DecodeShiftJIS("hello"))
	require.Equal(t, "日", DecodeShiftJIS("\x93\xfa"))
}

func TestTextoutElementDecodesShiftJISBeforeTextOut(t *testing.T) {
	script := &scenario.Script{
		Elements: []scenario.Element{
			scenario.TextoutElement{Offset: 0, Text: "\x93\xfa"},
		},
		Entrypoints: map[int]scenario.ElementHandle{},
	}
	m := New(&fakeScenarios{scripts: map[int]*scenario.Script{0: script}}, NewRegistry(), 0, 0)
	var got string
	m.TextOut = func(s string) { got = s }

	_, err := m.Step()
	require.NoError(t, err)
	require.Equal(t, "日", got)
}
