package modules

import (
	"testing"

	"github.com/rlvm-project/rlvm/expr"
	"github.com/rlvm-project/rlvm/machine"
	"github.com/rlvm-project/rlvm/memory"
	"github.com/rlvm-project/rlvm/scenario"
	"github.com/stretchr/testify/require"
)

type fakeScenarios struct {
	scripts map[int]*scenario.Script
}

func (f *fakeScenarios) Scenario(id int) (*scenario.Script, error) {
	return f.scripts[id], nil
}

func emptyScript() *scenario.Script {
	return &scenario.Script{Elements: nil, Entrypoints: map[int]scenario.ElementHandle{}}
}

func newTestMachine() *machine.Machine {
	return machine.New(&fakeScenarios{scripts: map[int]*scenario.Script{0: emptyScript()}}, machine.NewRegistry(), 0, 0)
}

func intRef(bank memory.Bank, addr int32) expr.Piece {
	return expr.MemoryRef{Bank: byte(bank), Index: expr.IntConstant{Value: addr}}
}

func TestMemSetarrayWritesConsecutiveAddresses(t *testing.T) {
	m := newTestMachine()
	op := memSetarray{}
	_, err := op.Call(m, []expr.Piece{
		intRef(memory.BankA, 0),
		expr.IntConstant{Value: 10},
		expr.IntConstant{Value: 20},
		expr.IntConstant{Value: 30},
	})
	require.NoError(t, err)
	v0, _ := m.Mem.ReadInt(memory.BankA, 0, 0)
	v1, _ := m.Mem.ReadInt(memory.BankA, 0, 1)
	v2, _ := m.Mem.ReadInt(memory.BankA, 0, 2)
	require.EqualValues(t, 10, v0)
	require.EqualValues(t, 20, v1)
	require.EqualValues(t, 30, v2)
}

func TestMemSetrngFillsInclusiveRange(t *testing.T) {
	m := newTestMachine()
	op := memSetrng{withValue: true}
	_, err := op.Call(m, []expr.Piece{
		intRef(memory.BankB, 2),
		intRef(memory.BankB, 4),
		expr.IntConstant{Value: 7},
	})
	require.NoError(t, err)
	for addr := int32(2); addr <= 4; addr++ {
		v, _ := m.Mem.ReadInt(memory.BankB, 0, int(addr))
		require.EqualValues(t, 7, v)
	}
	v, _ := m.Mem.ReadInt(memory.BankB, 0, 5)
	require.Zero(t, v)
}

func TestMemSumAccumulatesInclusiveRange(t *testing.T) {
	m := newTestMachine()
	require.NoError(t, m.Mem.WriteInt(memory.BankC, 0, 0, 1))
	require.NoError(t, m.Mem.WriteInt(memory.BankC, 0, 1, 2))
	require.NoError(t, m.Mem.WriteInt(memory.BankC, 0, 2, 3))

	op := memSum{}
	total, err := op.Call(m, []expr.Piece{intRef(memory.BankC, 0), intRef(memory.BankC, 2)})
	require.NoError(t, err)
	require.EqualValues(t, 6, total)
}

func TestMemSetrngRejectsCrossBankRange(t *testing.T) {
	m := newTestMachine()
	op := memSetrng{}
	_, err := op.Call(m, []expr.Piece{intRef(memory.BankA, 0), intRef(memory.BankB, 2)})
	require.ErrorIs(t, err, ErrRangeBankMismatch)
}

func TestStrCopyAssignsValue(t *testing.T) {
	m := newTestMachine()
	op := strCopy{}
	dest := expr.MemoryRef{Bank: byte(memory.StringSInBytecode), Index: expr.IntConstant{Value: 0}}
	_, err := op.Call(m, []expr.Piece{dest, expr.StringConstant{Value: "hello"}})
	require.NoError(t, err)
	s, err := m.Mem.ReadString(memory.StringS, 0)
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestStrLenCountsBytes(t *testing.T) {
	m := newTestMachine()
	op := strLen{}
	v, err := op.Call(m, []expr.Piece{expr.StringConstant{Value: "abc"}})
	require.NoError(t, err)
	require.EqualValues(t, 3, v)
}

func TestStrCmpOrdersLexically(t *testing.T) {
	m := newTestMachine()
	op := strCmp{}
	v, err := op.Call(m, []expr.Piece{expr.StringConstant{Value: "a"}, expr.StringConstant{Value: "b"}})
	require.NoError(t, err)
	require.Negative(t, v)
}

func TestStrOutCallsTextOut(t *testing.T) {
	m := newTestMachine()
	var got string
	m.TextOut = func(s string) { got = s }
	op := strOut{}
	_, err := op.Call(m, []expr.Piece{expr.StringConstant{Value: "hi"}})
	require.NoError(t, err)
	require.Equal(t, "hi", got)
}

func TestFarcallPushesFrameAtEntrypoint(t *testing.T) {
	target := &scenario.Script{
		Elements:    make([]scenario.Element, 5),
		Entrypoints: map[int]scenario.ElementHandle{0: 3},
	}
	for i := range target.Elements {
		target.Elements[i] = scenario.CommaElement{Offset: i}
	}
	m := machine.New(&fakeScenarios{scripts: map[int]*scenario.Script{
		0: emptyScript(),
		1: target,
	}}, machine.NewRegistry(), 0, 0)

	op := farcallOp{}
	_, err := op.Call(m, []expr.Piece{expr.IntConstant{Value: 1}, expr.IntConstant{Value: 0}})
	require.NoError(t, err)
	require.Equal(t, 1, m.Stack.Top().Scenario)
	require.Equal(t, 3, m.Stack.Top().IP)
	require.Equal(t, memory.FrameFarCall, m.Stack.Top().Kind)
}

func TestFarcallUnknownEntrypointErrors(t *testing.T) {
	m := machine.New(&fakeScenarios{scripts: map[int]*scenario.Script{
		0: emptyScript(),
		1: emptyScript(),
	}}, machine.NewRegistry(), 0, 0)
	op := farcallOp{}
	_, err := op.Call(m, []expr.Piece{expr.IntConstant{Value: 1}, expr.IntConstant{Value: 99}})
	require.ErrorIs(t, err, ErrUnknownEntrypoint)
}

type fakeClock struct{ ms int64 }

func (c *fakeClock) Milliseconds() int64 { return c.ms }

func TestWaitLongOpCompletesAtTargetTime(t *testing.T) {
	clock := &fakeClock{ms: 1000}
	m := newTestMachine()
	op := waitOp{clock: clock}
	_, err := op.Call(m, []expr.Piece{expr.IntConstant{Value: 500}})
	require.NoError(t, err)

	halted, err := m.Step()
	require.NoError(t, err)
	require.False(t, halted)

	clock.ms = 1499
	halted, err = m.Step()
	require.NoError(t, err)
	require.False(t, halted)

	clock.ms = 1500
	halted, err = m.Step()
	require.NoError(t, err)
	require.False(t, halted)
}

func TestWaitLongOpBreaksOnClick(t *testing.T) {
	clock := &fakeClock{ms: 0}
	m := newTestMachine()
	w := &WaitLongOp{target: 10000, clock: clock, breakOnClick: true}

	require.Equal(t, machine.Continue, w.Tick(m))
	w.NotifyClick()
	require.Equal(t, machine.Done, w.Tick(m))
}
