package expr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rlvm-project/rlvm/memory"
)

func intLiteral(v int32) []byte {
	b := []byte{'$', 0xff, 0, 0, 0, 0}
	b[2] = byte(v)
	b[3] = byte(v >> 8)
	b[4] = byte(v >> 16)
	b[5] = byte(v >> 24)
	return b
}

// TestAddEvaluatesToSum implements spec.md §8 concrete scenario 2:
// `$ FF 05 00 00 00 \ 00 $ FF 03 00 00 00` means 5+3, evaluating to 8.
func TestAddEvaluatesToSum(t *testing.T) {
	data := append(append([]byte{}, intLiteral(5)...), append([]byte{'\\', 0x00}, intLiteral(3)...)...)
	p, n, err := Build(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	env := &Env{Mem: memory.New()}
	v, err := env.EvalInt(p)
	require.NoError(t, err)
	require.EqualValues(t, 8, v)
}

// TestDivideByZeroReturnsLeftOperand implements concrete scenario 3:
// `$ FF 07 00 00 00 \ 03 $ FF 00 00 00 00` means 7/0, evaluating to 7.
func TestDivideByZeroReturnsLeftOperand(t *testing.T) {
	data := append(append([]byte{}, intLiteral(7)...), append([]byte{'\\', 0x03}, intLiteral(0)...)...)
	p, _, err := Build(data)
	require.NoError(t, err)

	env := &Env{Mem: memory.New()}
	v, err := env.EvalInt(p)
	require.NoError(t, err)
	require.EqualValues(t, 7, v)
}

func TestModuloByZeroReturnsLeftOperand(t *testing.T) {
	env := &Env{Mem: memory.New()}
	v, err := env.EvalInt(Binary{Op: byte(OpMod), LHS: IntConstant{Value: 9}, RHS: IntConstant{Value: 0}})
	require.NoError(t, err)
	require.EqualValues(t, 9, v)
}

// TestAssignmentLawReturnsAndStores implements the Law: "(x = e) evaluated
// as an expression returns e and leaves x == e."
func TestAssignmentLawReturnsAndStores(t *testing.T) {
	env := &Env{Mem: memory.New()}
	lvalue := MemoryRef{Bank: 0, Index: IntConstant{Value: 12}} // bank A, addr 12
	assign := Assignment{Op: byte(OpAssign), LValue: lvalue, RValue: IntConstant{Value: 42}}

	v, err := env.EvalInt(assign)
	require.NoError(t, err)
	require.EqualValues(t, 42, v)

	stored, err := env.EvalInt(lvalue)
	require.NoError(t, err)
	require.EqualValues(t, 42, stored)
}

func TestCompoundAssignCombinesWithCurrentValue(t *testing.T) {
	env := &Env{Mem: memory.New()}
	lvalue := MemoryRef{Bank: 0, Index: IntConstant{Value: 3}}
	require.NoError(t, env.Mem.WriteInt(memory.BankA, 0, 3, 10))

	assign := Assignment{Op: 0x14, LValue: lvalue, RValue: IntConstant{Value: 5}} // +=
	v, err := env.EvalInt(assign)
	require.NoError(t, err)
	require.EqualValues(t, 15, v)
}

func TestStoreRegisterMemoryRefBypassesBanks(t *testing.T) {
	env := &Env{Mem: memory.New()}
	v, err := env.EvalInt(StoreRegisterPiece{})
	require.NoError(t, err)
	require.EqualValues(t, 0, v)

	_, err = env.EvalInt(Assignment{Op: byte(OpAssign), LValue: StoreRegisterPiece{}, RValue: IntConstant{Value: 7}})
	require.NoError(t, err)
	require.EqualValues(t, 7, env.Mem.StoreRegister())
}

func TestZLAliasResolvesThroughMemoryRef(t *testing.T) {
	env := &Env{Mem: memory.New()}
	ref := MemoryRef{Bank: byte(memory.IntZInBytecode), Index: IntConstant{Value: 1}}
	require.NoError(t, env.writeMemoryRef(ref, Value{Int: 99}))

	v, err := env.Mem.ReadInt(memory.BankZ, 0, 1)
	require.NoError(t, err)
	require.EqualValues(t, 99, v)
}

func TestBuildParenthesisedComparison(t *testing.T) {
	// (5 == 5)
	data := append([]byte{'('}, intLiteral(5)...)
	data = append(data, '\\', byte(OpEq))
	data = append(data, intLiteral(5)...)
	data = append(data, ')')

	p, n, err := Build(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	env := &Env{Mem: memory.New()}
	v, err := env.EvalInt(p)
	require.NoError(t, err)
	require.EqualValues(t, 1, v)
}
