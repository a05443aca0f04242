package machine

import (
	"testing"

	"github.com/rlvm-project/rlvm/expr"
	"github.com/rlvm-project/rlvm/memory"
	"github.com/stretchr/testify/require"
)

func intRef(bank byte) expr.MemoryRef {
	return expr.MemoryRef{Bank: bank, Index: expr.IntConstant{Value: 0}}
}

func TestCheckKindsIntRefRejectsStringBank(t *testing.T) {
	kinds := []ParamKind{KindIntRef}
	require.True(t, CheckKinds(kinds, []expr.Piece{intRef(byte(memory.BankA))}))
	require.False(t, CheckKinds(kinds, []expr.Piece{intRef(byte(memory.StringSInBytecode))}))
}

func TestCheckKindsStrRefRejectsIntBank(t *testing.T) {
	kinds := []ParamKind{KindStrRef}
	require.True(t, CheckKinds(kinds, []expr.Piece{intRef(byte(memory.StringSInBytecode))}))
	require.False(t, CheckKinds(kinds, []expr.Piece{intRef(byte(memory.BankA))}))
}

func TestCheckKindsIntPairRejectsStringBank(t *testing.T) {
	kinds := []ParamKind{KindArgcIntPair}
	good := expr.Complex{Items: []expr.Piece{intRef(byte(memory.BankA)), intRef(byte(memory.BankB))}}
	bad := expr.Complex{Items: []expr.Piece{intRef(byte(memory.BankA)), intRef(byte(memory.StringSInBytecode))}}
	require.True(t, CheckKinds(kinds, []expr.Piece{good}))
	require.False(t, CheckKinds(kinds, []expr.Piece{bad}))
}
