package expr

import (
	"fmt"
	"sort"
)

// OpCode identifies an expression operator byte, per SPEC_FULL.md §6's
// operator table.
type OpCode byte

const (
	OpAdd OpCode = 0x00
	OpSub OpCode = 0x01
	OpMul OpCode = 0x02
	OpDiv OpCode = 0x03
	OpMod OpCode = 0x04
	OpAnd OpCode = 0x05
	OpOr  OpCode = 0x06
	OpXor OpCode = 0x07
	OpShl OpCode = 0x08
	OpShr OpCode = 0x09

	// compoundAssignBase..compoundAssignMax are compound assignment
	// operators (+=, -=, ...); the arithmetic op they combine with is
	// code - compoundAssignBase.
	compoundAssignBase OpCode = 0x14
	compoundAssignMax  OpCode = 0x1d

	OpAssign OpCode = 0x1e

	OpEq OpCode = 0x28
	OpNe OpCode = 0x29
	OpLe OpCode = 0x2a
	OpLt OpCode = 0x2b
	OpGe OpCode = 0x2c
	OpGt OpCode = 0x2d

	OpLogicalAnd OpCode = 0x3c
	OpLogicalOr  OpCode = 0x3d
)

// OpMeta describes one operator byte.
type OpMeta struct {
	Code    OpCode
	Name    string
	Illegal bool
}

var opMeta = []OpMeta{
	{Code: OpAdd, Name: "+"},
	{Code: OpSub, Name: "-"},
	{Code: OpMul, Name: "*"},
	{Code: OpDiv, Name: "/"},
	{Code: OpMod, Name: "%"},
	{Code: OpAnd, Name: "&"},
	{Code: OpOr, Name: "|"},
	{Code: OpXor, Name: "^"},
	{Code: OpShl, Name: "<<"},
	{Code: OpShr, Name: ">>"},
	{Code: 0x14, Name: "+="},
	{Code: 0x15, Name: "-="},
	{Code: 0x16, Name: "*="},
	{Code: 0x17, Name: "/="},
	{Code: 0x18, Name: "%="},
	{Code: 0x19, Name: "&="},
	{Code: 0x1a, Name: "|="},
	{Code: 0x1b, Name: "^="},
	{Code: 0x1c, Name: "<<="},
	{Code: 0x1d, Name: ">>="},
	{Code: OpAssign, Name: "="},
	{Code: OpEq, Name: "=="},
	{Code: OpNe, Name: "!="},
	{Code: OpLe, Name: "<="},
	{Code: OpLt, Name: "<"},
	{Code: OpGe, Name: ">="},
	{Code: OpGt, Name: ">"},
	{Code: OpLogicalAnd, Name: "&&"},
	{Code: OpLogicalOr, Name: "||"},
}

type byOpCode []OpMeta

var _ sort.Interface = (byOpCode)(nil)

func (x byOpCode) Len() int           { return len(x) }
func (x byOpCode) Less(i, j int) bool { return x[i].Code < x[j].Code }
func (x byOpCode) Swap(i, j int)      { x[i], x[j] = x[j], x[i] }

func init() {
	assertSorted(sort.IsSorted(byOpCode(opMeta)), "opMeta must be sorted by Code")
}

func assertSorted(cond bool, msg string) {
	if !cond {
		panic("expr: " + msg)
	}
}

// Meta looks up an operator byte's metadata, returning a synthesised
// Illegal entry for unrecognised bytes.
func (c OpCode) Meta() *OpMeta {
	i := sort.Search(len(opMeta), func(i int) bool { return opMeta[i].Code >= c })
	if i < len(opMeta) && opMeta[i].Code == c {
		return &opMeta[i]
	}
	return &OpMeta{Code: c, Illegal: true, Name: fmt.Sprintf("ILLEGAL#%02x", byte(c))}
}

func (c OpCode) String() string { return c.Meta().Name }

// IsCompoundAssign reports whether code is one of the 0x14..0x1D compound
// assignment operators.
func IsCompoundAssign(code byte) bool {
	return OpCode(code) >= compoundAssignBase && OpCode(code) <= compoundAssignMax
}

// ArithmeticOp returns the arithmetic operator a compound assignment code
// combines with, e.g. 0x14 ("+=") -> OpAdd.
func ArithmeticOp(compoundCode byte) OpCode {
	return OpCode(compoundCode) - compoundAssignBase
}

func isHighArith(op byte) bool { return op >= byte(OpMul) && op <= byte(OpShr) }
func isLowArith(op byte) bool  { return op == byte(OpAdd) || op == byte(OpSub) }
func isCompare(op byte) bool   { return op >= byte(OpEq) && op <= byte(OpGt) }
