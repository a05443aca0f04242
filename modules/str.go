package modules

import (
	"strconv"
	"strings"

	"github.com/rlvm-project/rlvm/expr"
	"github.com/rlvm-project/rlvm/machine"
)

// NewStrModule returns the string operations, grounded on
// Module_Str.cpp's Str_strcpy/strclear/strlen/strcmp/strout/intout/
// strused family (modtype 1, module 10).
func NewStrModule() *machine.Module {
	m := machine.NewModule("Str")
	m.Register(0, 0, strCopy{withCount: false})
	m.Register(0, 1, strCopy{withCount: true})
	m.Register(1, 0, strClear{ranged: false})
	m.Register(1, 1, strClear{ranged: true})
	m.Register(2, 0, strLen{})
	m.Register(3, 0, strCmp{})
	m.Register(100, 0, strOut{})
	m.Register(100, 1, intOut{})
	m.Register(200, 0, strUsed{})
	return m
}

func resolveStrRef(env *expr.Env, p expr.Piece) (expr.MemoryRef, error) {
	ref, ok := p.(expr.MemoryRef)
	if !ok {
		return expr.MemoryRef{}, &expr.EvalError{Piece: p, Err: expr.ErrTypeMismatch}
	}
	return ref, nil
}

// strCopy implements Str_strcpy_0/_1: assign val to dest, or (withCount)
// truncate/pad val to exactly count characters first.
type strCopy struct{ withCount bool }

func (s strCopy) ParamKinds() []machine.ParamKind {
	if s.withCount {
		return []machine.ParamKind{machine.KindStrRef, machine.KindStrConst, machine.KindIntConst}
	}
	return []machine.ParamKind{machine.KindStrRef, machine.KindStrConst}
}
func (strCopy) Disposition() machine.Disposition { return machine.Void }

func (s strCopy) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	dest, err := resolveStrRef(env, args[0])
	if err != nil {
		return 0, err
	}
	val, err := env.EvalString(args[1])
	if err != nil {
		return 0, err
	}
	if s.withCount {
		count, err := env.EvalInt(args[2])
		if err != nil {
			return 0, err
		}
		r := []rune(val)
		if int(count) <= len(r) {
			val = string(r[:count])
		} else {
			val = string(r) + strings.Repeat(" ", int(count)-len(r))
		}
	}
	return 0, writeStr(env, dest, val)
}

func writeStr(env *expr.Env, ref expr.MemoryRef, val string) error {
	_, err := env.Eval(expr.Assignment{Op: byte(expr.OpAssign), LValue: ref, RValue: expr.StringConstant{Value: val}})
	return err
}

// strClear implements Str_strclear_0/_1: blank one string variable, or
// every string variable in the inclusive [first, last] range.
type strClear struct{ ranged bool }

func (s strClear) ParamKinds() []machine.ParamKind {
	if s.ranged {
		return []machine.ParamKind{machine.KindStrRef, machine.KindStrRef}
	}
	return []machine.ParamKind{machine.KindStrRef}
}
func (strClear) Disposition() machine.Disposition { return machine.Void }

func (s strClear) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	first, err := resolveStrRef(env, args[0])
	if err != nil {
		return 0, err
	}
	if !s.ranged {
		return 0, writeStr(env, first, "")
	}
	last, err := resolveStrRef(env, args[1])
	if err != nil {
		return 0, err
	}
	if first.Bank != last.Bank {
		return 0, ErrRangeBankMismatch
	}
	firstIdx, err := env.EvalInt(first.Index)
	if err != nil {
		return 0, err
	}
	lastIdx, err := env.EvalInt(last.Index)
	if err != nil {
		return 0, err
	}
	for i := firstIdx; i <= lastIdx; i++ {
		ref := expr.MemoryRef{Bank: first.Bank, Index: expr.IntConstant{Value: i}}
		if err := writeStr(env, ref, ""); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

type strLen struct{}

func (strLen) ParamKinds() []machine.ParamKind  { return []machine.ParamKind{machine.KindStrConst} }
func (strLen) Disposition() machine.Disposition { return machine.Store }

func (strLen) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	s, err := env.EvalString(args[0])
	if err != nil {
		return 0, err
	}
	return int32(len(s)), nil
}

type strCmp struct{}

func (strCmp) ParamKinds() []machine.ParamKind {
	return []machine.ParamKind{machine.KindStrConst, machine.KindStrConst}
}
func (strCmp) Disposition() machine.Disposition { return machine.Store }

func (strCmp) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	lhs, err := env.EvalString(args[0])
	if err != nil {
		return 0, err
	}
	rhs, err := env.EvalString(args[1])
	if err != nil {
		return 0, err
	}
	return int32(strings.Compare(lhs, rhs)), nil
}

type strOut struct{}

func (strOut) ParamKinds() []machine.ParamKind  { return []machine.ParamKind{machine.KindStrConst} }
func (strOut) Disposition() machine.Disposition { return machine.Void }

func (strOut) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	s, err := env.EvalString(args[0])
	if err != nil {
		return 0, err
	}
	if m.TextOut != nil {
		m.TextOut(machine.DecodeShiftJIS(s))
	}
	return 0, nil
}

type intOut struct{}

func (intOut) ParamKinds() []machine.ParamKind  { return []machine.ParamKind{machine.KindIntConst} }
func (intOut) Disposition() machine.Disposition { return machine.Void }

func (intOut) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	v, err := env.EvalInt(args[0])
	if err != nil {
		return 0, err
	}
	if m.TextOut != nil {
		m.TextOut(strconv.FormatInt(int64(v), 10))
	}
	return 0, nil
}

type strUsed struct{}

func (strUsed) ParamKinds() []machine.ParamKind  { return []machine.ParamKind{machine.KindStrRef} }
func (strUsed) Disposition() machine.Disposition { return machine.Store }

func (strUsed) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	ref, err := resolveStrRef(env, args[0])
	if err != nil {
		return 0, err
	}
	v, err := env.Eval(ref)
	if err != nil {
		return 0, err
	}
	if v.Str != "" {
		return 1, nil
	}
	return 0, nil
}
