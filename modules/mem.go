package modules

import (
	"errors"

	"github.com/rlvm-project/rlvm/expr"
	"github.com/rlvm-project/rlvm/machine"
	"github.com/rlvm-project/rlvm/memory"
)

// ErrRangeBankMismatch is returned when a Mem range operation's first
// and last references name different integer banks: the source's
// IntReferenceIterator can walk a single flat array, which a (first,
// last) pair spanning banks never does.
var ErrRangeBankMismatch = errors.New("modules: range spans two banks")

// NewMemModule returns the bulk integer-bank operations, grounded on
// Module_Mem.cpp's Mem_setarray/Mem_setrng/Mem_cpyrng/Mem_sum family
// (modtype 1, module 11).
func NewMemModule() *machine.Module {
	m := machine.NewModule("Mem")
	m.Register(0, 0, memSetarray{})
	m.Register(1, 0, memSetrng{withValue: false})
	m.Register(1, 1, memSetrng{withValue: true})
	m.Register(2, 0, memCpyrng{})
	m.Register(3, 0, memSetarrayStepped{})
	m.Register(4, 0, memSetrngStepped{withValue: false})
	m.Register(4, 1, memSetrngStepped{withValue: true})
	m.Register(6, 0, memCpyvars{})
	m.Register(100, 0, memSum{})
	m.Register(101, 0, memSums{})
	return m
}

func resolveRef(env *expr.Env, p expr.Piece) (memory.Bank, int, error) {
	ref, ok := p.(expr.MemoryRef)
	if !ok {
		return 0, 0, &expr.EvalError{Piece: p, Err: expr.ErrTypeMismatch}
	}
	return env.ResolveIntRef(ref)
}

type memSetarray struct{}

func (memSetarray) ParamKinds() []machine.ParamKind {
	return []machine.ParamKind{machine.KindIntRef, machine.KindArgcInt}
}
func (memSetarray) Disposition() machine.Disposition { return machine.Void }

func (memSetarray) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	bank, addr, err := resolveRef(env, args[0])
	if err != nil {
		return 0, err
	}
	for i, v := range args[1:] {
		val, err := env.EvalInt(v)
		if err != nil {
			return 0, err
		}
		if err := m.Mem.WriteInt(bank, 0, addr+i, val); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

// memSetrng implements Mem_setrng_0/_1: fill the inclusive [first, last]
// range with zero, or with value when withValue is set.
type memSetrng struct{ withValue bool }

func (r memSetrng) ParamKinds() []machine.ParamKind {
	if r.withValue {
		return []machine.ParamKind{machine.KindIntRef, machine.KindIntRef, machine.KindIntConst}
	}
	return []machine.ParamKind{machine.KindIntRef, machine.KindIntRef}
}
func (memSetrng) Disposition() machine.Disposition { return machine.Void }

func (r memSetrng) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	firstBank, first, err := resolveRef(env, args[0])
	if err != nil {
		return 0, err
	}
	lastBank, last, err := resolveRef(env, args[1])
	if err != nil {
		return 0, err
	}
	if firstBank != lastBank {
		return 0, ErrRangeBankMismatch
	}
	value := int32(0)
	if r.withValue {
		value, err = env.EvalInt(args[2])
		if err != nil {
			return 0, err
		}
	}
	for addr := first; addr <= last; addr++ {
		if err := m.Mem.WriteInt(firstBank, 0, addr, value); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

type memCpyrng struct{}

func (memCpyrng) ParamKinds() []machine.ParamKind {
	return []machine.ParamKind{machine.KindIntRef, machine.KindIntRef, machine.KindIntConst}
}
func (memCpyrng) Disposition() machine.Disposition { return machine.Void }

func (memCpyrng) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	srcBank, src, err := resolveRef(env, args[0])
	if err != nil {
		return 0, err
	}
	dstBank, dst, err := resolveRef(env, args[1])
	if err != nil {
		return 0, err
	}
	count, err := env.EvalInt(args[2])
	if err != nil {
		return 0, err
	}
	buf := make([]int32, count)
	for i := range buf {
		v, err := m.Mem.ReadInt(srcBank, 0, src+i)
		if err != nil {
			return 0, err
		}
		buf[i] = v
	}
	for i, v := range buf {
		if err := m.Mem.WriteInt(dstBank, 0, dst+i, v); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

type memSetarrayStepped struct{}

func (memSetarrayStepped) ParamKinds() []machine.ParamKind {
	return []machine.ParamKind{machine.KindIntRef, machine.KindIntConst, machine.KindArgcInt}
}
func (memSetarrayStepped) Disposition() machine.Disposition { return machine.Void }

func (memSetarrayStepped) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	bank, addr, err := resolveRef(env, args[0])
	if err != nil {
		return 0, err
	}
	step, err := env.EvalInt(args[1])
	if err != nil {
		return 0, err
	}
	for _, v := range args[2:] {
		val, err := env.EvalInt(v)
		if err != nil {
			return 0, err
		}
		if err := m.Mem.WriteInt(bank, 0, addr, val); err != nil {
			return 0, err
		}
		addr += int(step)
	}
	return 0, nil
}

// memSetrngStepped implements Mem_setrng_stepped_0/_1: write count values
// spaced step apart starting at origin, zero or a fixed value.
type memSetrngStepped struct{ withValue bool }

func (r memSetrngStepped) ParamKinds() []machine.ParamKind {
	if r.withValue {
		return []machine.ParamKind{machine.KindIntRef, machine.KindIntConst, machine.KindIntConst, machine.KindIntConst}
	}
	return []machine.ParamKind{machine.KindIntRef, machine.KindIntConst, machine.KindIntConst}
}
func (memSetrngStepped) Disposition() machine.Disposition { return machine.Void }

func (r memSetrngStepped) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	bank, addr, err := resolveRef(env, args[0])
	if err != nil {
		return 0, err
	}
	step, err := env.EvalInt(args[1])
	if err != nil {
		return 0, err
	}
	count, err := env.EvalInt(args[2])
	if err != nil {
		return 0, err
	}
	value := int32(0)
	if r.withValue {
		value, err = env.EvalInt(args[3])
		if err != nil {
			return 0, err
		}
	}
	for i := int32(0); i < count; i++ {
		if err := m.Mem.WriteInt(bank, 0, addr, value); err != nil {
			return 0, err
		}
		addr += int(step)
	}
	return 0, nil
}

type memCpyvars struct{}

func (memCpyvars) ParamKinds() []machine.ParamKind {
	return []machine.ParamKind{machine.KindIntRef, machine.KindIntConst, machine.KindArgcIntRef}
}
func (memCpyvars) Disposition() machine.Disposition { return machine.Void }

func (memCpyvars) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	bank, addr, err := resolveRef(env, args[0])
	if err != nil {
		return 0, err
	}
	offset, err := env.EvalInt(args[1])
	if err != nil {
		return 0, err
	}
	for _, piece := range args[2:] {
		srcBank, srcAddr, err := resolveRef(env, piece)
		if err != nil {
			return 0, err
		}
		v, err := m.Mem.ReadInt(srcBank, 0, srcAddr+int(offset))
		if err != nil {
			return 0, err
		}
		if err := m.Mem.WriteInt(bank, 0, addr, v); err != nil {
			return 0, err
		}
		addr++
	}
	return 0, nil
}

type memSum struct{}

func (memSum) ParamKinds() []machine.ParamKind {
	return []machine.ParamKind{machine.KindIntRef, machine.KindIntRef}
}
func (memSum) Disposition() machine.Disposition { return machine.Store }

func (memSum) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	firstBank, first, err := resolveRef(env, args[0])
	if err != nil {
		return 0, err
	}
	lastBank, last, err := resolveRef(env, args[1])
	if err != nil {
		return 0, err
	}
	if firstBank != lastBank {
		return 0, ErrRangeBankMismatch
	}
	return sumRange(m, firstBank, first, last)
}

func sumRange(m *machine.Machine, bank memory.Bank, first, last int) (int32, error) {
	var total int32
	for addr := first; addr <= last; addr++ {
		v, err := m.Mem.ReadInt(bank, 0, addr)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

type memSums struct{}

func (memSums) ParamKinds() []machine.ParamKind {
	return []machine.ParamKind{machine.KindArgcIntPair}
}
func (memSums) Disposition() machine.Disposition { return machine.Store }

func (memSums) Call(m *machine.Machine, args []expr.Piece) (int32, error) {
	env := &expr.Env{Mem: m.Mem}
	var total int32
	for _, piece := range args {
		c := piece.(expr.Complex)
		firstBank, first, err := resolveRef(env, c.Items[0])
		if err != nil {
			return 0, err
		}
		lastBank, last, err := resolveRef(env, c.Items[1])
		if err != nil {
			return 0, err
		}
		if firstBank != lastBank {
			return 0, ErrRangeBankMismatch
		}
		s, err := sumRange(m, firstBank, first, last)
		if err != nil {
			return 0, err
		}
		total += s
	}
	return total, nil
}
