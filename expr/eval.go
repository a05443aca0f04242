package expr

import "github.com/rlvm-project/rlvm/memory"

// Value is the runtime result of evaluating a Piece: either an integer or
// a string, never both.
type Value struct {
	Int    int32
	Str    string
	IsStr  bool
}

// Env is the memory context expressions evaluate against: the nine
// integer banks, three string banks, and the store register, addressed
// through MemoryRef's raw bank byte.
type Env struct {
	Mem *memory.Memory
}

// EvalInt evaluates p and requires an integer result.
func (e *Env) EvalInt(p Piece) (int32, error) {
	v, err := e.Eval(p)
	if err != nil {
		return 0, err
	}
	if v.IsStr {
		return 0, &EvalError{Piece: p, Err: ErrTypeMismatch}
	}
	return v.Int, nil
}

// EvalString evaluates p and requires a string result.
func (e *Env) EvalString(p Piece) (string, error) {
	v, err := e.Eval(p)
	if err != nil {
		return "", err
	}
	if !v.IsStr {
		return "", &EvalError{Piece: p, Err: ErrTypeMismatch}
	}
	return v.Str, nil
}

// Eval evaluates p against the environment's memory.
func (e *Env) Eval(p Piece) (Value, error) {
	switch t := p.(type) {
	case IntConstant:
		return Value{Int: t.Value}, nil

	case StringConstant:
		return Value{Str: t.Value, IsStr: true}, nil

	case StoreRegisterPiece:
		return Value{Int: e.Mem.StoreRegister()}, nil

	case MemoryRef:
		return e.evalMemoryRef(t)

	case Unary:
		return e.evalUnary(t)

	case Binary:
		return e.evalBinary(t)

	case Assignment:
		return e.evalAssignment(t)

	case Complex:
		// A bare Complex evaluates to its last item; callers that need
		// the whole tuple project it directly (module parameter binding).
		if len(t.Items) == 0 {
			return Value{}, &EvalError{Piece: p, Err: ErrTypeMismatch}
		}
		return e.Eval(t.Items[len(t.Items)-1])

	case Special:
		return Value{Int: t.Tag}, nil

	default:
		return Value{}, &EvalError{Piece: p, Err: ErrTypeMismatch}
	}
}

// ResolveIntRef evaluates ref's index and resolves its bank byte to a
// canonical integer Bank, for callers (the Mem module's ranged
// operations) that need raw (bank, addr) pairs rather than a single
// Eval'd value. It rejects string banks and the store register.
func (e *Env) ResolveIntRef(ref MemoryRef) (bank memory.Bank, addr int, err error) {
	code := int(ref.Bank)
	if !memory.IsIntBankCode(code) {
		return 0, 0, &EvalError{Piece: ref, Err: ErrUnknownBank}
	}
	idx, err := e.EvalInt(ref.Index)
	if err != nil {
		return 0, 0, err
	}
	return memory.NormalizeIntBank(code), int(idx), nil
}

func (e *Env) evalMemoryRef(ref MemoryRef) (Value, error) {
	code := int(ref.Bank)
	idx, err := e.EvalInt(ref.Index)
	if err != nil {
		return Value{}, err
	}

	if memory.IsStoreRegisterCode(code) {
		return Value{Int: e.Mem.StoreRegister()}, nil
	}
	if sb, ok := memory.NormalizeStringBank(code); ok {
		s, err := e.Mem.ReadString(sb, int(idx))
		if err != nil {
			return Value{}, &EvalError{Piece: ref, Err: err}
		}
		return Value{Str: s, IsStr: true}, nil
	}
	if memory.IsIntBankCode(code) {
		bank := memory.NormalizeIntBank(code)
		v, err := e.Mem.ReadInt(bank, 0, int(idx))
		if err != nil {
			return Value{}, &EvalError{Piece: ref, Err: err}
		}
		return Value{Int: v}, nil
	}
	return Value{}, &EvalError{Piece: ref, Err: ErrUnknownBank}
}

// writeMemoryRef stores value into ref's lvalue, per the same bank
// resolution evalMemoryRef uses for reads.
func (e *Env) writeMemoryRef(ref MemoryRef, value Value) error {
	code := int(ref.Bank)
	idx, err := e.EvalInt(ref.Index)
	if err != nil {
		return err
	}

	if memory.IsStoreRegisterCode(code) {
		e.Mem.SetStoreRegister(value.Int)
		return nil
	}
	if sb, ok := memory.NormalizeStringBank(code); ok {
		return e.Mem.WriteString(sb, int(idx), value.Str)
	}
	if memory.IsIntBankCode(code) {
		bank := memory.NormalizeIntBank(code)
		return e.Mem.WriteInt(bank, 0, int(idx), value.Int)
	}
	return &EvalError{Piece: ref, Err: ErrUnknownBank}
}

func (e *Env) evalUnary(u Unary) (Value, error) {
	v, err := e.EvalInt(u.Arg)
	if err != nil {
		return Value{}, err
	}
	if u.Op == 1 {
		v = -v
	}
	return Value{Int: v}, nil
}

func (e *Env) evalBinary(b Binary) (Value, error) {
	lhs, err := e.EvalInt(b.LHS)
	if err != nil {
		return Value{}, err
	}
	rhs, err := e.EvalInt(b.RHS)
	if err != nil {
		return Value{}, err
	}
	v, err := applyOp(b.Op, lhs, rhs)
	if err != nil {
		return Value{}, &EvalError{Piece: b, Err: err}
	}
	return Value{Int: v}, nil
}

// applyOp implements SPEC_FULL.md §8's divide-by-zero identity: a/0 and
// a%0 both return a unchanged, rather than faulting.
func applyOp(op byte, lhs, rhs int32) (int32, error) {
	switch OpCode(op) {
	case OpAdd:
		return lhs + rhs, nil
	case OpSub:
		return lhs - rhs, nil
	case OpMul:
		return lhs * rhs, nil
	case OpDiv:
		if rhs == 0 {
			return lhs, nil
		}
		return lhs / rhs, nil
	case OpMod:
		if rhs == 0 {
			return lhs, nil
		}
		return lhs % rhs, nil
	case OpAnd:
		return lhs & rhs, nil
	case OpOr:
		return lhs | rhs, nil
	case OpXor:
		return lhs ^ rhs, nil
	case OpShl:
		return lhs << uint(rhs), nil
	case OpShr:
		return lhs >> uint(rhs), nil
	case OpEq:
		return boolInt(lhs == rhs), nil
	case OpNe:
		return boolInt(lhs != rhs), nil
	case OpLe:
		return boolInt(lhs <= rhs), nil
	case OpLt:
		return boolInt(lhs < rhs), nil
	case OpGe:
		return boolInt(lhs >= rhs), nil
	case OpGt:
		return boolInt(lhs > rhs), nil
	case OpLogicalAnd:
		return boolInt(lhs != 0 && rhs != 0), nil
	case OpLogicalOr:
		return boolInt(lhs != 0 || rhs != 0), nil
	default:
		return 0, ErrUnknownOperator
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// evalAssignment implements SPEC_FULL.md §4.3: rhs evaluates first,
// combines with lhs's current value for compound operators (or replaces
// it outright for `=`), writes back, and returns the new value — the Law
// backing "(x = e) evaluated as an expression returns e".
func (e *Env) evalAssignment(a Assignment) (Value, error) {
	ref, ok := a.LValue.(MemoryRef)
	var storeReg bool
	if !ok {
		if _, isStore := a.LValue.(StoreRegisterPiece); !isStore {
			return Value{}, &EvalError{Piece: a, Err: ErrNotLValue}
		}
		storeReg = true
	}

	rhs, err := e.Eval(a.RValue)
	if err != nil {
		return Value{}, err
	}

	var result Value
	if a.Op == byte(OpAssign) {
		result = rhs
	} else {
		var cur Value
		if storeReg {
			cur = Value{Int: e.Mem.StoreRegister()}
		} else {
			cur, err = e.evalMemoryRef(ref)
			if err != nil {
				return Value{}, err
			}
		}
		v, err := applyOp(byte(ArithmeticOp(a.Op)), cur.Int, rhs.Int)
		if err != nil {
			return Value{}, &EvalError{Piece: a, Err: err}
		}
		result = Value{Int: v}
	}

	if storeReg {
		e.Mem.SetStoreRegister(result.Int)
		return result, nil
	}
	if err := e.writeMemoryRef(ref, result); err != nil {
		return Value{}, err
	}
	return result, nil
}
