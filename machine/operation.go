package machine

import (
	"github.com/rlvm-project/rlvm/expr"
	"github.com/rlvm-project/rlvm/memory"
)

// ParamKind identifies how one of an Operation's declared parameters
// projects from the parsed Piece pool, per spec.md §4.3's parameter-kind
// list.
type ParamKind int

const (
	KindIntConst ParamKind = iota
	KindIntRef
	KindStrConst
	KindStrRef
	KindArgcInt     // Argc<IntConst>: zero or more, to end of parameter list
	KindArgcStr     // Argc<StrConst>
	KindArgcIntRef  // Argc<IntRef>
	KindArgcIntPair // Argc<Complex2<IntRef, IntRef>>: the Mem.sums range-list shape
)

// Disposition says whether an Operation's return value feeds the store
// register.
type Disposition int

const (
	Void Disposition = iota
	Store
)

// Operation is a dispatchable command handler. This is the Go realisation
// of spec.md §9's "template-parameterised operation framework": instead
// of encoding parameter kinds at the type level (RLOp_Void_3<...>), each
// Operation carries its kind tuple as data and is checked once per call.
type Operation interface {
	ParamKinds() []ParamKind
	Disposition() Disposition
	Call(m *Machine, args []expr.Piece) (int32, error)
}

// SelfManaging is the Go analogue of RLOp_SpecialCase: an Operation whose
// Call already repositioned the instruction pointer (farcall, gosub, rtl,
// ret) and must not also receive the registry's default auto-advance.
type SelfManaging interface {
	SelfManaged() bool
}

// CheckKinds verifies a parsed parameter pool against an Operation's
// declared kind tuple. A trailing KindArgcInt/KindArgcStr consumes every
// remaining piece, matching however many there are (including zero).
func CheckKinds(kinds []ParamKind, pieces []expr.Piece) bool {
	i := 0
	for ki, k := range kinds {
		isLast := ki == len(kinds)-1
		if isLast && isArgcKind(k) {
			for ; i < len(pieces); i++ {
				if k == KindArgcIntPair {
					if !isIntRefPair(pieces[i]) {
						return false
					}
					continue
				}
				if !pieceMatchesScalar(kindScalar(k), pieces[i]) {
					return false
				}
			}
			return true
		}
		if i >= len(pieces) {
			return false
		}
		if !pieceMatchesScalar(k, pieces[i]) {
			return false
		}
		i++
	}
	return i == len(pieces)
}

func isArgcKind(k ParamKind) bool {
	switch k {
	case KindArgcInt, KindArgcStr, KindArgcIntRef, KindArgcIntPair:
		return true
	default:
		return false
	}
}

func kindScalar(k ParamKind) ParamKind {
	switch k {
	case KindArgcInt:
		return KindIntConst
	case KindArgcStr:
		return KindStrConst
	case KindArgcIntRef:
		return KindIntRef
	default:
		return k
	}
}

// isIntRefPair reports whether p is a Complex piece of exactly two
// IntRef-shaped MemoryRefs, the wire shape Mem.sums's range list uses.
func isIntRefPair(p expr.Piece) bool {
	c, ok := p.(expr.Complex)
	if !ok || len(c.Items) != 2 {
		return false
	}
	first, firstOK := c.Items[0].(expr.MemoryRef)
	second, secondOK := c.Items[1].(expr.MemoryRef)
	return firstOK && secondOK && isIntBankByte(first.Bank) && isIntBankByte(second.Bank)
}

func pieceMatchesScalar(k ParamKind, p expr.Piece) bool {
	switch k {
	case KindIntConst:
		return !isStringPiece(p)
	case KindIntRef:
		ref, ok := p.(expr.MemoryRef)
		return ok && isIntBankByte(ref.Bank)
	case KindStrConst:
		return isStringPiece(p)
	case KindStrRef:
		ref, ok := p.(expr.MemoryRef)
		return ok && isStringBankByte(ref.Bank)
	default:
		return false
	}
}

func isStringPiece(p expr.Piece) bool {
	switch t := p.(type) {
	case expr.StringConstant:
		return true
	case expr.MemoryRef:
		return isStringBankByte(t.Bank)
	default:
		return false
	}
}

func isStringBankByte(bank byte) bool {
	_, ok := memory.NormalizeStringBank(int(bank))
	return ok
}

func isIntBankByte(bank byte) bool {
	return memory.IsIntBankCode(int(bank))
}
