package expr

import "fmt"

// Piece is one node of an expression tree: the ExprPiece sum type of
// SPEC_FULL.md §4.3. Collapsed from the source's deep inheritance tree
// into a closed Go interface, the same way scenario.Element collapses the
// bytecode element hierarchy.
type Piece interface {
	isPiece()
	String() string
}

// IntConstant is a literal i32, encoded in bytecode as `$ FF` followed by
// four little-endian bytes.
type IntConstant struct {
	Value int32
}

func (IntConstant) isPiece() {}
func (p IntConstant) String() string { return fmt.Sprintf("%d", p.Value) }

// StringConstant is a literal string. Build never produces one: it has no
// bytecode encoding in this package, and callers construct it directly
// from already-decoded text.
type StringConstant struct {
	Value string
}

func (StringConstant) isPiece() {}
func (p StringConstant) String() string { return fmt.Sprintf("%q", p.Value) }

// StoreRegisterPiece references the dedicated store register, encoded as
// `$ 0xC8`.
type StoreRegisterPiece struct{}

func (StoreRegisterPiece) isPiece() {}
func (StoreRegisterPiece) String() string { return "<store>" }

// MemoryRef addresses one word of a memory bank: `$ bank [ index ]`. Bank
// is the raw bytecode byte, normalised against memory.NormalizeIntBank /
// memory.NormalizeStringBank / memory.IsStoreRegisterCode at eval time,
// not at parse time.
type MemoryRef struct {
	Bank  byte
	Index Piece
}

func (MemoryRef) isPiece() {}
func (p MemoryRef) String() string { return fmt.Sprintf("bank%02x[%v]", p.Bank, p.Index) }

// Unary wraps a single operand: `\ 0` (identity) or `\ 1` (negate).
type Unary struct {
	Op  byte
	Arg Piece
}

func (Unary) isPiece() {}
func (p Unary) String() string { return fmt.Sprintf("(\\%02x %v)", p.Op, p.Arg) }

// Binary is a two-operand arithmetic, comparison, or logical operation.
type Binary struct {
	Op  byte
	LHS Piece
	RHS Piece
}

func (Binary) isPiece() {}
func (p Binary) String() string { return fmt.Sprintf("(%v %v %v)", p.LHS, OpCode(p.Op), p.RHS) }

// Assignment stores RValue (combined with LValue's current value for
// compound operators) back into LValue, and evaluates to the new value.
type Assignment struct {
	Op     byte
	LValue Piece
	RValue Piece
}

func (Assignment) isPiece() {}
func (p Assignment) String() string {
	return fmt.Sprintf("(%v %v= %v)", p.LValue, OpCode(p.Op), p.RValue)
}

// Complex groups a fixed, positionally-matched tuple of sub-pieces; used
// by command parameters whose kind is Complex2<A,B> and similar.
type Complex struct {
	Items []Piece
}

func (Complex) isPiece() {}
func (p Complex) String() string { return fmt.Sprintf("%v", p.Items) }

// Special tags a variant selector ahead of its payload pieces; used by
// command parameters whose kind is Special<Tag, Variants...>.
type Special struct {
	Tag   int32
	Items []Piece
}

func (Special) isPiece() {}
func (p Special) String() string { return fmt.Sprintf("special(%d, %v)", p.Tag, p.Items) }
