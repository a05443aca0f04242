package scenario

import "github.com/rlvm-project/rlvm/expr"

// ElementHandle is a stable index into a Script's element list, standing
// in for the source's linked-list iterators (spec.md §9's "pointer-based
// element lists" note).
type ElementHandle int

// InvalidEntrypoint is the sentinel Entrypoint() returns for every
// Element that is not an Entrypoint metadata marker, mirroring the
// source's kInvalidEntrypoint default on BytecodeElement::GetEntrypoint.
const InvalidEntrypoint = -1

// Element is the tagged union of scenario bytecode elements, collapsed
// from the source's BytecodeElement inheritance tree into a closed Go
// interface per spec.md §9.
type Element interface {
	isElement()
	ByteOffset() int
	Entrypoint() int
}

// CommaElement is a bare separator stub.
type CommaElement struct {
	Offset int
}

func (CommaElement) isElement()        {}
func (e CommaElement) ByteOffset() int { return e.Offset }
func (CommaElement) Entrypoint() int   { return InvalidEntrypoint }

// MetadataKind discriminates the three payloads a Metadata element can
// carry, all encoded through the same `@`/`!`/`\n` leading bytes.
type MetadataKind int

const (
	MetaLine MetadataKind = iota
	MetaKidoku
	MetaEntrypoint
)

// MetadataElement carries a line marker, a kidoku id, or an entry-point
// id, disambiguated at parse time per spec.md §4.2.
type MetadataElement struct {
	Offset int
	Kind   MetadataKind
	Value  int32
}

func (MetadataElement) isElement()        {}
func (e MetadataElement) ByteOffset() int { return e.Offset }

func (e MetadataElement) Entrypoint() int {
	if e.Kind == MetaEntrypoint {
		return int(e.Value)
	}
	return InvalidEntrypoint
}

// TextoutElement is a displayable string run.
type TextoutElement struct {
	Offset int
	Text   string
}

func (TextoutElement) isElement()        {}
func (e TextoutElement) ByteOffset() int { return e.Offset }
func (TextoutElement) Entrypoint() int   { return InvalidEntrypoint }

// ExpressionElement wraps a standalone expression statement. Parsing its
// tree is deferred until first evaluated and cached afterward, mirroring
// the source's lazily-parsed ExpressionElement.
type ExpressionElement struct {
	Offset int
	Raw    []byte

	parsed    expr.Piece
	parseErr  error
	didParse  bool
}

func (*ExpressionElement) isElement()        {}
func (e *ExpressionElement) ByteOffset() int { return e.Offset }
func (*ExpressionElement) Entrypoint() int   { return InvalidEntrypoint }

// Parsed returns the element's expression tree, building and caching it
// on first call.
func (e *ExpressionElement) Parsed() (expr.Piece, error) {
	if !e.didParse {
		e.parsed, e.parseErr = parseWholeExpression(e.Raw)
		e.didParse = true
	}
	return e.parsed, e.parseErr
}

func parseWholeExpression(data []byte) (expr.Piece, error) {
	p, _, err := expr.Build(data)
	return p, err
}
