package expr

import "encoding/binary"

// cursor walks a byte slice left to right, building a Piece tree by
// recursive descent. This is the "Building" half of SPEC_FULL.md §4.3;
// ScanLength (tokenizer.go) reuses it purely for the byte count.
type cursor struct {
	data []byte
	pos  int
}

// Build parses one expression starting at data[0], returning the parsed
// tree and the number of bytes consumed.
func Build(data []byte) (Piece, int, error) {
	c := &cursor{data: data}
	p, err := c.parseOr()
	if err != nil {
		return nil, 0, err
	}
	return p, c.pos, nil
}

func (c *cursor) peek() (byte, bool) {
	if c.pos >= len(c.data) {
		return 0, false
	}
	return c.data[c.pos], true
}

func (c *cursor) take() (byte, error) {
	b, ok := c.peek()
	if !ok {
		return 0, &ParseError{Offset: c.pos, Err: ErrTruncated}
	}
	c.pos++
	return b, nil
}

// opAt reports whether the next two bytes are `\ op` with op satisfying
// want, without consuming them unless matched.
func (c *cursor) opAt(want func(byte) bool) (byte, bool) {
	if c.pos+1 >= len(c.data) || c.data[c.pos] != '\\' {
		return 0, false
	}
	op := c.data[c.pos+1]
	if !want(op) {
		return 0, false
	}
	c.pos += 2
	return op, true
}

func (c *cursor) parseOr() (Piece, error) {
	lhs, err := c.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := c.opAt(func(b byte) bool { return b == byte(OpLogicalOr) })
		if !ok {
			return lhs, nil
		}
		rhs, err := c.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = Binary{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (c *cursor) parseAnd() (Piece, error) {
	lhs, err := c.parseCompare()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := c.opAt(func(b byte) bool { return b == byte(OpLogicalAnd) })
		if !ok {
			return lhs, nil
		}
		rhs, err := c.parseCompare()
		if err != nil {
			return nil, err
		}
		lhs = Binary{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (c *cursor) parseCompare() (Piece, error) {
	lhs, err := c.parseLowArith()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := c.opAt(isCompare)
		if !ok {
			return lhs, nil
		}
		rhs, err := c.parseLowArith()
		if err != nil {
			return nil, err
		}
		lhs = Binary{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (c *cursor) parseLowArith() (Piece, error) {
	lhs, err := c.parseHighArith()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := c.opAt(isLowArith)
		if !ok {
			return lhs, nil
		}
		rhs, err := c.parseHighArith()
		if err != nil {
			return nil, err
		}
		lhs = Binary{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (c *cursor) parseHighArith() (Piece, error) {
	lhs, err := c.parseAssignOrTerm()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := c.opAt(isHighArith)
		if !ok {
			return lhs, nil
		}
		rhs, err := c.parseAssignOrTerm()
		if err != nil {
			return nil, err
		}
		lhs = Binary{Op: op, LHS: lhs, RHS: rhs}
	}
}

// parseAssignOrTerm parses a term, then checks for a trailing assignment
// operator. Assignment binds its right-hand side as a full expression
// (rhs is evaluated first per SPEC_FULL.md §4.3), so it recurses back to
// parseOr rather than another term.
func (c *cursor) parseAssignOrTerm() (Piece, error) {
	lvalue, err := c.parseTerm()
	if err != nil {
		return nil, err
	}

	save := c.pos
	op, ok := c.opAt(func(b byte) bool {
		return b == byte(OpAssign) || IsCompoundAssign(b)
	})
	if !ok {
		return lvalue, nil
	}
	if !isLValue(lvalue) {
		c.pos = save
		return lvalue, nil
	}
	rvalue, err := c.parseOr()
	if err != nil {
		return nil, err
	}
	return Assignment{Op: op, LValue: lvalue, RValue: rvalue}, nil
}

func isLValue(p Piece) bool {
	switch p.(type) {
	case MemoryRef, StoreRegisterPiece:
		return true
	default:
		return false
	}
}

func (c *cursor) parseTerm() (Piece, error) {
	b, ok := c.peek()
	if !ok {
		return nil, &ParseError{Offset: c.pos, Err: ErrTruncated}
	}

	switch {
	case b == '(':
		c.pos++
		inner, err := c.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := c.expect(')'); err != nil {
			return nil, err
		}
		return inner, nil

	case b == '\\':
		// `\ 0` no-op wrap, `\ 1` unary-minus wrap.
		if c.pos+1 >= len(c.data) {
			return nil, &ParseError{Offset: c.pos, Err: ErrTruncated}
		}
		op := c.data[c.pos+1]
		if op != 0 && op != 1 {
			return nil, &ParseError{Offset: c.pos, Err: ErrUnknownOperator}
		}
		c.pos += 2
		arg, err := c.parseTerm()
		if err != nil {
			return nil, err
		}
		return Unary{Op: op, Arg: arg}, nil

	case b == '$':
		return c.parseToken()

	default:
		return nil, &ParseError{Offset: c.pos, Err: ErrUnknownOperator}
	}
}

func (c *cursor) expect(want byte) (byte, error) {
	b, err := c.take()
	if err != nil {
		return 0, err
	}
	if b != want {
		return 0, &ParseError{Offset: c.pos - 1, Err: ErrTruncated}
	}
	return b, nil
}

// parseToken implements the tokenizing rule: `$` followed by 0xFF (i32
// literal), 0xC8 (store register), or a bank byte + bracketed index.
func (c *cursor) parseToken() (Piece, error) {
	start := c.pos
	if _, err := c.take(); err != nil { // consume '$'
		return nil, err
	}
	tag, err := c.take()
	if err != nil {
		return nil, err
	}

	switch tag {
	case 0xff:
		if c.pos+4 > len(c.data) {
			return nil, &ParseError{Offset: start, Err: ErrTruncated}
		}
		v := int32(binary.LittleEndian.Uint32(c.data[c.pos:]))
		c.pos += 4
		return IntConstant{Value: v}, nil

	case 0xc8:
		return StoreRegisterPiece{}, nil

	default:
		if _, err := c.expect('['); err != nil {
			return nil, err
		}
		idx, err := c.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := c.expect(']'); err != nil {
			return nil, err
		}
		return MemoryRef{Bank: tag, Index: idx}, nil
	}
}
