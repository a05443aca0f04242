package scenario

import (
	"encoding/binary"
	"sort"

	"github.com/rlvm-project/rlvm/expr"
)

// Script is a fully parsed scenario: its element list plus the two
// derived indexes built during parsing (byte-offset -> handle, used only
// transiently for target fixup, and entrypoint id -> handle, kept for
// the lifetime of the script).
type Script struct {
	Elements    []Element
	Entrypoints map[int]ElementHandle
}

// Parse turns a decompressed scenario payload (the element stream
// following the per-scenario header) into a Script, resolving every
// Goto*/GosubWith target against the offsets its own first pass records.
//
// kidokuTable disambiguates '@'/'!' metadata markers per spec.md §4.2:
// a marker with value v is an Entrypoint iff kidokuTable[v] >= 1_000_000.
func Parse(data []byte, kidokuTable []uint32) (*Script, error) {
	offsets := make(map[int]ElementHandle)
	entrypoints := make(map[int]ElementHandle)
	var elements []Element

	pos := 0
	for pos < len(data) && data[pos] != 0x00 {
		start := pos
		el, next, err := parseOneElement(data, pos, kidokuTable)
		if err != nil {
			return nil, err
		}
		handle := ElementHandle(len(elements))
		offsets[start] = handle
		elements = append(elements, el)
		if ep := el.Entrypoint(); ep != InvalidEntrypoint {
			entrypoints[ep] = handle
		}
		pos = next
	}

	if err := resolveTargets(elements, offsets); err != nil {
		return nil, err
	}

	return &Script{Elements: elements, Entrypoints: entrypoints}, nil
}

// SortedEntrypoints returns the script's entry points as a slice ordered by
// id, for debug dumps and disassembly listings.
func (s *Script) SortedEntrypoints() EntrypointLabels {
	labels := make(EntrypointLabels, 0, len(s.Entrypoints))
	for id, handle := range s.Entrypoints {
		labels = append(labels, EntrypointLabel{ID: id, Handle: handle})
	}
	sort.Sort(labels)
	return labels
}

func resolveTargets(elements []Element, offsets map[int]ElementHandle) error {
	resolve := func(t *Target) error {
		h, ok := offsets[t.Offset]
		if !ok {
			return &ParseError{Offset: t.Offset, Err: ErrInvalidTarget}
		}
		t.Handle = h
		t.Resolved = true
		return nil
	}

	for _, el := range elements {
		cmd, ok := el.(*CommandElement)
		if !ok {
			continue
		}
		switch cmd.Kind {
		case CommandGoto, CommandGotoIf, CommandGosubWith:
			if err := resolve(&cmd.Target); err != nil {
				return err
			}
		case CommandGotoOn:
			for i := range cmd.Targets {
				if err := resolve(&cmd.Targets[i]); err != nil {
					return err
				}
			}
		case CommandGotoCase:
			for i := range cmd.Cases {
				if err := resolve(&cmd.Cases[i].Target); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func parseOneElement(data []byte, pos int, kidokuTable []uint32) (Element, int, error) {
	b := data[pos]
	switch b {
	case ',':
		return CommaElement{Offset: pos}, pos + 1, nil

	case '\n':
		if pos+3 > len(data) {
			return nil, 0, &ParseError{Offset: pos, Err: ErrTruncated}
		}
		v := int32(binary.LittleEndian.Uint16(data[pos+1:]))
		return MetadataElement{Offset: pos, Kind: MetaLine, Value: v}, pos + 3, nil

	case '@', '!':
		if pos+3 > len(data) {
			return nil, 0, &ParseError{Offset: pos, Err: ErrTruncated}
		}
		v := int32(binary.LittleEndian.Uint16(data[pos+1:]))
		if int(v) < len(kidokuTable) && kidokuTable[v] >= 1_000_000 {
			return MetadataElement{Offset: pos, Kind: MetaEntrypoint, Value: int32(kidokuTable[v]) - 1_000_000}, pos + 3, nil
		}
		return MetadataElement{Offset: pos, Kind: MetaKidoku, Value: v}, pos + 3, nil

	case '$':
		n, err := expr.ScanLength(data[pos:])
		if err != nil {
			return nil, 0, &ParseError{Offset: pos, Err: err}
		}
		return &ExpressionElement{Offset: pos, Raw: data[pos : pos+n]}, pos + n, nil

	case '#':
		return parseCommand(data, pos)

	default:
		text, n := scanTextout(data[pos:])
		return TextoutElement{Offset: pos, Text: string(text)}, pos + n, nil
	}
}

func parseCommand(data []byte, pos int) (Element, int, error) {
	if pos+8 > len(data) {
		return nil, 0, &ParseError{Offset: pos, Err: ErrTruncated}
	}
	ident := CommandIdent{
		ModType:  int(data[pos+1]),
		Module:   int(data[pos+2]),
		Opcode:   int(binary.LittleEndian.Uint16(data[pos+3:])),
		Argc:     int(binary.LittleEndian.Uint16(data[pos+5:])),
		Overload: int(data[pos+7]),
	}
	p := pos + 8
	kind := classifyCommand(ident.Module, ident.Opcode)

	cmd := &CommandElement{Offset: pos, Ident: ident, Kind: kind}

	var err error
	switch kind {
	case CommandGoto:
		cmd.Target, p, err = parseTargetID(data, p)

	case CommandGotoIf:
		cmd.CondBytes, p, err = parseParenExpr(data, p)
		if err == nil {
			cmd.Target, p, err = parseTargetID(data, p)
		}

	case CommandGotoOn:
		cmd.CondBytes, p, err = parseBareExprLength(data, p)
		if err == nil {
			cmd.Targets, p, err = parseTargetList(data, p)
		}

	case CommandGotoCase:
		cmd.DiscBytes, p, err = parseBareExprLength(data, p)
		if err == nil {
			cmd.Cases, p, err = parseCaseArms(data, p)
		}

	case CommandGosubWith:
		cmd.Params, p, err = parseFunctionParams(data, p)
		if err == nil {
			cmd.Target, p, err = parseTargetID(data, p)
		}

	case CommandSelect:
		cmd.WindowExpr, p, err = parseOptionalParenExpr(data, p)
		if err == nil {
			cmd.Options, cmd.JunkRecords, p, err = parseSelectBody(data, p, ident.Argc)
		}

	default:
		cmd.Params, p, err = parseFunctionParams(data, p)
	}
	if err != nil {
		return nil, 0, err
	}
	return cmd, p, nil
}

func parseTargetID(data []byte, pos int) (Target, int, error) {
	if pos+4 > len(data) {
		return Target{}, 0, &ParseError{Offset: pos, Err: ErrTruncated}
	}
	off := int(binary.LittleEndian.Uint32(data[pos:]))
	return Target{Offset: off}, pos + 4, nil
}

func parseBareExprLength(data []byte, pos int) ([]byte, int, error) {
	n, err := expr.ScanLength(data[pos:])
	if err != nil {
		return nil, 0, &ParseError{Offset: pos, Err: err}
	}
	return data[pos : pos+n], pos + n, nil
}

func parseParenExpr(data []byte, pos int) ([]byte, int, error) {
	if pos >= len(data) || data[pos] != '(' {
		return nil, 0, &ParseError{Offset: pos, Err: ErrTruncated}
	}
	pos++
	raw, next, err := parseBareExprLength(data, pos)
	if err != nil {
		return nil, 0, err
	}
	pos = next
	if pos >= len(data) || data[pos] != ')' {
		return nil, 0, &ParseError{Offset: pos, Err: ErrTruncated}
	}
	return raw, pos + 1, nil
}

func parseOptionalParenExpr(data []byte, pos int) ([]byte, int, error) {
	if pos < len(data) && data[pos] == '(' {
		return parseParenExpr(data, pos)
	}
	return nil, pos, nil
}

func parseFunctionParams(data []byte, pos int) ([]RawParam, int, error) {
	if pos >= len(data) || data[pos] != '(' {
		return nil, pos, nil
	}
	pos++
	var params []RawParam
	for pos < len(data) && data[pos] != ')' {
		n, err := expr.ScanLength(data[pos:])
		if err != nil {
			return nil, 0, &ParseError{Offset: pos, Err: err}
		}
		params = append(params, RawParam(data[pos:pos+n]))
		pos += n
	}
	if pos >= len(data) {
		return nil, 0, &ParseError{Offset: pos, Err: ErrTruncated}
	}
	return params, pos + 1, nil
}

func parseTargetList(data []byte, pos int) ([]Target, int, error) {
	if pos >= len(data) || data[pos] != '{' {
		return nil, 0, &ParseError{Offset: pos, Err: ErrTruncated}
	}
	pos++
	var targets []Target
	for pos < len(data) && data[pos] != '}' {
		t, next, err := parseTargetID(data, pos)
		if err != nil {
			return nil, 0, err
		}
		targets = append(targets, t)
		pos = next
	}
	if pos >= len(data) {
		return nil, 0, &ParseError{Offset: pos, Err: ErrTruncated}
	}
	return targets, pos + 1, nil
}

func parseCaseArms(data []byte, pos int) ([]GotoCaseArm, int, error) {
	if pos >= len(data) || data[pos] != '{' {
		return nil, 0, &ParseError{Offset: pos, Err: ErrTruncated}
	}
	pos++
	var arms []GotoCaseArm
	for pos < len(data) && data[pos] != '}' {
		caseBytes, next, err := parseBareExprLength(data, pos)
		if err != nil {
			return nil, 0, err
		}
		pos = next
		target, next2, err := parseTargetID(data, pos)
		if err != nil {
			return nil, 0, err
		}
		pos = next2
		arms = append(arms, GotoCaseArm{CaseBytes: caseBytes, Target: target})
	}
	if pos >= len(data) {
		return nil, 0, &ParseError{Offset: pos, Err: ErrTruncated}
	}
	return arms, pos + 1, nil
}

// parseSelectBody parses the `{ records... }` body of a Select command.
// Each record is an optional parenthesised condition, then textout-scanned
// display text, then a terminating '\n' and a u16 LE line number. Records
// beyond argc are tolerated as useless junk (spec.md §4.2's bogus trailing
// newline edge case) and reported separately rather than folded into
// Options.
func parseSelectBody(data []byte, pos int, argc int) ([]SelectOption, int, int, error) {
	if pos >= len(data) || data[pos] != '{' {
		return nil, 0, 0, &ParseError{Offset: pos, Err: ErrTruncated}
	}
	pos++

	var records []SelectOption
	for pos < len(data) && data[pos] != '}' {
		var cond []byte
		if data[pos] == '(' {
			var err error
			cond, pos, err = parseParenExpr(data, pos)
			if err != nil {
				return nil, 0, 0, err
			}
		}

		text, n := scanTextout(data[pos:])
		pos += n
		if pos >= len(data) || data[pos] != '\n' {
			return nil, 0, 0, &ParseError{Offset: pos, Err: ErrTruncated}
		}
		pos++
		if pos+2 > len(data) {
			return nil, 0, 0, &ParseError{Offset: pos, Err: ErrTruncated}
		}
		line := binary.LittleEndian.Uint16(data[pos:])
		pos += 2

		records = append(records, SelectOption{Condition: cond, Text: string(text), Line: line})
	}
	if pos >= len(data) {
		return nil, 0, 0, &ParseError{Offset: pos, Err: ErrTruncated}
	}
	pos++ // consume '}'

	if argc < 0 || argc > len(records) {
		argc = len(records)
	}
	return records[:argc], len(records) - argc, pos, nil
}
