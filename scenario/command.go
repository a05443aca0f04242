package scenario

// CommandKind discriminates the parsing specialisation a Command element
// takes, selected from its (module, opcode) pair per spec.md §4.2.
type CommandKind int

const (
	CommandFunction CommandKind = iota
	CommandSelect
	CommandGoto
	CommandGotoIf
	CommandGotoCase
	CommandGotoOn
	CommandGosubWith
)

// CommandIdent is a Command element's fixed 7-byte header: modtype,
// module, opcode(u16), argc(u16), overload. argc is informational only;
// the module registry never keys on it (spec.md §4.5).
type CommandIdent struct {
	ModType  int
	Module   int
	Opcode   int
	Argc     int
	Overload int
}

// RawParam is one undecoded command parameter: the byte span `get_data`
// (expr.ScanLength) will later tokenize into an expr.Piece.
type RawParam []byte

// Target is a control-flow destination: a pending byte offset until the
// parser's second pass resolves it to a stable ElementHandle.
type Target struct {
	Offset   int
	Handle   ElementHandle
	Resolved bool
}

// SelectOption is one option record inside a Select command: an optional
// condition expression, display text, and line number.
type SelectOption struct {
	Condition []byte
	Text      string
	Line      uint16
}

// GotoCaseArm is one (case-expression, target) pair of a GotoCase command.
type GotoCaseArm struct {
	CaseBytes []byte
	Target    Target
}

// CommandElement is a Command bytecode element together with its parsed
// variant-specific payload.
type CommandElement struct {
	Offset int
	Ident  CommandIdent
	Kind   CommandKind

	// CommandFunction
	Params []RawParam

	// CommandSelect
	WindowExpr []byte
	Options    []SelectOption
	// JunkRecords counts trailing bogus `\n u16` padding records the
	// parser tolerated per spec.md §4.2's "bogus trailing newlines" edge
	// case; always zero for well-formed scenarios.
	JunkRecords int

	// CondBytes: CommandGotoIf's condition, or CommandGotoOn's
	// discriminant. Target: CommandGoto / CommandGotoIf / CommandGosubWith.
	CondBytes []byte
	Target    Target

	// CommandGotoOn (its discriminant is in CondBytes)
	Targets []Target

	// CommandGotoCase
	DiscBytes []byte
	Cases     []GotoCaseArm
}

func (*CommandElement) isElement()        {}
func (e *CommandElement) ByteOffset() int { return e.Offset }
func (*CommandElement) Entrypoint() int   { return InvalidEntrypoint }

func isGoto(module, opcode int) bool {
	return module == 1 && (opcode == 0x0000 || opcode == 0x0005)
}

func isGotoIf(module, opcode int) bool {
	switch opcode {
	case 0x0001, 0x0002, 0x0006, 0x0007:
		return module == 1
	}
	return false
}

func isGotoOn(module, opcode int) bool {
	return module == 1 && (opcode == 0x0003 || opcode == 0x0008)
}

func isGotoCase(module, opcode int) bool {
	return module == 1 && (opcode == 0x0004 || opcode == 0x0009)
}

func isGosubWith(module, opcode int) bool {
	return module == 1 && opcode == 0x0010
}

func isSelect(module, opcode int) bool {
	if module != 2 {
		return false
	}
	switch opcode {
	case 0x0000, 0x0001, 0x0002, 0x0003, 0x0010:
		return true
	}
	return false
}

// classifyCommand maps a command's (module, opcode) pair to its parsing
// specialisation. modtype does not participate: the source dispatches
// Goto/GotoIf/etc. purely off module+opcode, with modtype only selecting
// which module-registry entry ultimately executes the parsed element.
func classifyCommand(module, opcode int) CommandKind {
	switch {
	case isGoto(module, opcode):
		return CommandGoto
	case isGotoIf(module, opcode):
		return CommandGotoIf
	case isGotoOn(module, opcode):
		return CommandGotoOn
	case isGotoCase(module, opcode):
		return CommandGotoCase
	case isGosubWith(module, opcode):
		return CommandGosubWith
	case isSelect(module, opcode):
		return CommandSelect
	default:
		return CommandFunction
	}
}
