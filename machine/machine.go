// Package machine implements RLVM's Dispatch & Long-Operation Loop
// component: the module registry, the operation type-parameterised
// handler framework, and the cooperative scheduler that drives bytecode
// and long operations one tick at a time.
package machine

import (
	"golang.org/x/text/encoding/japanese"

	"github.com/rlvm-project/rlvm/expr"
	"github.com/rlvm-project/rlvm/memory"
	"github.com/rlvm-project/rlvm/scenario"
)

// shiftJISDecoder converts raw scenario text (Shift-JIS per spec.md §4.2)
// to UTF-8 before it reaches TextOut; a decode error falls back to the raw
// bytes rather than halting the run, matching the lenient-mode tolerance
// the rest of element execution follows.
var shiftJISDecoder = japanese.ShiftJIS.NewDecoder()

// DecodeShiftJIS converts raw to UTF-8, used by both TextoutElement
// execution and the Str module's strout operation, the two places
// scenario text reaches a TextOut callback.
func DecodeShiftJIS(raw string) string {
	decoded, err := shiftJISDecoder.String(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ScenarioProvider resolves a scenario id to its parsed Script, the seam
// between the machine and whatever loads/caches scenario.Scripts
// (normally backed by an archive.Archive + scenario.Parse).
type ScenarioProvider interface {
	Scenario(id int) (*scenario.Script, error)
}

// Machine is the VM: memory, call stack, long-operation stack, and the
// module registry, driven one Step (one bytecode element or one
// long-operation tick) at a time, mirroring the teacher's
// Execution/Step shape but generalised from a single linear match to a
// cooperative, resumable scheduler.
type Machine struct {
	Mem      *memory.Memory
	Stack    *memory.Stack
	Registry *Registry
	Scenarios ScenarioProvider

	longOps longOpStack

	// TextOut receives every piece of narrative text the machine produces,
	// whether from a TextoutElement in the element stream or the Str
	// module's strout/intout operations. A nil TextOut silently discards
	// output, matching headless/test use.
	TextOut func(string)

	// HaltOnException mirrors spec.md §7's halt-on-exception switch: when
	// true, any error during element execution stops the machine; when
	// false, the error is recorded and execution continues after the
	// mandatory IP advance.
	HaltOnException bool
}

// New returns a Machine with a fresh Memory and a call stack rooted at
// (startScenario, startIP).
func New(scenarios ScenarioProvider, registry *Registry, startScenario, startIP int) *Machine {
	return &Machine{
		Mem:       memory.New(),
		Stack:     memory.NewStack(startScenario, startIP),
		Registry:  registry,
		Scenarios: scenarios,
	}
}

// PushLongOperation installs op atop the long-operation stack.
func (m *Machine) PushLongOperation(op LongOperation) {
	m.longOps.push(op)
}

// ClearLongOperations drops every pending long operation, for handlers
// (load-game, return-to-main) that replace the call stack wholesale.
func (m *Machine) ClearLongOperations() {
	m.longOps.clear()
}

// Halted reports whether the root frame has run off its scenario's end.
func (m *Machine) Halted() bool {
	return m.Stack.Halted()
}

// Step executes exactly one unit of work: one long-operation tick if any
// are pending, otherwise one bytecode element. It returns whether the
// machine is halted after the step.
func (m *Machine) Step() (bool, error) {
	if m.Stack.Halted() {
		return true, nil
	}

	if !m.longOps.empty() {
		top := m.longOps.top()
		if top.Tick(m) == Done {
			m.longOps.pop()
		}
		return m.Stack.Halted(), nil
	}

	frame := m.Stack.Top()
	script, err := m.Scenarios.Scenario(frame.Scenario)
	if err != nil {
		return true, err
	}
	if frame.IP >= len(script.Elements) {
		m.Stack.Advance(frame.IP, true)
		return true, nil
	}

	el := script.Elements[frame.IP]
	selfManaged, execErr := m.execute(script, el)
	if !selfManaged {
		// Mandatory IP advance, including after an exception (spec.md §7):
		// this is what prevents an infinite loop on a faulting element.
		next := frame.IP + 1
		m.Stack.Advance(next, next >= len(script.Elements))
	}

	if execErr != nil && m.HaltOnException {
		return true, execErr
	}
	return m.Stack.Halted(), execErr
}

// Run steps the machine until it halts or maxSteps is exhausted
// (maxSteps <= 0 means unbounded), collecting every non-fatal error.
func (m *Machine) Run(maxSteps int) Result {
	var res Result
	for maxSteps <= 0 || res.Steps < maxSteps {
		halted, err := m.Step()
		res.Steps++
		if err != nil {
			res.Errors = append(res.Errors, err)
			if m.HaltOnException {
				res.Halted = true
				return res
			}
		}
		if halted {
			res.Halted = true
			return res
		}
	}
	return res
}

// execute runs one parsed Element against the machine. The returned bool
// reports whether the element already managed the instruction pointer
// itself (Goto/GotoIf-taken/Gosub/FarCall): Step must not also
// auto-advance in that case.
func (m *Machine) execute(script *scenario.Script, el scenario.Element) (selfManaged bool, err error) {
	switch v := el.(type) {
	case scenario.CommaElement, scenario.MetadataElement:
		return false, nil

	case scenario.TextoutElement:
		if m.TextOut != nil {
			m.TextOut(DecodeShiftJIS(v.Text))
		}
		return false, nil

	case *scenario.ExpressionElement:
		p, err := v.Parsed()
		if err != nil {
			return false, err
		}
		env := &expr.Env{Mem: m.Mem}
		_, err = env.Eval(p)
		return false, err

	case *scenario.CommandElement:
		return m.executeCommand(v)

	default:
		return false, nil
	}
}

func (m *Machine) executeCommand(cmd *scenario.CommandElement) (bool, error) {
	env := &expr.Env{Mem: m.Mem}

	switch cmd.Kind {
	case scenario.CommandGoto:
		m.Stack.Goto(int(cmd.Target.Handle))
		return true, nil

	case scenario.CommandGotoIf:
		cond, n, err := expr.Build(cmd.CondBytes)
		if err != nil || n == 0 {
			return false, err
		}
		v, err := env.EvalInt(cond)
		if err != nil {
			return false, err
		}
		if v != 0 {
			m.Stack.Goto(int(cmd.Target.Handle))
			return true, nil
		}
		return false, nil

	case scenario.CommandGotoOn:
		disc, _, err := expr.Build(cmd.CondBytes)
		if err != nil {
			return false, err
		}
		v, err := env.EvalInt(disc)
		if err != nil {
			return false, err
		}
		if int(v) < 0 || int(v) >= len(cmd.Targets) {
			return false, nil
		}
		m.Stack.Goto(int(cmd.Targets[v].Handle))
		return true, nil

	case scenario.CommandGotoCase:
		disc, _, err := expr.Build(cmd.DiscBytes)
		if err != nil {
			return false, err
		}
		discVal, err := env.EvalInt(disc)
		if err != nil {
			return false, err
		}
		for _, arm := range cmd.Cases {
			caseExpr, _, err := expr.Build(arm.CaseBytes)
			if err != nil {
				return false, err
			}
			caseVal, err := env.EvalInt(caseExpr)
			if err != nil {
				return false, err
			}
			if caseVal == discVal {
				m.Stack.Goto(int(arm.Target.Handle))
				return true, nil
			}
		}
		return false, nil

	case scenario.CommandGosubWith:
		m.Stack.Gosub(m.Stack.Top().Scenario, int(cmd.Target.Handle))
		return true, nil

	case scenario.CommandSelect:
		// Presenting options and waiting for a choice is a rendering/input
		// concern (spec.md §1's external collaborators); the core's
		// contribution ends at having parsed Options cleanly. A host
		// integration installs a LongOperation here that blocks on input
		// and, once resolved, performs the Goto itself.
		return false, nil

	default:
		return m.dispatchFunction(cmd)
	}
}

// dispatchFunction resolves and calls a plain Command through the
// registry. The returned bool reports whether the Operation is
// SelfManaging (farcall/gosub/rtl/ret in the Jmp module): for those,
// Call already moved the instruction pointer and Step must not also
// auto-advance.
func (m *Machine) dispatchFunction(cmd *scenario.CommandElement) (bool, error) {
	op, err := m.Registry.Lookup(cmd.Ident.ModType, cmd.Ident.Module, cmd.Ident.Opcode, cmd.Ident.Overload)
	if err != nil {
		return false, err
	}

	pieces := make([]expr.Piece, 0, len(cmd.Params))
	for _, raw := range cmd.Params {
		p, _, err := expr.Build(raw)
		if err != nil {
			return false, err
		}
		pieces = append(pieces, p)
	}

	if !CheckKinds(op.ParamKinds(), pieces) {
		return false, &DispatchError{
			ModType: cmd.Ident.ModType, Module: cmd.Ident.Module,
			Opcode: cmd.Ident.Opcode, Overload: cmd.Ident.Overload,
			Err: ErrParamTypeMismatch,
		}
	}

	result, err := op.Call(m, pieces)
	if err != nil {
		return false, err
	}
	if op.Disposition() == Store {
		m.Mem.SetStoreRegister(result)
	}

	selfManaged := false
	if sm, ok := op.(SelfManaging); ok {
		selfManaged = sm.SelfManaged()
	}
	return selfManaged, nil
}
