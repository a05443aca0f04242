package machine

// TickResult is a LongOperation's per-tick status.
type TickResult int

const (
	// Continue means the long operation is still running; it will be
	// polled again next tick.
	Continue TickResult = iota

	// Done means the long operation has finished and should be popped.
	Done
)

// LongOperation is a multi-tick effect: a wait, a transition, a save/load
// sequence. The machine polls the top of its long-operation stack once
// per Step call while any are pending, suspending bytecode execution
// (spec.md §4.5).
type LongOperation interface {
	Tick(m *Machine) TickResult
}

// longOpStack is a LIFO of LongOperations. A long operation may push
// another onto this same stack (the decorator pattern spec.md §4.5
// describes) to run a follow-up after it completes.
type longOpStack struct {
	ops []LongOperation
}

func (s *longOpStack) push(op LongOperation) {
	s.ops = append(s.ops, op)
}

func (s *longOpStack) top() LongOperation {
	return s.ops[len(s.ops)-1]
}

func (s *longOpStack) pop() {
	s.ops = s.ops[:len(s.ops)-1]
}

func (s *longOpStack) empty() bool {
	return len(s.ops) == 0
}

// clear drops every pending long operation. A long operation whose tick
// replaces or clears the call stack (a load-game operation, say) calls
// this on its way out and returns Continue regardless — the stack-clear
// side effect is what actually terminates it, since the frame it belonged
// to may no longer exist (spec.md §4.5).
func (s *longOpStack) clear() {
	s.ops = nil
}
