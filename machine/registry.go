package machine

// opKey identifies an Operation within a Module: (opcode, overload).
// argc is never part of the key — spec.md §4.5 makes overload selection
// the compiler's responsibility, not the registry's.
type opKey struct {
	Opcode   int
	Overload int
}

// Module is one (modtype, module)'s opcode table.
type Module struct {
	Name string
	ops  map[opKey]Operation
}

// NewModule returns an empty, named Module.
func NewModule(name string) *Module {
	return &Module{Name: name, ops: map[opKey]Operation{}}
}

// Register binds an Operation to (opcode, overload). Registering the same
// key twice is a programmer error.
func (m *Module) Register(opcode, overload int, op Operation) {
	key := opKey{opcode, overload}
	if _, dup := m.ops[key]; dup {
		panic(&DispatchError{Opcode: opcode, Overload: overload, Err: ErrDuplicateRegistration})
	}
	m.ops[key] = op
}

func (m *Module) lookup(opcode, overload int) (Operation, bool) {
	op, ok := m.ops[opKey{opcode, overload}]
	return op, ok
}

// moduleKey identifies a Module: (modtype, module).
type moduleKey struct {
	ModType int
	Module  int
}

// Registry is the two-level (modtype, module) -> (opcode, overload) ->
// Operation mapping of spec.md §4.5.
type Registry struct {
	modules map[moduleKey]*Module
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{modules: map[moduleKey]*Module{}}
}

// RegisterModule binds a Module to (modtype, module). Order-free;
// registering the same (modtype, module) pair twice is a programmer
// error.
func (r *Registry) RegisterModule(modtype, module int, m *Module) {
	key := moduleKey{modtype, module}
	if _, dup := r.modules[key]; dup {
		panic(&DispatchError{ModType: modtype, Module: module, Err: ErrDuplicateRegistration})
	}
	r.modules[key] = m
}

// Lookup resolves a full command identity to its Operation.
func (r *Registry) Lookup(modtype, module, opcode, overload int) (Operation, error) {
	mod, ok := r.modules[moduleKey{modtype, module}]
	if !ok {
		return nil, &DispatchError{ModType: modtype, Module: module, Opcode: opcode, Overload: overload, Err: ErrUndefinedModule}
	}
	op, ok := mod.lookup(opcode, overload)
	if !ok {
		return nil, &DispatchError{ModType: modtype, Module: module, Opcode: opcode, Overload: overload, Err: ErrUndefinedOpcode}
	}
	return op, nil
}
