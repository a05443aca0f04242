package modules

import "github.com/rlvm-project/rlvm/machine"

// Module (modtype, module) numbers, per the source's two modtype spaces:
// 0 is flow control (shared with the Goto family scenario.Parse already
// classifies directly), 1 is the general operation space.
const (
	ModTypeFlow    = 0
	ModTypeGeneral = 1

	ModuleJmp = 1
	ModuleStr = 10
	ModuleMem = 11
	ModuleSys = 4
)

// RegisterAll attaches the standard module library to reg, grounded on
// RLMachine::attatchModule's pack-and-insert registration loop.
func RegisterAll(reg *machine.Registry, clock Clock) {
	reg.RegisterModule(ModTypeFlow, ModuleJmp, NewJmpModule())
	reg.RegisterModule(ModTypeGeneral, ModuleMem, NewMemModule())
	reg.RegisterModule(ModTypeGeneral, ModuleStr, NewStrModule())
	reg.RegisterModule(ModTypeGeneral, ModuleSys, NewSysModule(clock))
}
