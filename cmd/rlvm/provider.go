package main

import (
	"github.com/rlvm-project/rlvm/archive"
	"github.com/rlvm-project/rlvm/scenario"
)

// archiveScenarios adapts an *archive.Archive to machine.ScenarioProvider,
// parsing each scenario on first use and keeping the result for the life
// of the run (the archive itself already caches decompressed bytes; this
// layer caches the one step further, the parsed element stream).
type archiveScenarios struct {
	arc     *archive.Archive
	scripts map[int]*scenario.Script
}

func newArchiveScenarios(arc *archive.Archive) *archiveScenarios {
	return &archiveScenarios{arc: arc, scripts: make(map[int]*scenario.Script)}
}

func (a *archiveScenarios) Scenario(id int) (*scenario.Script, error) {
	if s, ok := a.scripts[id]; ok {
		return s, nil
	}
	buf, err := a.arc.ScenarioBytes(id)
	if err != nil {
		return nil, err
	}
	header, err := a.arc.Header(id)
	if err != nil {
		return nil, err
	}
	script, err := scenario.Parse(buf[header.PayloadOffset:], header.KidokuTable(buf))
	if err != nil {
		return nil, err
	}
	a.scripts[id] = script
	return script, nil
}
