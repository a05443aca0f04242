package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rlvm-project/rlvm/archive"
	"github.com/rlvm-project/rlvm/internal/config"
	"github.com/rlvm-project/rlvm/internal/host"
	"github.com/rlvm-project/rlvm/internal/rlog"
	"github.com/rlvm-project/rlvm/machine"
	"github.com/rlvm-project/rlvm/modules"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	var entrypoint int
	cmd := &cobra.Command{
		Use:   "run <archive> <scenario-id>",
		Short: "load a scenario and run it to completion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("scenario-id must be an integer: %w", err)
			}
			return runScenario(flags, args[0], scenarioID, entrypoint)
		},
	}
	cmd.Flags().IntVar(&entrypoint, "entrypoint", 0, "entrypoint id to start execution at")
	return cmd
}

func runScenario(flags *rootFlags, archivePath string, scenarioID, entrypoint int) error {
	log, err := rlog.New(flags.verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	keys, err := cfg.BuildXorKeys()
	if err != nil {
		return err
	}

	arc, err := archive.Open(archivePath, archive.Options{
		GameKey: cfg.GameKey,
		Keys:    keys,
	})
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer arc.Close()

	scenarios := newArchiveScenarios(arc)
	script, err := scenarios.Scenario(scenarioID)
	if err != nil {
		return fmt.Errorf("loading scenario %d: %w", scenarioID, err)
	}
	startHandle, ok := script.Entrypoints[entrypoint]
	if !ok {
		return fmt.Errorf("scenario %d has no entrypoint %d", scenarioID, entrypoint)
	}

	sys := host.NullSystem{}
	clock := host.NewClock(sys)

	registry := machine.NewRegistry()
	modules.RegisterAll(registry, clock)

	m := machine.New(scenarios, registry, scenarioID, int(startHandle))
	m.HaltOnException = cfg.HaltOnException
	m.TextOut = func(s string) { fmt.Print(s) }

	budget := cfg.InstructionBudget
	if budget <= 0 {
		budget = 1_000_000
	}
	result := m.Run(budget)

	for _, stepErr := range result.Errors {
		if cfg.HaltOnException {
			rlog.LogFatal(log, scenarioID, m.Stack.Top().IP, stepErr)
			continue
		}
		rlog.LogOperationError(log, scenarioID, m.Stack.Top().IP, stepErr)
	}

	fmt.Printf("\n--- run summary ---\nsteps: %d\nhalted: %v\nerrors: %d\nstore: %d\n",
		result.Steps, result.Halted, len(result.Errors), m.Mem.StoreRegister())
	return nil
}
