// Package config loads the TOML settings file that configures a run: the
// per-title XOR key registry, the halt-on-exception switch, and the
// fast-forward/break-on-click defaults. It is the "configuration file
// parser" external collaborator the core interfaces against without ever
// importing this package directly.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/rlvm-project/rlvm/archive"
)

// XorKeyEntry is one [[xor_key]] table in the settings file: a named
// 256-byte mask registered under GameKey for archive.Options.Keys.
type XorKeyEntry struct {
	Name string `toml:"name"`
	Mask []int  `toml:"mask"`
}

// Config is the decoded shape of the settings file.
type Config struct {
	// GameKey selects which XorKeyEntry (if any) archive.Open applies as
	// the second XOR layer.
	GameKey string `toml:"game_key"`

	// HaltOnException mirrors Machine.HaltOnException: false runs in
	// lenient mode, logging and continuing past element-execution errors.
	HaltOnException bool `toml:"halt_on_exception"`

	// FastForward is decoded from the settings file but not read by a run:
	// WaitLongOp has no fast-forward check and always waits out its
	// target time (or a click, for the breakable variant).
	FastForward bool `toml:"fast_forward"`

	// BreakOnClick is decoded from the settings file but not read by a
	// run: whether a Sys wait breaks on a click is fixed by its opcode
	// (0 does not break, 1 does).
	BreakOnClick bool `toml:"break_on_click"`

	// InstructionBudget caps Machine.Run's step count; 0 (or a negative
	// value) makes cmd/rlvm use its default of 1,000,000 steps.
	InstructionBudget int `toml:"instruction_budget"`

	XorKeys []XorKeyEntry `toml:"xor_key"`
}

// Default returns the settings a headless run uses when no file is given.
func Default() Config {
	return Config{
		HaltOnException:   false,
		FastForward:       false,
		BreakOnClick:      true,
		InstructionBudget: 0,
	}
}

// Load decodes the TOML file at path into a Config seeded with Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// BuildXorKeys converts the config's [[xor_key]] entries into the
// archive.Options.Keys registry archive.Open expects.
func (c Config) BuildXorKeys() (map[string]*archive.XorKey, error) {
	out := make(map[string]*archive.XorKey, len(c.XorKeys))
	for _, entry := range c.XorKeys {
		if len(entry.Mask) != 256 {
			return nil, fmt.Errorf("config: xor_key %q needs 256 mask bytes, got %d", entry.Name, len(entry.Mask))
		}
		key := &archive.XorKey{Name: entry.Name}
		for i, v := range entry.Mask {
			key.Mask[i] = byte(v)
		}
		out[entry.Name] = key
	}
	return out, nil
}
