// Package rlog sets up the structured logger the machine's lenient-mode
// error path writes to. A *zap.Logger is threaded explicitly through the
// call chain rather than kept as a package global, matching how Machine
// itself takes its collaborators as constructor arguments instead of
// reaching for ambient state.
package rlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console-encoded logger: human-readable for interactive runs,
// level-filterable via verbose.
func New(verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return cfg.Build()
}

// LogOperationError records a non-fatal element-execution error at warn
// level, the disposition spec.md §7 assigns lenient mode's UndefinedModule/
// UndefinedOpcode/ParamTypeMismatch family.
func LogOperationError(log *zap.Logger, scenarioID, elementOffset int, err error) {
	log.Warn("element execution error",
		zap.Int("scenario", scenarioID),
		zap.Int("offset", elementOffset),
		zap.Error(err),
	)
}

// LogFatal records the same family at error level immediately before a
// strict-mode run aborts.
func LogFatal(log *zap.Logger, scenarioID, elementOffset int, err error) {
	log.Error("element execution error, halting",
		zap.Int("scenario", scenarioID),
		zap.Int("offset", elementOffset),
		zap.Error(err),
	)
}
