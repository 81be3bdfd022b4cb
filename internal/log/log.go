// Package log builds the zap loggers used across colordetect.
//
// Every logger writes to stderr. Stdout carries the MCP protocol when the
// mcp command is running and must never see log output.
package log

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Levels lists the accepted level names, most verbose first.
var Levels = []string{"debug", "info", "warn", "error"}

// ParseLevel converts a level name to a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return lvl, errors.Wrapf(err, "invalid log level %q", name)
	}
	for _, known := range Levels {
		if lvl.String() == known {
			return lvl, nil
		}
	}
	return lvl, errors.Errorf("unsupported log level %q", name)
}

// New returns a console logger at the named level.
func New(level string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Development = lvl == zapcore.DebugLevel
	cfg.DisableStacktrace = lvl != zapcore.DebugLevel
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return logger, nil
}
