// Package logging builds the process-wide zap logger.
// The logger is constructed once in main and injected into the components
// that need it; there is no package-level global.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production zap logger writing to stderr. Debug enables
// debug-level output. Stderr keeps stdout clean for CLI JSON output and the
// MCP stdio transport.
func New(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// NewNop returns a no-op logger for tests and for callers that opt out.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
