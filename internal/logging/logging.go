// Package logging builds the zap loggers used across the CLI and the
// ingestion/query layers. Commands construct one logger at startup and pass
// it down; there is no package-level logger to mutate.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production zap logger. With verbose set, the level drops to
// debug so loader row counts and query timings become visible.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Nop returns a logger that discards everything. Used by tests and as the
// fallback when a caller passes nil into the store.
func Nop() *zap.Logger {
	return zap.NewNop()
}
