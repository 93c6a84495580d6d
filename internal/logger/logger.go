package logger

import "go.uber.org/zap"

// Log is the process-wide logger. It defaults to a no-op logger so that
// packages logging before Init (or under test) stay silent.
var Log = zap.NewNop()

// Init builds a production logger with the given level and installs it as
// the package logger
func Init(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	Log = log
	return log, nil
}
