package utils

import "go.uber.org/zap"

// NewLogger returns a zap logger. Debug selects the development config
// (console output, debug level); otherwise the production JSON config is used.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewLoggerOrNop is NewLogger for call sites that cannot fail on a logger:
// a construction error yields a no-op logger.
func NewLoggerOrNop(debug bool) *zap.Logger {
	logger, err := NewLogger(debug)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
