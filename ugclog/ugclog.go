// Package ugclog adapts go.uber.org/zap to gc.Logger. It keeps the
// env-var debug toggle of internal/lsp2/logger.go (SOLA_LSP_DEBUG there,
// UGC_DEBUG here) but replaces the bespoke *os.File writer with a real
// structured logger, since zap is already a dependency of the tree this
// was grounded on and no file in it actually imports it.
package ugclog

import (
	"os"

	"go.uber.org/zap"
)

// Logger wraps a *zap.SugaredLogger so it satisfies gc.Logger without an
// import cycle between gc and ugclog.
type Logger struct {
	s *zap.SugaredLogger
}

// New builds a Logger. In debug mode it uses zap's development config
// (human-readable, debug level and above, stack traces on warn); otherwise
// it uses the production config (JSON, info level and above).
func New(debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	return &Logger{s: l.Sugar()}
}

// NewFromEnv builds a Logger with debug mode controlled by UGC_DEBUG,
// mirroring internal/lsp2/logger.go's SOLA_LSP_DEBUG convention.
func NewFromEnv() *Logger {
	switch os.Getenv("UGC_DEBUG") {
	case "1", "true", "on":
		return New(true)
	default:
		return New(false)
	}
}

// Debugf implements gc.Logger.
func (l *Logger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }

// Warnf implements gc.Logger.
func (l *Logger) Warnf(format string, args ...any) { l.s.Warnf(format, args...) }

// Sync flushes buffered log entries. Call before process exit.
func (l *Logger) Sync() error { return l.s.Sync() }
