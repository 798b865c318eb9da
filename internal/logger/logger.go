// Package logger builds the zap logger shared by the HTTP and gRPC servers.
package logger

import (
	"go.uber.org/zap"
)

// Logger holds the process logger. It is a no-op until Init is called.
type Logger struct {
	Log *zap.Logger
}

func New() *Logger {
	return &Logger{
		Log: zap.NewNop(),
	}
}

// Init replaces the no-op logger with a JSON production logger at the given
// level ("debug", "info", ...).
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.InitialFields = map[string]interface{}{"service": "url-resolver"}

	zl, err := cfg.Build()
	if err != nil {
		return err
	}

	l.Log = zl
	return nil
}

// Sync flushes buffered entries. Errors from syncing stdout/stderr are
// ignored by callers on shutdown.
func (l *Logger) Sync() error {
	return l.Log.Sync()
}
