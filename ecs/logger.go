package ecs

import "go.uber.org/zap"

// Logger receives the runtime's diagnostics. Log is used for registration
// events in development mode; Error reports recoverable misuse such as
// mutating an entity that does not exist.
type Logger interface {
	Log(msg string)
	Error(msg string)
}

// ZapLogger adapts a zap logger to Logger.
type ZapLogger struct {
	logger *zap.Logger
}

var _ Logger = (*ZapLogger)(nil)

// NewZapLogger wraps logger. A nil logger is replaced by zap.NewNop.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

// NopLogger returns a Logger that discards everything.
func NopLogger() *ZapLogger {
	return NewZapLogger(zap.NewNop())
}

func (l *ZapLogger) Log(msg string) {
	l.logger.Info(msg)
}

func (l *ZapLogger) Error(msg string) {
	l.logger.Error(msg)
}

// Zap returns the underlying zap logger.
func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}
