// Package logger provides structured logging for the zoo server.
// Every keeper action and simulation turn should be traceable through this.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.SugaredLogger behind the small surface the rest of the
// server uses. Subsystems receive it by injection and never construct their
// own.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a production JSON logger at info level. Use New for
// level and encoder control.
func NewLogger() *Logger {
	l, _ := New("info", false)
	return l
}

// New builds a logger at the given level. dev selects the human-readable
// console encoder instead of production JSON.
func New(level string, dev bool) (*Logger, error) {
	var cfg zap.Config
	if dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: base.Sugar()}, nil
}

// Must panics when the logger cannot be created. Boot-time use only.
func Must(l *Logger, err error) *Logger {
	if err != nil {
		panic(err)
	}
	return l
}

// Named returns a child logger tagged with a component name.
func (l *Logger) Named(component string) *Logger {
	return &Logger{sugar: l.sugar.Named(component)}
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.sugar.Info(msg)
}

// Infof logs formatted informational messages.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.sugar.Warn(msg)
}

// Warnf logs formatted warning messages.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.sugar.Error(msg)
}

// Errorf logs formatted error messages.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Event logs one simulation event with its type, subject, and details.
func (l *Logger) Event(eventType string, subject string, details string) {
	l.sugar.Infow("event", "type", eventType, "subject", subject, "details", details)
}

// Sync flushes buffered log entries. Call on shutdown.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}
