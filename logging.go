package blockade

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gekko3d/blockade/ecs"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ZapLogger is the Logger installed as a World resource. The level can be
// flipped at runtime through SetDebug.
type ZapLogger struct {
	level zap.AtomicLevel
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// ParseLevel accepts zap level names ("debug", "info", "warn", "error").
func ParseLevel(name string) (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return lvl, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

func NewZapLogger(name string, level zapcore.Level) (*ZapLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	base, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return wrapZap(base.Named(name), cfg.Level), nil
}

// NewZapLoggerFrom wraps an existing core, mostly for tests with zaptest
// observers.
func NewZapLoggerFrom(l *zap.Logger, level zap.AtomicLevel) *ZapLogger {
	return wrapZap(l, level)
}

func wrapZap(l *zap.Logger, level zap.AtomicLevel) *ZapLogger {
	return &ZapLogger{level: level, base: l, sugar: l.Sugar()}
}

func (l *ZapLogger) DebugEnabled() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

func (l *ZapLogger) SetDebug(enabled bool) {
	if enabled {
		l.level.SetLevel(zapcore.DebugLevel)
	} else if l.level.Level() == zapcore.DebugLevel {
		l.level.SetLevel(zapcore.InfoLevel)
	}
}

func (l *ZapLogger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *ZapLogger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Zap exposes the structured logger for callers that want fields.
func (l *ZapLogger) Zap() *zap.Logger {
	return l.base
}

func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}

// Destroy flushes buffered entries when the world shuts down.
func (l *ZapLogger) Destroy() {
	_ = l.base.Sync()
}

type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool      { return false }
func (nopLogger) SetDebug(bool)           {}
func (nopLogger) Debugf(string, ...any)   {}
func (nopLogger) Infof(string, ...any)    {}
func (nopLogger) Warnf(string, ...any)    {}
func (nopLogger) Errorf(string, ...any)   {}

// LoggerOf returns the first Logger resource of w, otherwise a no-op logger.
// Never returns nil.
func LoggerOf(w *ecs.World) Logger {
	if w == nil {
		return NewNopLogger()
	}
	for _, r := range w.Resources() {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
