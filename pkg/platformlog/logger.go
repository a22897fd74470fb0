// Package platformlog provides the structured logger interface shared by every brightpath
// component, backed by zap, with a context-carried logger so handlers can log correlationId,
// eventId and workerName without threading a logger through every call.
package platformlog

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging contract every brightpath component codes against.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	With(fields ...any) Logger
	Sync() error
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// New builds a Logger backed by zap. envName "production" selects JSON output at Info level by
// default; anything else selects colorized development output. level overrides when non-empty.
func New(envName, level string) (Logger, error) {
	var cfg zap.Config
	if envName == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		var lvl zapcore.Level
		if err := lvl.Set(level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	cfg.DisableStacktrace = true

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &zapLogger{s: base.Sugar()}, nil
}

// NewNop returns a Logger that discards everything, for tests.
func NewNop() Logger {
	return &zapLogger{s: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debug(args ...any)                  { l.s.Debug(args...) }
func (l *zapLogger) Debugf(format string, args ...any)  { l.s.Debugf(format, args...) }
func (l *zapLogger) Info(args ...any)                   { l.s.Info(args...) }
func (l *zapLogger) Infof(format string, args ...any)   { l.s.Infof(format, args...) }
func (l *zapLogger) Warn(args ...any)                   { l.s.Warn(args...) }
func (l *zapLogger) Warnf(format string, args ...any)   { l.s.Warnf(format, args...) }
func (l *zapLogger) Error(args ...any)                  { l.s.Error(args...) }
func (l *zapLogger) Errorf(format string, args ...any)  { l.s.Errorf(format, args...) }
func (l *zapLogger) Fatal(args ...any)                  { l.s.Fatal(args...) }
func (l *zapLogger) Fatalf(format string, args ...any)  { l.s.Fatalf(format, args...) }
func (l *zapLogger) Sync() error                        { return l.s.Sync() }

func (l *zapLogger) With(fields ...any) Logger {
	return &zapLogger{s: l.s.With(fields...)}
}

type contextKey struct{}

// ContextWithLogger returns a context carrying logger, retrievable with FromContext.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts the Logger stashed by ContextWithLogger, or a no-op Logger if absent.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(contextKey{}).(Logger); ok {
		return l
	}

	return NewNop()
}
