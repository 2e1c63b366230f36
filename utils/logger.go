package utils

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is what the engine logs through. The Ctx variants append the
// arguments attached to ctx by WithDefaultArgs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	DebugCtx(ctx context.Context, msg string, args ...any)
	WarnCtx(ctx context.Context, msg string, args ...any)
}

const prefix = "[usergrid] "

type slogLogger struct {
	l *slog.Logger
}

// NewDefaultLogger writes text records of level and above to stderr.
func NewDefaultLogger(level slog.Level) Logger {
	return &slogLogger{l: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

func NewDiscardLogger() Logger {
	return &slogLogger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

type ctxArgsKey struct{}

func ctxArgs(ctx context.Context) []any {
	args, _ := ctx.Value(ctxArgsKey{}).([]any)
	return args
}

// WithDefaultArgs attaches key/value pairs to ctx, e.g. the application
// of the running query.
func WithDefaultArgs(ctx context.Context, args ...any) context.Context {
	prev := ctxArgs(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(append(merged, prev...), args...)
	return context.WithValue(ctx, ctxArgsKey{}, merged)
}

func (s *slogLogger) Info(msg string, args ...any) { s.l.Info(prefix+msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any) { s.l.Warn(prefix+msg, args...) }

func (s *slogLogger) DebugCtx(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, prefix+msg, append(args, ctxArgs(ctx)...)...)
}

func (s *slogLogger) WarnCtx(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, prefix+msg, append(args, ctxArgs(ctx)...)...)
}
