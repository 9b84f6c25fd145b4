package llm

import (
	"context"
	"log/slog"
	"time"
)

// CallEvent describes one Generate call, retries included.
type CallEvent struct {
	Task     TaskType
	Model    string
	Duration time.Duration
	Attempts int
	Err      error
}

// Success reports whether the call produced a response.
func (e CallEvent) Success() bool { return e.Err == nil }

// Observer is notified after every Generate call.
type Observer interface {
	ObserveCall(ctx context.Context, event CallEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, event CallEvent)

func (f ObserverFunc) ObserveCall(ctx context.Context, event CallEvent) { f(ctx, event) }

type NoopObserver struct{}

func (NoopObserver) ObserveCall(context.Context, CallEvent) {}

// NewLogObserver logs each call as an "llm_call" record. Failed calls are
// logged at warn level with their error code.
func NewLogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return ObserverFunc(func(ctx context.Context, e CallEvent) {
		attrs := []slog.Attr{
			slog.String("task", string(e.Task)),
			slog.String("model", e.Model),
			slog.Int64("duration_ms", e.Duration.Milliseconds()),
			slog.Int("attempts", e.Attempts),
		}
		level := slog.LevelInfo
		if !e.Success() {
			level = slog.LevelWarn
			attrs = append(attrs, slog.String("code", Code(e.Err)), slog.String("error", e.Err.Error()))
		}
		logger.LogAttrs(ctx, level, "llm_call", attrs...)
	})
}
