package toolcall

import (
	"context"
	"log/slog"
	"time"
)

// Middleware wraps a Tool with cross-cutting behavior (logging, recovery, timeout).
type Middleware func(Tool) Tool

// WithLogging returns a middleware that logs start, end, duration, and errors.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Tool) Tool {
		return &loggingTool{toolBase: toolBase{next: next}, logger: logger}
	}
}

// WithRecovery returns a middleware that turns a panic in the tool body into an
// error, which Dispatch reports as ToolRaised.
func WithRecovery() Middleware {
	return func(next Tool) Tool {
		return &recoveryTool{toolBase{next: next}}
	}
}

// WithTimeoutMiddleware returns a middleware that bounds each call with a deadline. With d <= 0 the
// wrapped tool's own WithTimeout value is used; with neither, calls are not bounded. A tool that
// honours ctx returns ctx.Err(), reported as ToolRaised wrapping context.DeadlineExceeded.
func WithTimeoutMiddleware(d time.Duration) Middleware {
	return func(next Tool) Tool {
		return &timeoutTool{toolBase: toolBase{next: next}, timeout: d}
	}
}

// toolBase delegates Tool and ToolMetadata to the wrapped Tool; used by middleware wrappers.
type toolBase struct{ next Tool }

func (b *toolBase) Name() string        { return b.next.Name() }
func (b *toolBase) Description() string { return b.next.Description() }
func (b *toolBase) Parameters() []Param { return b.next.Parameters() }

func (b *toolBase) Timeout() time.Duration {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.Timeout()
	}
	return 0
}
func (b *toolBase) Tags() []string {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.Tags()
	}
	return nil
}
func (b *toolBase) Version() string {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.Version()
	}
	return ""
}
func (b *toolBase) IsDangerous() bool {
	if tm, ok := b.next.(ToolMetadata); ok {
		return tm.IsDangerous()
	}
	return false
}

type loggingTool struct {
	toolBase
	logger *slog.Logger
}

func (m *loggingTool) Call(ctx context.Context, args Args) (any, error) {
	m.logger.DebugContext(ctx, "tool start", "tool", m.next.Name(), "args", args)
	start := time.Now()
	res, err := m.next.Call(ctx, args)
	dur := time.Since(start)
	if err != nil {
		m.logger.ErrorContext(ctx, "tool error", "tool", m.next.Name(), "duration", dur, "error", err)
		return nil, err
	}
	m.logger.InfoContext(ctx, "tool end", "tool", m.next.Name(), "duration", dur)
	return res, nil
}

type recoveryTool struct{ toolBase }

func (r *recoveryTool) Call(ctx context.Context, args Args) (res any, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = &panicError{p: p}
		}
	}()
	return r.next.Call(ctx, args)
}

type timeoutTool struct {
	toolBase
	timeout time.Duration
}

func (t *timeoutTool) Timeout() time.Duration {
	if t.timeout > 0 {
		return t.timeout
	}
	return t.toolBase.Timeout()
}

func (t *timeoutTool) Call(ctx context.Context, args Args) (any, error) {
	d := t.Timeout()
	if d <= 0 {
		return t.next.Call(ctx, args)
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return t.next.Call(ctx, args)
}

var (
	_ ToolMetadata = (*loggingTool)(nil)
	_ ToolMetadata = (*recoveryTool)(nil)
	_ ToolMetadata = (*timeoutTool)(nil)
)
