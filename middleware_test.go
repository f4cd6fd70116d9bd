package toolcall

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	inner := minTool{name: "log_me", call: func(context.Context, Args) (any, error) {
		return "ok", nil
	}}
	wrapped := WithLogging(logger)(inner)
	out, err := wrapped.Call(context.Background(), Args{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	logStr := buf.String()
	assert.NotContains(t, logStr, "tool start", "start is logged at debug level")
	assert.Contains(t, logStr, "tool end")
	assert.Contains(t, logStr, "log_me")
}

func TestWithLogging_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := minTool{name: "fail", call: func(context.Context, Args) (any, error) {
		return nil, assert.AnError
	}}
	_, err := WithLogging(logger)(inner).Call(context.Background(), Args{})
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, buf.String(), "tool error")
	assert.NotContains(t, buf.String(), "tool end")
}

func TestWithRecovery(t *testing.T) {
	inner := minTool{name: "panic_me", call: func(context.Context, Args) (any, error) {
		panic("test panic")
	}}
	res, err := WithRecovery()(inner).Call(context.Background(), Args{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "panic: test panic", err.Error())
}

func TestWithTimeoutMiddleware(t *testing.T) {
	inner := minTool{name: "slow", call: func(ctx context.Context, _ Args) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	wrapped := WithTimeoutMiddleware(5 * time.Millisecond)(inner)
	res, err := wrapped.Call(context.Background(), Args{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithTimeoutMiddleware_ToolTimeout(t *testing.T) {
	tool, err := NewTool("slow", "", nil, func(ctx context.Context, _ Args) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, WithTimeout(5*time.Millisecond))
	require.NoError(t, err)

	reg := NewRegistry()
	reg.MustRegister(tool)
	reg.Use(WithTimeoutMiddleware(0))
	_, err = reg.Dispatch(context.Background(), ToolCall{Name: "slow"})
	assert.Equal(t, ToolRaised, DispatchKind(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithTimeoutMiddleware_Unbounded(t *testing.T) {
	inner := minTool{name: "fast", call: func(ctx context.Context, _ Args) (any, error) {
		_, ok := ctx.Deadline()
		return ok, nil
	}}
	out, err := WithTimeoutMiddleware(0)(inner).Call(context.Background(), Args{})
	require.NoError(t, err)
	assert.Equal(t, false, out)
}

func TestMiddleware_PreservesMetadata(t *testing.T) {
	tool, err := NewTool("meta", "desc", []Param{{Name: "x"}}, func(context.Context, Args) (any, error) {
		return nil, nil
	}, WithVersion("2"), WithTags("a"), WithDangerous())
	require.NoError(t, err)
	wrapped := WithRecovery()(WithLogging(nil)(tool))
	assert.Equal(t, "meta", wrapped.Name())
	assert.Equal(t, "desc", wrapped.Description())
	assert.Equal(t, tool.Parameters(), wrapped.Parameters())
	meta, ok := wrapped.(ToolMetadata)
	require.True(t, ok)
	assert.Equal(t, "2", meta.Version())
	assert.Equal(t, []string{"a"}, meta.Tags())
	assert.True(t, meta.IsDangerous())
}

func TestRegistry_Use(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(addTool(t))
	reg.Use(WithRecovery(), WithLogging(slog.Default()))
	out, err := reg.Dispatch(context.Background(), ToolCall{ID: "1", Name: "add", Args: map[string]string{"a": "2", "b": "1"}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), out)
}

// Calling Use twice rewraps from raw tools, so middlewares are not applied twice.
func TestRegistry_Use_NoDoubleWrap(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	reg := NewRegistry()
	reg.MustRegister(addTool(t))
	reg.Use(WithRecovery())
	reg.Use(WithLogging(logger))
	_, err := reg.Dispatch(context.Background(), ToolCall{ID: "1", Name: "add", Args: map[string]string{"a": "3", "b": "3"}})
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(buf.String(), "tool end"))
}

func TestRegistry_Use_AppliesToLaterTools(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reg := NewRegistry()
	reg.Use(WithLogging(logger))
	reg.MustRegister(minTool{name: "late"})
	_, err := reg.Dispatch(context.Background(), ToolCall{Name: "late"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "late")
}
