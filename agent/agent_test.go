package agent

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/toolcall"
	"github.com/skosovsky/toolcall/builtin"
	"github.com/skosovsky/toolcall/testutil"
)

func reply(s string) Planner {
	return PlannerFunc(func(context.Context, string, string) (string, error) {
		return s, nil
	})
}

func newRegistry(t *testing.T) *toolcall.Registry {
	t.Helper()
	reg := toolcall.NewRegistry()
	require.NoError(t, builtin.Register(reg))
	return reg
}

func TestSystemPrompt(t *testing.T) {
	reg := newRegistry(t)
	reg.MustRegister(&testutil.MockTool{NameVal: "peek", DescVal: "Peek", ParamsVal: []toolcall.Param{{Name: "what"}}})
	got := New(reply(""), reg).SystemPrompt()
	assert.Contains(t, got, `{"tool": "<name>", "args": { ... }}`)
	assert.Contains(t, got, "Answer: <final reply to user>")
	assert.Contains(t, got, "Available tools:\n"+
		"- add(a: integer, b: integer): Add two integers\n"+
		"- echo(text: string): Echo the input text\n"+
		"- peek(what: any): Peek\n")

	wipe, err := toolcall.NewTool("wipe", "Delete everything", nil, func(context.Context, toolcall.Args) (any, error) {
		return nil, nil
	}, toolcall.WithDangerous())
	require.NoError(t, err)
	marked := SystemPrompt("Answer:", []toolcall.Tool{wipe, reg.GetAllTools()[0]})
	assert.Contains(t, marked, "- wipe(): Delete everything [dangerous]\n")
	assert.Contains(t, marked, "- add(a: integer, b: integer): Add two integers\n")

	empty := SystemPrompt("FINAL:", nil)
	assert.Contains(t, empty, "FINAL: <final reply to user>")
	assert.NotContains(t, empty, "Available tools")
}

func TestTurn_ToolCall(t *testing.T) {
	var gotSystem, gotUser string
	p := PlannerFunc(func(_ context.Context, system, user string) (string, error) {
		gotSystem, gotUser = system, user
		return `{"tool": "add", "args": {"a": 2, "b": 3}}`, nil
	})
	a := New(p, newRegistry(t))
	turn, err := a.Turn(context.Background(), "what is 2+3?")
	require.NoError(t, err)
	assert.Equal(t, "what is 2+3?", gotUser)
	assert.Contains(t, gotSystem, "- add(")

	assert.Equal(t, toolcall.ToolCalls, turn.Verdict.Kind)
	assert.Empty(t, turn.Answer)
	assert.Empty(t, turn.Warning)
	require.Len(t, turn.Results, 1)
	assert.Equal(t, toolcall.Result{CallID: "call-1", ToolName: "add", Value: int64(5)}, turn.Results[0])
	assert.Empty(t, turn.Failed())
}

func TestTurn_DirectAnswer(t *testing.T) {
	turn, err := New(reply("Answer: Paris"), newRegistry(t)).Turn(context.Background(), "capital of France?")
	require.NoError(t, err)
	assert.Equal(t, toolcall.DirectAnswer, turn.Verdict.Kind)
	assert.Equal(t, "Paris", turn.Answer)
	assert.Empty(t, turn.Results)
}

func TestTurn_CustomPrefix(t *testing.T) {
	a := New(reply("FINAL: yes"), newRegistry(t), WithAnswerPrefix("FINAL:"))
	turn, err := a.Turn(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "yes", turn.Answer)
	assert.Contains(t, a.SystemPrompt(), "FINAL: <final reply")
}

func TestTurn_ParseFailureIsWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	a := New(reply(`{"tool": "echo", "args": {"text": "hi"`), newRegistry(t), WithLogger(logger))
	turn, err := a.Turn(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, toolcall.Unrecognized, turn.Verdict.Kind)
	require.Error(t, turn.Verdict.Err)
	assert.Empty(t, turn.Answer, "a malformed tool call is not an answer")
	assert.Contains(t, turn.Warning, "Failed to parse tool use response")
	assert.Empty(t, turn.Results)
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestTurn_UnrecognizedIsAnswer(t *testing.T) {
	turn, err := New(reply("  just chatting "), newRegistry(t)).Turn(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, toolcall.Unrecognized, turn.Verdict.Kind)
	assert.Equal(t, "just chatting", turn.Answer)
	assert.Empty(t, turn.Warning)
}

func TestTurn_DispatchFailuresRecorded(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		kind  toolcall.DispatchErrorKind
		level string
	}{
		{"unknown tool", `{"tool": "frobnicate", "args": {}}`, toolcall.UnknownTool, "level=WARN"},
		{"argument mismatch", `{"tool": "add", "args": {"a": 2}}`, toolcall.ArgumentMismatch, "level=WARN"},
		{"tool raised", `{"tool": "fail", "args": {}}`, toolcall.ToolRaised, "level=ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			reg := newRegistry(t)
			reg.MustRegister(&testutil.MockTool{NameVal: "fail", CallFn: func(context.Context, toolcall.Args) (any, error) {
				return nil, errors.New("backend down")
			}})
			turn, err := New(reply(tt.reply), reg, WithLogger(logger)).Turn(context.Background(), "go")
			require.NoError(t, err)
			require.Len(t, turn.Results, 1)
			assert.Equal(t, tt.kind, toolcall.DispatchKind(turn.Results[0].Error))
			assert.Len(t, turn.Failed(), 1)
			assert.Contains(t, buf.String(), tt.level)
		})
	}
}

func TestTurn_PlannerError(t *testing.T) {
	p := PlannerFunc(func(context.Context, string, string) (string, error) {
		return "", context.DeadlineExceeded
	})
	turn, err := New(p, newRegistry(t)).Turn(context.Background(), "hi")
	assert.Nil(t, turn)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "planner")
}
