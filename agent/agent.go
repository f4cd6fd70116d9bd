// Package agent runs one planner turn: ask the planner, classify its reply and
// dispatch the resulting tool calls against a registry.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skosovsky/toolcall"
)

// Planner produces one reply for a system prompt and a user message. Adapters
// over real model clients live with the caller; see package provider for the
// response decoding side.
type Planner interface {
	Plan(ctx context.Context, system, user string) (string, error)
}

// PlannerFunc adapts a function to Planner.
type PlannerFunc func(ctx context.Context, system, user string) (string, error)

func (f PlannerFunc) Plan(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

// Agent ties a planner to a registry.
type Agent struct {
	planner    Planner
	reg        *toolcall.Registry
	classifier *toolcall.Classifier
	logger     *slog.Logger
	prefix     string
}

type Option func(*Agent)

// WithLogger sets the logger for the agent and its classifier.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithAnswerPrefix overrides the direct-answer marker ("Answer:" by default).
func WithAnswerPrefix(prefix string) Option {
	return func(a *Agent) {
		a.prefix = prefix
	}
}

func New(p Planner, reg *toolcall.Registry, opts ...Option) *Agent {
	a := &Agent{
		planner: p,
		reg:     reg,
		logger:  slog.Default(),
		prefix:  DefaultAnswerPrefix,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.classifier = toolcall.NewClassifier(a.prefix, a.logger)
	return a
}

// SystemPrompt renders the instructions for the registered tools.
func (a *Agent) SystemPrompt() string {
	return SystemPrompt(a.prefix, a.reg.GetAllTools())
}

// Turn is the record of one exchange.
type Turn struct {
	UserMessage string
	Reply       string
	Verdict     toolcall.Verdict
	// Answer is the direct answer, or the raw reply when it matched no known
	// format.
	Answer string
	// Results holds one entry per dispatched call, in reply order.
	Results []toolcall.Result
	// Warning is set when a tool-shaped reply failed to parse.
	Warning string
}

// Failed returns the results whose dispatch failed.
func (t *Turn) Failed() []toolcall.Result {
	var out []toolcall.Result
	for _, r := range t.Results {
		if r.Error != nil {
			out = append(out, r)
		}
	}
	return out
}

// Turn asks the planner once and acts on its reply. Only a planner error is
// returned; parse and dispatch failures are recorded in the Turn.
func (a *Agent) Turn(ctx context.Context, userMsg string) (*Turn, error) {
	reply, err := a.planner.Plan(ctx, a.SystemPrompt(), userMsg)
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	v := a.classifier.Classify(reply)
	turn := &Turn{UserMessage: userMsg, Reply: reply, Verdict: v}
	switch {
	case v.Kind == toolcall.DirectAnswer:
		turn.Answer = v.Text
	case v.Err != nil:
		turn.Warning = v.Annotated()
	case v.Kind == toolcall.Unrecognized:
		turn.Answer = v.Text
	}
	for _, call := range v.Calls {
		turn.Results = append(turn.Results, a.dispatch(ctx, call))
	}
	return turn, nil
}

func (a *Agent) dispatch(ctx context.Context, call toolcall.ToolCall) toolcall.Result {
	value, err := a.reg.Dispatch(ctx, call)
	res := toolcall.Result{CallID: call.ID, ToolName: call.Name, Value: value, Error: err}
	switch toolcall.DispatchKind(err) {
	case 0:
		if err != nil {
			a.logger.ErrorContext(ctx, "dispatch failed", "tool", call.Name, "error", err)
		} else {
			a.logger.InfoContext(ctx, "tool returned", "tool", call.Name, "result", value)
		}
	case toolcall.UnknownTool, toolcall.ArgumentMismatch:
		a.logger.WarnContext(ctx, "tool call rejected", "tool", call.Name, "error", err)
	case toolcall.ToolRaised:
		a.logger.ErrorContext(ctx, "tool failed", "tool", call.Name, "error", err)
	}
	return res
}

// DefaultAnswerPrefix marks a direct answer in a reply.
const DefaultAnswerPrefix = "Answer:"

const promptHeader = `You are an autonomous assistant that can think and act.
When you need to use a tool, respond with a strict Python dict object as:
{"tool": "<name>", "args": { ... }}
If no tool is needed, respond with:
%s <final reply to user>
Only one object, no extra text.
`

// SystemPrompt renders the fixed instructions followed by one line per tool:
// "- name(param: type, ...): description".
func SystemPrompt(answerPrefix string, tools []toolcall.Tool) string {
	var b strings.Builder
	fmt.Fprintf(&b, promptHeader, answerPrefix)
	if len(tools) == 0 {
		return b.String()
	}
	b.WriteString("\nAvailable tools:\n")
	for _, t := range tools {
		params := t.Parameters()
		parts := make([]string, 0, len(params))
		for _, p := range params {
			typ := p.Type
			if typ == "" {
				typ = toolcall.TypeAny
			}
			parts = append(parts, fmt.Sprintf("%s: %s", p.Name, typ))
		}
		fmt.Fprintf(&b, "- %s(%s): %s", t.Name(), strings.Join(parts, ", "), t.Description())
		if tm, ok := t.(toolcall.ToolMetadata); ok && tm.IsDangerous() {
			b.WriteString(" [dangerous]")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
