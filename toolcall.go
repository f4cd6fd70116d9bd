package toolcall

import (
	"context"
	"time"
)

// Tool is the contract for a callable the planner may invoke by name.
// Parameters is a static declaration; the dispatcher uses it to type and check
// the raw string arguments before Call runs.
type Tool interface {
	Name() string
	Description() string
	Parameters() []Param
	// Call runs the tool with typed arguments. The result is handed back to the
	// caller unchanged.
	Call(ctx context.Context, args Args) (any, error)
}

// ToolMetadata is implemented by tools created with NewTool and provides optional per-tool settings.
// WithTimeoutMiddleware falls back to Timeout() when it has no duration of its own. Other methods
// expose tags, version, and dangerous flag for orchestration or discovery.
type ToolMetadata interface {
	Timeout() time.Duration
	Tags() []string
	Version() string
	IsDangerous() bool
}

// ToolCall is one invocation request extracted from a model reply.
// Args values are raw strings exactly as the parser captured them.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]string
}

// Result is the outcome of one dispatch, as reported by DispatchBatch and the
// after-dispatch hook.
type Result struct {
	CallID   string
	ToolName string
	Value    any
	Error    error
}

// Args holds typed arguments after binding: string, int64, float64, bool or
// map[string]any, according to the declared ParamType. Accessors return the
// zero value when a parameter is absent or has another type.
type Args map[string]any

// Has reports whether the argument was supplied.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

func (a Args) Int(name string) int64 {
	n, _ := a[name].(int64)
	return n
}

func (a Args) Float(name string) float64 {
	switch v := a[name].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

func (a Args) Object(name string) map[string]any {
	m, _ := a[name].(map[string]any)
	return m
}
