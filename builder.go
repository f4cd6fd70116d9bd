package toolcall

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// tool is the internal implementation of Tool built by NewTool.
type tool struct {
	name        string
	description string
	params      []Param
	call        func(context.Context, Args) (any, error)
	opts        toolOptions
}

// NewTool builds a Tool from a static parameter declaration and a function.
// The declaration is checked here (non-empty unique names, known types) so a
// bad tool fails at startup instead of at its first call.
func NewTool(
	name, description string,
	params []Param,
	fn func(ctx context.Context, args Args) (any, error),
	opts ...ToolOption,
) (Tool, error) {
	var o toolOptions
	for _, opt := range opts {
		opt(&o)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: tool name must not be empty", ErrInvalidTool)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: tool %q has no function", ErrInvalidTool, name)
	}
	if err := checkParams(params); err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}
	return &tool{
		name:        name,
		description: description,
		params:      slices.Clone(params),
		call:        fn,
		opts:        o,
	}, nil
}

func (t *tool) Name() string        { return t.name }
func (t *tool) Description() string { return t.description }

// Parameters returns a copy of the declaration; Enum slices are shared.
func (t *tool) Parameters() []Param { return slices.Clone(t.params) }

func (t *tool) Call(ctx context.Context, args Args) (any, error) {
	return t.call(ctx, args)
}

func (t *tool) Timeout() time.Duration { return t.opts.timeout }
func (t *tool) Tags() []string         { return append([]string(nil), t.opts.tags...) }
func (t *tool) Version() string        { return t.opts.version }
func (t *tool) IsDangerous() bool      { return t.opts.dangerous }

var (
	_ Tool         = (*tool)(nil)
	_ ToolMetadata = (*tool)(nil)
)
