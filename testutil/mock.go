// Package testutil provides test helpers for toolcall (e.g. MockTool).
package testutil

import (
	"context"

	"github.com/skosovsky/toolcall"
)

// MockTool is a configurable Tool implementation for tests.
type MockTool struct {
	NameVal   string
	DescVal   string
	ParamsVal []toolcall.Param
	CallFn    func(ctx context.Context, args toolcall.Args) (any, error)
}

// Name returns the tool name.
func (m *MockTool) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Description returns the tool description.
func (m *MockTool) Description() string {
	return m.DescVal
}

// Parameters returns the declared parameters (nil means none).
func (m *MockTool) Parameters() []toolcall.Param {
	return m.ParamsVal
}

// Call runs CallFn if set, otherwise returns (nil, nil).
func (m *MockTool) Call(ctx context.Context, args toolcall.Args) (any, error) {
	if m.CallFn != nil {
		return m.CallFn(ctx, args)
	}
	return nil, nil
}

// Ensure MockTool implements Tool.
var _ toolcall.Tool = (*MockTool)(nil)
