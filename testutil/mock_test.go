package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skosovsky/toolcall"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMockTool(t *testing.T) {
	m := &MockTool{
		NameVal:   "test_tool",
		DescVal:   "For tests",
		ParamsVal: []toolcall.Param{{Name: "q", Type: toolcall.TypeString}},
		CallFn: func(_ context.Context, a toolcall.Args) (any, error) {
			return "got " + a.String("q"), nil
		},
	}
	assert.Equal(t, "test_tool", m.Name())
	assert.Equal(t, "For tests", m.Description())
	assert.Len(t, m.Parameters(), 1)
	out, err := m.Call(context.Background(), toolcall.Args{"q": "x"})
	require.NoError(t, err)
	assert.Equal(t, "got x", out)

	var zero MockTool
	assert.Equal(t, "mock", zero.Name())
	out, err = zero.Call(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestNewTestRegistry(t *testing.T) {
	m := &MockTool{NameVal: "m", ParamsVal: []toolcall.Param{{Name: "n", Type: toolcall.TypeInteger, Required: true}},
		CallFn: func(_ context.Context, a toolcall.Args) (any, error) {
			return a.Int("n") * 2, nil
		}}
	reg := NewTestRegistry(m)
	require.NotNil(t, reg)
	all := reg.GetAllTools()
	require.Len(t, all, 1)
	assert.Equal(t, "m", all[0].Name())
	out, err := reg.Dispatch(context.Background(), toolcall.ToolCall{ID: "1", Name: "m", Args: map[string]string{"n": "21"}})
	require.NoError(t, err)
	assert.Equal(t, int64(42), out)
}

func TestNewTestRegistry_Duplicate(t *testing.T) {
	assert.Panics(t, func() {
		NewTestRegistry(&MockTool{NameVal: "a"}, &MockTool{NameVal: "a"})
	})
}
