// Package builtin provides the tools shipped with toolcall. Nothing is
// registered implicitly: call Register during startup.
package builtin

import (
	"context"
	"fmt"
	"math"

	"github.com/skosovsky/toolcall"
)

// Echo returns the echo tool: it returns its text argument unchanged.
func Echo() toolcall.Tool {
	return must(toolcall.NewTool("echo", "Echo the input text", []toolcall.Param{
		{Name: "text", Type: toolcall.TypeString, Description: "Text to echo back", Required: true},
	}, func(_ context.Context, args toolcall.Args) (any, error) {
		return args.String("text"), nil
	}))
}

// Add returns the add tool: the sum of two integers.
func Add() toolcall.Tool {
	return must(toolcall.NewTool("add", "Add two integers", []toolcall.Param{
		{Name: "a", Type: toolcall.TypeInteger, Required: true},
		{Name: "b", Type: toolcall.TypeInteger, Required: true},
	}, func(_ context.Context, args toolcall.Args) (any, error) {
		a, b := args.Int("a"), args.Int("b")
		if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
			return nil, toolcall.ArgumentErrorf("%d + %d overflows int64", a, b)
		}
		return a + b, nil
	}))
}

// must panics on a declaration error; the declarations above are constant.
func must(t toolcall.Tool, err error) toolcall.Tool {
	if err != nil {
		panic("builtin: " + err.Error())
	}
	return t
}

// All returns every built-in tool keyed by name.
func All() map[string]toolcall.Tool {
	return map[string]toolcall.Tool{
		"echo": Echo(),
		"add":  Add(),
	}
}

// Register adds the named built-in tools to reg, or all of them when names is
// empty. An unknown name fails before anything is registered.
func Register(reg *toolcall.Registry, names ...string) error {
	all := All()
	if len(names) == 0 {
		names = []string{"add", "echo"}
	}
	tools := make([]toolcall.Tool, 0, len(names))
	for _, name := range names {
		t, ok := all[name]
		if !ok {
			return fmt.Errorf("builtin: unknown tool %q", name)
		}
		tools = append(tools, t)
	}
	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("builtin: %w", err)
		}
	}
	return nil
}
