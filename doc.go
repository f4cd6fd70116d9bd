// Package toolcall turns free-form language model replies into typed tool
// invocations and dispatches them against an explicitly populated registry.
//
// # Overview
//
// Model output that is meant to be a tool call is often not valid JSON: single
// quotes, Python-style dicts, triple-quoted strings, trailing prose. This
// package reads it with a small hand-written parser instead of a JSON decoder.
//
// Pipeline: reply text → Classify (direct answer, tool call, or neither) →
// ParseToolCall (shallow dict, then the nested args dict) → Registry.Dispatch
// (bind raw string args to the tool's declared Params, call, classify errors).
//
// # Key concepts
//
//   - Shallow dict: a one-level {"key": value} object whose values stay raw
//     strings; a nested object is captured verbatim and parsed again only when
//     the caller expects a dict there (the "args" of an envelope).
//   - Static schema: each Tool declares its Params; the same declaration is
//     exported as JSON Schema for prompts and enforced at dispatch.
//   - Errors as values: every parse failure is a *ParseError and every dispatch
//     failure a *DispatchError with a closed set of kinds.
//
// # Example
//
//	reg := toolcall.NewRegistry()
//	echo, err := toolcall.NewTool("echo", "Echo the input text", []toolcall.Param{
//	    {Name: "text", Type: toolcall.TypeString, Required: true},
//	}, func(_ context.Context, a toolcall.Args) (any, error) {
//	    return a.String("text"), nil
//	})
//	if err != nil { ... }
//	if err := reg.Register(echo); err != nil { ... }
//	v := toolcall.Classify(`{"tool": "echo", "args": {"text": 'hi'}}`, "Answer:")
//	if v.Kind == toolcall.ToolCalls {
//	    out, err := reg.Dispatch(ctx, v.Calls[0])
//	}
package toolcall
