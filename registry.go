package toolcall

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// entry is a registered tool with its middleware chain applied and its
// argument binder compiled.
type entry struct {
	tool   Tool
	binder *binder
}

// Registry holds tools by name and dispatches calls to them.
//
// Registration is meant to finish during startup, before concurrent Dispatch
// begins. The maps are still guarded so that late registration is safe.
type Registry struct {
	tools       map[string]entry // wrapped with middlewares, used by Dispatch
	rawTools    map[string]Tool  // unwrapped, used by Use() to re-apply middlewares from scratch
	sem         chan struct{}
	opts        registryOptions
	done        chan struct{}
	running     sync.WaitGroup
	mu          sync.RWMutex
	middlewares []Middleware
}

// NewRegistry creates a Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	o := registryOptions{
		maxConcurrency: 10,
		recoverPanics:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	var sem chan struct{}
	if o.maxConcurrency > 0 {
		sem = make(chan struct{}, o.maxConcurrency)
	}
	return &Registry{
		tools:    make(map[string]entry),
		rawTools: make(map[string]Tool),
		sem:      sem,
		opts:     o,
		done:     make(chan struct{}),
	}
}

// Register adds a tool. A second tool with the same name is rejected with
// ErrDuplicateTool, and an invalid parameter declaration with ErrInvalidTool.
// Stored middlewares (see Use) are applied to the tool before registration.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("%w: nil tool", ErrInvalidTool)
	}
	name := t.Name()
	if name == "" {
		return fmt.Errorf("%w: tool name must not be empty", ErrInvalidTool)
	}
	b, err := newBinder(t.Parameters())
	if err != nil {
		return fmt.Errorf("tool %q: %w", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rawTools[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, name)
	}
	r.rawTools[name] = t
	r.tools[name] = entry{tool: r.wrap(t), binder: b}
	return nil
}

// MustRegister is Register for startup code; it panics on error.
func (r *Registry) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic("toolcall: " + err.Error())
		}
	}
}

// wrap applies the middleware chain; the first middleware is outermost. Caller holds r.mu.
func (r *Registry) wrap(t Tool) Tool {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		t = r.middlewares[i](t)
	}
	return t
}

// Use stores the given middlewares and reapplies them from scratch to all registered tools (onion order:
// first middleware is outermost). Tools registered after Use will also get these middlewares applied.
// Calling Use multiple times replaces the middleware chain and rewraps from raw tools, avoiding double-wrapping.
func (r *Registry) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = middlewares
	for name, raw := range r.rawTools {
		e := r.tools[name]
		e.tool = r.wrap(raw)
		r.tools[name] = e
	}
}

// GetAllTools returns all registered tools sorted by name for deterministic order.
func (r *Registry) GetAllTools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, name := range r.namesLocked() {
		out = append(out, r.tools[name].tool)
	}
	return out
}

// GetTool returns the tool with the given name (after middlewares are applied), or (nil, false) if not found.
func (r *Registry) GetTool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	return e.tool, ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Schemas exports the declared schema of every tool, sorted by name.
func (r *Registry) Schemas() []ToolSchema {
	tools := r.GetAllTools()
	out := make([]ToolSchema, 0, len(tools))
	for _, t := range tools {
		s := ToolSchema{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  ParamsSchema(t.Parameters()),
		}
		if tm, ok := t.(ToolMetadata); ok {
			if tags := tm.Tags(); len(tags) > 0 {
				s.Tags = tags
			}
			s.Version = tm.Version()
			s.Dangerous = tm.IsDangerous()
		}
		out = append(out, s)
	}
	return out
}

// Shutdown closes the registry for new calls and waits for in-flight dispatches or ctx to cancel.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	select {
	case <-r.done:
		r.mu.Unlock()
		return nil
	default:
		close(r.done)
	}
	r.mu.Unlock()
	done := make(chan struct{})
	go func() {
		r.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
