package toolcall

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Dispatch resolves call.Name, binds call.Args to the declared parameters and
// invokes the tool. On success the tool's result is returned unchanged.
//
// Failures are *DispatchError values: UnknownTool when the name is not
// registered, ArgumentMismatch when the arguments do not fit the declaration
// (or the tool returned an ArgumentErrorf error), ToolRaised for any other
// tool error or a recovered panic. A closed registry yields ErrShutdown and a
// cancelled ctx while waiting for a concurrency slot yields ctx.Err().
// Dispatch never retries.
func (r *Registry) Dispatch(ctx context.Context, call ToolCall) (value any, err error) {
	r.mu.RLock()
	select {
	case <-r.done:
		r.mu.RUnlock()
		return nil, ErrShutdown
	default:
	}
	e, ok := r.tools[call.Name]
	if !ok {
		r.mu.RUnlock()
		return nil, &DispatchError{Kind: UnknownTool, Tool: call.Name, Detail: "not registered"}
	}
	r.running.Add(1)
	r.mu.RUnlock()
	defer r.running.Done()

	if err = r.acquireSemaphore(ctx); err != nil {
		return nil, err
	}
	defer r.releaseSemaphore()

	start := time.Now()
	// The after hook is registered before the recover defer so it runs last and
	// sees the error produced by a recovered panic.
	defer func() {
		if r.opts.onAfter != nil {
			r.opts.onAfter(ctx, call, Result{CallID: call.ID, ToolName: call.Name, Value: value, Error: err}, time.Since(start))
		}
	}()
	if r.opts.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				value = nil
				err = toolFailure(call.Name, &panicError{p: p})
			}
		}()
	}

	if r.opts.onBefore != nil {
		r.opts.onBefore(ctx, call)
	}

	args, detail := e.binder.bind(call.Args)
	if detail != "" {
		return nil, &DispatchError{Kind: ArgumentMismatch, Tool: call.Name, Detail: detail}
	}
	value, err = e.tool.Call(ctx, args)
	if err != nil {
		return nil, toolFailure(call.Name, err)
	}
	return value, nil
}

// toolFailure classifies an error returned by a tool body.
func toolFailure(name string, err error) error {
	kind := ToolRaised
	if errors.Is(err, ErrArgumentMismatch) {
		kind = ArgumentMismatch
	}
	return &DispatchError{Kind: kind, Tool: name, Detail: err.Error(), Err: err}
}

func (r *Registry) acquireSemaphore(ctx context.Context) error {
	if r.sem == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case r.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) releaseSemaphore() {
	if r.sem != nil {
		<-r.sem
	}
}

// DispatchBatch runs all calls in parallel and returns one Result per call in
// input order. A failing call does not cancel the others.
func (r *Registry) DispatchBatch(ctx context.Context, calls []ToolCall) []Result {
	results := make([]Result, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Go(func() {
			value, err := r.Dispatch(ctx, call)
			results[i] = Result{CallID: call.ID, ToolName: call.Name, Value: value, Error: err}
		})
	}
	wg.Wait()
	return results
}
