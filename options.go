package toolcall

import (
	"context"
	"time"
)

// toolOptions hold optional tool settings (timeout, tags, etc.).
type toolOptions struct {
	timeout   time.Duration
	tags      []string
	version   string
	dangerous bool
}

// ToolOption configures a tool (e.g. WithTimeout, WithTags).
type ToolOption func(*toolOptions)

// WithTimeout sets a per-tool timeout. It is enforced by WithTimeoutMiddleware,
// never by Dispatch itself.
func WithTimeout(d time.Duration) ToolOption {
	return func(o *toolOptions) {
		o.timeout = d
	}
}

// WithTags sets tool tags (metadata for discovery/orchestrator).
func WithTags(tags ...string) ToolOption {
	return func(o *toolOptions) {
		o.tags = tags
	}
}

// WithVersion sets the tool version.
func WithVersion(version string) ToolOption {
	return func(o *toolOptions) {
		o.version = version
	}
}

// WithDangerous marks the tool as dangerous (orchestrator may require confirmation).
func WithDangerous() ToolOption {
	return func(o *toolOptions) {
		o.dangerous = true
	}
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	maxConcurrency int
	recoverPanics  bool
	onBefore       func(context.Context, ToolCall)
	onAfter        func(context.Context, ToolCall, Result, time.Duration)
}

// WithMaxConcurrency limits concurrent dispatches (semaphore).
// Pass 0 or negative to disable the semaphore (unlimited concurrency).
func WithMaxConcurrency(n int) RegistryOption {
	return func(o *registryOptions) {
		o.maxConcurrency = n
	}
}

// WithRecoverPanics toggles panic recovery in Dispatch. Recovery is on by
// default and a panicking tool is reported as ToolRaised. Passing false is a
// debugging aid only: the panic then unwinds through Dispatch and, unless the
// caller recovers it, crashes the process.
func WithRecoverPanics(enable bool) RegistryOption {
	return func(o *registryOptions) {
		o.recoverPanics = enable
	}
}

// WithOnBeforeDispatch sets a hook called before each dispatch of a known tool.
func WithOnBeforeDispatch(fn func(context.Context, ToolCall)) RegistryOption {
	return func(o *registryOptions) {
		o.onBefore = fn
	}
}

// WithOnAfterDispatch sets a hook called after each dispatch of a known tool,
// on success and on failure.
func WithOnAfterDispatch(fn func(context.Context, ToolCall, Result, time.Duration)) RegistryOption {
	return func(o *registryOptions) {
		o.onAfter = fn
	}
}
