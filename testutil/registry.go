package testutil

import (
	"github.com/skosovsky/toolcall"
)

// NewTestRegistry returns a Registry with panic recovery enabled and the given
// tools registered. It panics on a duplicate or invalid tool.
func NewTestRegistry(tools ...toolcall.Tool) *toolcall.Registry {
	reg := toolcall.NewRegistry(toolcall.WithRecoverPanics(true))
	reg.MustRegister(tools...)
	return reg
}
