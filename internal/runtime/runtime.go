// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"io"
	"slices"
)

// Runtime type constants for the supported execution backends.
const (
	RuntimeTypeNative  RuntimeType = "native"
	RuntimeTypeVirtual RuntimeType = "virtual"
)

type (
	// Request describes one command to run.
	Request struct {
		Context context.Context
		// Interpreter is the argv prefix; Script is appended as the last argument.
		Interpreter []string
		Script      string
		Dir         string
		// Env is the complete child environment as KEY=value entries.
		Env []string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result contains the outcome of a Request.
	Result struct {
		// ExitCode is the exit code of the command when it ran.
		ExitCode ExitCode
		// Error is set when the command could not be started or did not
		// exit normally.
		Error error
	}

	// Runtime runs a command string through an interpreter.
	Runtime interface {
		// Name returns the runtime name.
		Name() string
		// Available reports whether the runtime can run on this system.
		Available() bool
		// Execute runs the request and waits for it to finish.
		Execute(req *Request) *Result
	}

	// RuntimeType identifies the type of runtime.
	//
	//nolint:revive // RuntimeType is more descriptive than Type for external callers
	RuntimeType string

	// Registry holds the known runtimes.
	Registry struct {
		runtimes map[RuntimeType]Runtime
	}
)

// Success returns true if the command ran and exited with zero.
func (r *Result) Success() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}

// ParseRuntimeType validates a runtime name.
func ParseRuntimeType(s string) (RuntimeType, error) {
	switch t := RuntimeType(s); t {
	case RuntimeTypeNative, RuntimeTypeVirtual:
		return t, nil
	}
	return "", fmt.Errorf("unknown runtime '%s' (want native or virtual)", s)
}

// NewRegistry creates an empty runtime registry.
func NewRegistry() *Registry {
	return &Registry{
		runtimes: make(map[RuntimeType]Runtime),
	}
}

// DefaultRegistry returns a registry with the native and virtual runtimes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(RuntimeTypeNative, NewNativeRuntime())
	r.Register(RuntimeTypeVirtual, NewVirtualRuntime())
	return r
}

// Register adds a runtime to the registry.
func (r *Registry) Register(typ RuntimeType, rt Runtime) {
	r.runtimes[typ] = rt
}

// Get returns a runtime by type.
func (r *Registry) Get(typ RuntimeType) (Runtime, error) {
	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, fmt.Errorf("runtime '%s' not registered", typ)
	}
	if !rt.Available() {
		return nil, fmt.Errorf("runtime '%s' is not available on this system", typ)
	}
	return rt, nil
}

// Available returns the available runtimes in name order.
func (r *Registry) Available() []RuntimeType {
	var types []RuntimeType
	for typ, rt := range r.runtimes {
		if rt.Available() {
			types = append(types, typ)
		}
	}
	slices.Sort(types)
	return types
}
