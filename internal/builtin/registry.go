// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Func runs a builtin. args[0] is the command name.
type Func func(ctx context.Context, hc *HandlerContext, args []string) error

// Registry maps command names to builtins. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Func)}
}

// Default returns a registry holding every builtin of this package.
func Default() *Registry {
	r := NewRegistry()
	r.Register("basename", basename)
	r.Register("dirname", dirname)
	r.Register("head", head)
	r.Register("tail", tail)
	r.Register("wc", wc)
	r.Register("seq", seq)
	r.Register("sleep", sleep)
	return r
}

// Register adds fn under name. It panics on an empty or duplicate name.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		panic("builtin: cannot register command with empty name")
	}
	if _, exists := r.commands[name]; exists {
		panic(fmt.Sprintf("builtin: command %q already registered", name))
	}
	r.commands[name] = fn
}

// Lookup returns the builtin registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.commands[name]
	return fn, ok
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
