// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"os"
	"slices"
	"strings"
)

// Environ is the environment seen by one task invocation. It starts as a
// snapshot of a base environment and is changed by set-environment steps;
// the process environment itself is never modified.
type Environ struct {
	vars map[string]string
}

// NewEnviron snapshots the process environment.
func NewEnviron() *Environ {
	return NewEnvironFromSlice(os.Environ())
}

// NewEnvironFromSlice builds an Environ from KEY=value entries. Entries
// without a separator or with an empty key are ignored; later entries win.
func NewEnvironFromSlice(entries []string) *Environ {
	e := &Environ{vars: make(map[string]string, len(entries))}
	for _, entry := range entries {
		// Windows drive-letter entries such as "=C:=C:\" have an empty key.
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		e.vars[key] = value
	}
	return e
}

// NewEnvironFromMap builds an Environ holding exactly vars.
func NewEnvironFromMap(vars map[string]string) *Environ {
	e := &Environ{vars: maps.Clone(vars)}
	if e.vars == nil {
		e.vars = make(map[string]string)
	}
	return e
}

// Lookup reports the value of name.
func (e *Environ) Lookup(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set sets name to value.
func (e *Environ) Set(name, value string) { e.vars[name] = value }

// Unset removes name.
func (e *Environ) Unset(name string) { delete(e.vars, name) }

// Clone returns an independent copy.
func (e *Environ) Clone() *Environ {
	return &Environ{vars: maps.Clone(e.vars)}
}

// Merge sets every entry of vars, overriding existing values.
func (e *Environ) Merge(vars map[string]string) {
	maps.Copy(e.vars, vars)
}

// Slice returns the environment as sorted KEY=value entries.
func (e *Environ) Slice() []string {
	return EnvToSlice(e.vars)
}

// EnvToSlice converts a map of environment variables to a slice of
// KEY=value entries sorted by key.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		result = append(result, k+"="+env[k])
	}
	return result
}
