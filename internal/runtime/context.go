// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rusk-run/rusk/internal/interpolate"
)

// Verbosity levels, ordered from least to most output.
const (
	Silent Verbosity = iota
	Quiet
	Normal
	Verbose
)

// DefaultInterpreter is the argv prefix used when none is configured.
var DefaultInterpreter = []string{"sh", "-c"}

type (
	// Verbosity controls how much rusk itself prints.
	Verbosity int

	// CallStack records the names of the tasks currently executing,
	// outermost first. It is shared by every scope of one run.
	CallStack struct {
		names []string
	}

	// ExecutionContext is the mutable state threaded through one task run.
	ExecutionContext struct {
		// Context is used for cancellation only; no timeouts are applied.
		Context context.Context
		// WorkDir is the base directory for commands and path conditions.
		WorkDir string
		// Vars is the variable bag used for interpolation and exported to
		// every child process.
		Vars map[string]string
		// Env is the environment view for conditions, interpolation
		// fallback and child processes.
		Env *Environ
		// Interpreter is the argv prefix a command string is appended to.
		Interpreter []string
		Stack       *CallStack
		Verbosity   Verbosity
		Logger      *log.Logger

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// String returns the lowercase name of the level.
func (v Verbosity) String() string {
	switch v {
	case Silent:
		return "silent"
	case Quiet:
		return "quiet"
	case Verbose:
		return "verbose"
	default:
		return "normal"
	}
}

// ParseVerbosity maps a level name to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(s) {
	case "silent":
		return Silent, nil
	case "quiet":
		return Quiet, nil
	case "", "normal":
		return Normal, nil
	case "verbose":
		return Verbose, nil
	}
	return Normal, fmt.Errorf("unknown verbosity %q (want silent, quiet, normal or verbose)", s)
}

// NewLogger returns a logger writing to w whose level follows v:
// silent discards everything, quiet shows errors, normal shows info and
// verbose shows debug output.
func NewLogger(w io.Writer, v Verbosity) *log.Logger {
	if v == Silent {
		w = io.Discard
	}
	logger := log.NewWithOptions(w, log.Options{Prefix: "rusk"})
	switch v {
	case Silent, Quiet:
		logger.SetLevel(log.ErrorLevel)
	case Verbose:
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

// NewExecutionContext creates a context with defaults: the given working
// directory (the current directory when empty), an empty bag, a snapshot
// of the process environment, the sh -c interpreter, normal verbosity and
// the process's standard streams.
func NewExecutionContext(ctx context.Context, workDir string) *ExecutionContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		} else {
			workDir = "."
		}
	}
	return &ExecutionContext{
		Context:     ctx,
		WorkDir:     workDir,
		Vars:        make(map[string]string),
		Env:         NewEnviron(),
		Interpreter: slices.Clone(DefaultInterpreter),
		Stack:       &CallStack{},
		Verbosity:   Normal,
		Logger:      NewLogger(os.Stderr, Normal),
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

// SetVerbosity sets the level and re-creates the logger on stderr to match.
func (c *ExecutionContext) SetVerbosity(v Verbosity) {
	c.Verbosity = v
	c.Logger = NewLogger(c.Stderr, v)
}

// Scope returns a child context for a nested task invocation. The bag and
// the environment are copied so the child's changes stay local; the call
// stack, streams and logger are shared.
func (c *ExecutionContext) Scope() *ExecutionContext {
	child := *c
	child.Vars = maps.Clone(c.Vars)
	if child.Vars == nil {
		child.Vars = make(map[string]string)
	}
	child.Env = c.environ().Clone()
	return &child
}

// Resolver returns an interpolation resolver over the bag and environment.
func (c *ExecutionContext) Resolver() interpolate.Resolver {
	return interpolate.Resolver{Vars: c.Vars, Env: c.environ().Lookup}
}

// Expand interpolates text leniently: on error the literal text is returned.
func (c *ExecutionContext) Expand(text string) string {
	return c.Resolver().Lenient(text)
}

// ChildEnv returns the environment handed to child processes: the
// environment view overlaid with every bag entry.
func (c *ExecutionContext) ChildEnv() []string {
	env := c.environ().Clone()
	env.Merge(c.Vars)
	return env.Slice()
}

// LookupEnv reports the value of name in the environment view.
func (c *ExecutionContext) LookupEnv(name string) (string, bool) {
	return c.environ().Lookup(name)
}

// SetEnv sets name in both the environment view and the bag.
func (c *ExecutionContext) SetEnv(name, value string) {
	c.environ().Set(name, value)
	c.Vars[name] = value
}

// UnsetEnv removes name from both the environment view and the bag.
func (c *ExecutionContext) UnsetEnv(name string) {
	c.environ().Unset(name)
	delete(c.Vars, name)
}

func (c *ExecutionContext) environ() *Environ {
	if c.Env == nil {
		c.Env = NewEnviron()
	}
	return c.Env
}

func (c *ExecutionContext) interpreter() []string {
	if len(c.Interpreter) == 0 {
		return DefaultInterpreter
	}
	return c.Interpreter
}

func (c *ExecutionContext) context() context.Context {
	if c.Context == nil {
		return context.Background()
	}
	return c.Context
}

// Push records name as running.
func (s *CallStack) Push(name string) { s.names = append(s.names, name) }

// Pop removes the innermost name.
func (s *CallStack) Pop() {
	if len(s.names) > 0 {
		s.names = s.names[:len(s.names)-1]
	}
}

// Contains reports whether name is running.
func (s *CallStack) Contains(name string) bool { return slices.Contains(s.names, name) }

// Depth returns the number of running tasks.
func (s *CallStack) Depth() int { return len(s.names) }

// Names returns the running task names, outermost first.
func (s *CallStack) Names() []string { return slices.Clone(s.names) }

// Path renders the stack followed by next, e.g. "a -> b -> a".
func (s *CallStack) Path(next string) string {
	return strings.Join(append(s.Names(), next), " -> ")
}
