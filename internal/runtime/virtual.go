// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/rusk-run/rusk/internal/builtin"
)

// VirtualRuntime runs commands with the embedded mvdan/sh POSIX shell
// interpreter instead of spawning a system shell. The configured
// interpreter argv is ignored.
type VirtualRuntime struct {
	// Builtins are served in-process before falling back to PATH. Nil
	// disables them.
	Builtins *builtin.Registry
}

// NewVirtualRuntime creates a virtual runtime with the default builtins.
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{Builtins: builtin.Default()}
}

// Name returns the runtime name.
func (r *VirtualRuntime) Name() string {
	return string(RuntimeTypeVirtual)
}

// Available returns whether this runtime is available.
func (r *VirtualRuntime) Available() bool {
	// Built in, so always available.
	return true
}

// Execute parses and runs the script in-process.
func (r *VirtualRuntime) Execute(req *Request) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(req.Script), "command")
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to parse command: %w", err)}
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(req.Env...)),
		interp.StdIO(req.Stdin, req.Stdout, req.Stderr),
	}
	if req.Dir != "" {
		opts = append(opts, interp.Dir(req.Dir))
	}
	if r.Builtins != nil {
		opts = append(opts, interp.ExecHandlers(builtin.ExecHandler(r.Builtins)))
	}
	runner, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &Result{ExitCode: ExitCode(exitStatus)}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("command execution failed: %w", err)}
	}
	return &Result{ExitCode: 0}
}
