// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"io"
	"path/filepath"

	"github.com/rusk-run/rusk/internal/ruskerr"
	"github.com/rusk-run/rusk/internal/task"
)

// Executor runs task commands on a Runtime.
type Executor struct {
	Runtime Runtime
}

// NewExecutor creates an executor for rt; nil selects the native runtime.
func NewExecutor(rt Runtime) *Executor {
	if rt == nil {
		rt = NewNativeRuntime()
	}
	return &Executor{Runtime: rt}
}

// Run interpolates and runs one command, echoing it first unless the
// command or the caller asks for quiet or the verbosity is below normal.
// Exec, dir, print text and interpreter are interpolated leniently, so an
// unknown placeholder stays literal; only runaway recursion fails. A
// relative dir is joined onto the working directory.
func (e *Executor) Run(cmd task.Command, ctx *ExecutionContext, quiet bool) error {
	resolver := ctx.Resolver()

	script, err := resolver.Expand(cmd.Exec)
	if err != nil {
		return &ruskerr.ExecutionError{Kind: ruskerr.ErrInvalidOption, Subject: "command", Err: err}
	}
	dir := ctx.WorkDir
	if cmd.Dir != "" {
		sub, err := resolver.Expand(cmd.Dir)
		if err != nil {
			return &ruskerr.ExecutionError{Kind: ruskerr.ErrInvalidOption, Subject: "dir", Err: err}
		}
		if filepath.IsAbs(sub) {
			dir = sub
		} else {
			dir = filepath.Join(ctx.WorkDir, sub)
		}
	}

	if !cmd.Quiet && !quiet && ctx.Verbosity >= Normal {
		echo := cmd.Print
		if echo == "" {
			echo = cmd.Exec
		}
		ctx.Logger.Info("[RUN] " + resolver.Lenient(echo))
	}

	interpreter, err := resolver.ExpandList(ctx.interpreter())
	if err != nil {
		return &ruskerr.ExecutionError{Kind: ruskerr.ErrInvalidOption, Subject: "interpreter", Err: err}
	}

	result := e.runtime().Execute(&Request{
		Context:     ctx.context(),
		Interpreter: interpreter,
		Script:      script,
		Dir:         dir,
		Env:         ctx.ChildEnv(),
		Stdin:       ctx.Stdin,
		Stdout:      ctx.Stdout,
		Stderr:      ctx.Stderr,
	})
	if result.Error != nil {
		return ruskerr.CommandNotStarted(result.Error)
	}
	if result.ExitCode.IsCommandNotFound() {
		ctx.Logger.Debug("command not found", "command", script, "runtime", e.runtime().Name())
	}
	return result.ExitCode.Err()
}

// Check runs command in the working directory with its output discarded
// and reports whether it exited with zero. An error is returned only when
// the command could not be run at all.
func (e *Executor) Check(command string, ctx *ExecutionContext) (bool, error) {
	result := e.runtime().Execute(&Request{
		Context:     ctx.context(),
		Interpreter: ctx.interpreter(),
		Script:      command,
		Dir:         ctx.WorkDir,
		Env:         ctx.ChildEnv(),
		Stdout:      io.Discard,
		Stderr:      io.Discard,
	})
	if result.Error != nil {
		return false, ruskerr.CommandNotStarted(result.Error)
	}
	return result.Success(), nil
}

func (e *Executor) runtime() Runtime {
	if e.Runtime == nil {
		e.Runtime = NewNativeRuntime()
	}
	return e.Runtime
}
