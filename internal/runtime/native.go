// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// NativeRuntime runs commands as child processes of the configured
// interpreter, e.g. sh -c "<command>".
type NativeRuntime struct{}

// NewNativeRuntime creates a new native runtime.
func NewNativeRuntime() *NativeRuntime {
	return &NativeRuntime{}
}

// Name returns the runtime name.
func (r *NativeRuntime) Name() string {
	return string(RuntimeTypeNative)
}

// Available returns whether this runtime is available.
func (r *NativeRuntime) Available() bool {
	return true
}

// Execute spawns the interpreter with the script as its final argument and
// waits for it. The child inherits the request's streams.
func (r *NativeRuntime) Execute(req *Request) *Result {
	if len(req.Interpreter) == 0 {
		return &Result{ExitCode: 1, Error: errors.New("interpreter is empty")}
	}
	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	args := append(req.Interpreter[1:len(req.Interpreter):len(req.Interpreter)], req.Script)
	cmd := exec.CommandContext(ctx, req.Interpreter[0], args...)
	cmd.Dir = req.Dir
	cmd.Env = req.Env
	cmd.Stdin = req.Stdin
	cmd.Stdout = req.Stdout
	cmd.Stderr = req.Stderr

	err := cmd.Run()
	if err == nil {
		return &Result{ExitCode: 0}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// -1 means the process was terminated by a signal.
		if code := exitErr.ExitCode(); code >= 0 {
			return &Result{ExitCode: ExitCode(code)}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("command terminated: %w", err)}
	}
	return &Result{ExitCode: 1, Error: fmt.Errorf("failed to execute command: %w", err)}
}
