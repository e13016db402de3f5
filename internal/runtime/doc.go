// SPDX-License-Identifier: MPL-2.0

// Package runtime runs task commands.
//
// Two runtime implementations are available:
//   - native: spawns the configured interpreter, sh -c by default
//   - virtual: runs the command with an embedded shell interpreter (mvdan/sh)
//
// ExecutionContext carries the state of one task run: working directory,
// variable bag, environment view, interpreter, call stack, verbosity and
// the logger. Scope derives a child context for a nested task so that its
// variable and environment changes do not leak into the caller.
//
// Executor interpolates a command against the context, echoes it and hands
// it to a Runtime. Environ is the per-scope environment; the process
// environment itself is never modified.
package runtime
