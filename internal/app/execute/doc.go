// SPDX-License-Identifier: MPL-2.0

// Package execute runs tasks. It selects the runtime and interpreter for a
// run, builds the execution context and orchestrates task invocations,
// including conditions, subtasks and finally blocks.
package execute
