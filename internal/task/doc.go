// SPDX-License-Identifier: MPL-2.0

// Package task holds the executable task model.
//
// Build turns one decoded task definition into a Task, checking that source
// and target are declared together and that no name is both an arg and an
// option. NewRegistry builds a whole task file, resolves every subtask
// reference to the ID of its target and rejects invocation cycles before
// anything runs. ResolveVars computes the variable bag a task starts with.
package task
