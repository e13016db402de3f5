// SPDX-License-Identifier: MPL-2.0

// Package ruskfile decodes rusk.yml task files.
//
// A task file declares named tasks, each with optional args and options and
// an ordered run block. Many fields accept a shorthand form: a run block,
// a command or a subtask may be written as a bare string, and lists may be
// written as a single element. Tasks may pull their definition from another
// file through include, resolved relative to the including file.
//
// Parsing only decodes. Structural checks such as source/target pairing,
// unique arg and option names and dependency cycles happen when the task
// model is built (see internal/task).
package ruskfile
