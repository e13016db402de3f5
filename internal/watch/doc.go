// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a task when its source files change.
//
// A Watcher monitors the directory tree of the task file. Events for files
// matching the watched globs are collected until no new event arrives for the
// debounce period; the callback then receives the whole batch at once.
// TaskPatterns derives the globs from the source lists of a task and every
// task it may invoke.
package watch
