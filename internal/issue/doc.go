// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError adds an operation, a resource and suggestions to an error.
// The issue catalog holds Markdown guidance for common failures (missing
// task file, dependency cycle, failed command, ...), rendered with glamour
// when rusk runs in verbose mode. ForError picks the catalog entry for an
// error by its kind.
package issue
