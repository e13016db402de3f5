// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustUnsetenv,
// SetHomeDir), filesystem setup (MustMkdirAll, MustWriteFile)
// and skipping tests that need a POSIX shell (RequireShell).
package testutil
