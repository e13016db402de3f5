// SPDX-License-Identifier: MPL-2.0

// Package builtin provides portable implementations of common text and
// path utilities for the virtual runtime. Commands registered here are
// served in-process by the embedded shell, so task files that rely on them
// behave the same on hosts without a POSIX userland.
//
// Commands that are not registered fall through to the host's PATH.
package builtin
