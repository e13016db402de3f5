// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"strconv"

	"github.com/rusk-run/rusk/internal/ruskerr"
)

// ExitCode is a process exit status. Zero means success.
type ExitCode int

// IsSuccess reports a zero status.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// IsCommandNotFound reports the shell's "command not found" status (127).
func (c ExitCode) IsCommandNotFound() bool { return c == 127 }

// Err returns nil for success and an ErrCommandFailed execution error
// carrying the status otherwise.
func (c ExitCode) Err() error {
	if c.IsSuccess() {
		return nil
	}
	return ruskerr.CommandFailed(int(c))
}

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
