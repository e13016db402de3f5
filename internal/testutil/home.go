// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform's home variable (USERPROFILE on Windows,
// HOME elsewhere) and XDG_CONFIG_HOME at dir, and returns a cleanup function
// restoring both.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	homeVar := "HOME"
	if runtime.GOOS == "windows" {
		homeVar = "USERPROFILE"
	}
	restoreHome := MustSetenv(t, homeVar, dir)
	restoreXDG := MustUnsetenv(t, "XDG_CONFIG_HOME")
	return func() {
		restoreXDG()
		restoreHome()
	}
}
