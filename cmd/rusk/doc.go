// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the rusk command line. The root command loads the
// task file before arguments are parsed and registers one subcommand per
// public task, with the task's args as positionals and its options as flags.
package cmd
