// SPDX-License-Identifier: MPL-2.0

// Package config handles the rusk user configuration using Viper with CUE as
// the file format.
//
// Configuration is loaded from ~/.config/rusk/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/rusk/config.cue on macOS,
// %APPDATA%\rusk\config.cue on Windows) and validated against the embedded
// CUE schema (config_schema.cue). RUSK_* environment variables override file
// values, e.g. RUSK_DEFAULT_RUNTIME=virtual or RUSK_UI_VERBOSITY=verbose.
package config
