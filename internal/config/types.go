// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// RuntimeNative spawns the configured interpreter.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs commands in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidConfigRuntimeMode is returned when a config RuntimeMode value is not recognized.
	ErrInvalidConfigRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidVerbosity is returned when a verbosity name is not recognized.
	ErrInvalidVerbosity = errors.New("invalid verbosity")

	verbosityNames = []string{"silent", "quiet", "normal", "verbose"}
)

type (
	// RuntimeMode names the execution runtime. Defined locally so config does
	// not depend on the runtime package; callers convert at the boundary.
	RuntimeMode string

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// Config holds the user configuration.
	Config struct {
		// DefaultRuntime is used when no --runtime flag is given.
		DefaultRuntime RuntimeMode `json:"default_runtime" mapstructure:"default_runtime"`
		// Interpreter replaces sh -c for task files that do not set one.
		Interpreter []string `json:"interpreter" mapstructure:"interpreter"`
		// EnvFiles are dotenv files loaded before every run, relative to the
		// task file directory. A trailing '?' marks a file as optional.
		EnvFiles []string `json:"env_files" mapstructure:"env_files"`
		UI       UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// Verbosity is one of silent, quiet, normal or verbose.
		Verbosity   string      `json:"verbosity" mapstructure:"verbosity"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DefaultRuntime: RuntimeNative,
		Interpreter:    nil,
		EnvFiles:       nil,
		UI: UIConfig{
			Verbosity:   "normal",
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// IsValid reports whether the mode is a known runtime.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return true, nil
	}
	return false, []error{fmt.Errorf("%w: %q (want native or virtual)", ErrInvalidConfigRuntimeMode, string(m))}
}

// IsValid reports whether the scheme is known.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	}
	return false, []error{fmt.Errorf("%w: %q (want auto, dark or light)", ErrInvalidColorScheme, string(c))}
}

// Validate checks values that can also arrive through RUSK_* environment
// overrides, which bypass the CUE schema.
func (c *Config) Validate() error {
	var errs []error
	if c.DefaultRuntime != "" {
		if ok, fieldErrs := c.DefaultRuntime.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	if c.UI.ColorScheme != "" {
		if ok, fieldErrs := c.UI.ColorScheme.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	if c.UI.Verbosity != "" && !slices.Contains(verbosityNames, c.UI.Verbosity) {
		errs = append(errs, fmt.Errorf("%w: %q (want silent, quiet, normal or verbose)", ErrInvalidVerbosity, c.UI.Verbosity))
	}
	return errors.Join(errs...)
}

// GlamourStyle returns the glamour style name for the color scheme.
func (c ColorScheme) GlamourStyle() string {
	switch c {
	case ColorSchemeDark:
		return "dark"
	case ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
