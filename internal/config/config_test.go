// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/rusk-run/rusk/internal/issue"
	"github.com/rusk-run/rusk/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.DefaultRuntime != RuntimeNative {
		t.Errorf("DefaultRuntime = %q, want native", cfg.DefaultRuntime)
	}
	if len(cfg.Interpreter) != 0 || len(cfg.EnvFiles) != 0 {
		t.Errorf("Interpreter = %v, EnvFiles = %v, want empty", cfg.Interpreter, cfg.EnvFiles)
	}
	if cfg.UI.Verbosity != "normal" || cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI = %+v, want normal/auto", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is Linux specific")
	}
	t.Cleanup(Reset)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if want := filepath.Join(xdg, AppName); dir != want {
		t.Errorf("ConfigDir() = %q, want %q", dir, want)
	}

	home := t.TempDir()
	t.Cleanup(testutil.SetHomeDir(t, home))
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if want := filepath.Join(home, ".config", AppName); dir != want {
		t.Errorf("ConfigDir() = %q, want %q", dir, want)
	}

	SetConfigDirOverride("/custom")
	if dir, _ := ConfigDir(); dir != "/custom" {
		t.Errorf("ConfigDir() with override = %q", dir)
	}
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultRuntime != RuntimeNative || cfg.UI.Verbosity != "normal" {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, dir, "config.cue", `
default_runtime: "virtual"
interpreter: ["bash", "-e", "-c"]
env_files: [".env", "local.env?"]
ui: verbosity: "quiet"
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultRuntime != RuntimeVirtual {
		t.Errorf("DefaultRuntime = %q, want virtual", cfg.DefaultRuntime)
	}
	if !slices.Equal(cfg.Interpreter, []string{"bash", "-e", "-c"}) {
		t.Errorf("Interpreter = %v", cfg.Interpreter)
	}
	if !slices.Equal(cfg.EnvFiles, []string{".env", "local.env?"}) {
		t.Errorf("EnvFiles = %v", cfg.EnvFiles)
	}
	if cfg.UI.Verbosity != "quiet" {
		t.Errorf("UI.Verbosity = %q, want quiet", cfg.UI.Verbosity)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI.ColorScheme = %q, default should survive a partial ui block", cfg.UI.ColorScheme)
	}

	path, err := ConfigFilePath(LoadOptions{ConfigDirPath: dir})
	if err != nil || path != filepath.Join(dir, "config.cue") {
		t.Errorf("ConfigFilePath() = %q, %v", path, err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "unknown runtime", content: `default_runtime: "container"`, wantMsg: "default_runtime"},
		{name: "empty interpreter", content: `interpreter: []`, wantMsg: "interpreter"},
		{name: "unknown verbosity", content: `ui: verbosity: "loud"`, wantMsg: "verbosity"},
		{name: "unknown key", content: `container_engine: "docker"`, wantMsg: "container_engine"},
		{name: "syntax", content: `ui: {`, wantMsg: "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := testutil.MustWriteFile(t, dir, "config.cue", tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("Load() expected error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("Load() error type = %T, want *issue.ActionableError", err)
			}
			if ae.Operation != "load configuration" || !ae.HasSuggestions() {
				t.Errorf("ActionableError = %+v", ae)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_CustomPathNotFound(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("Load() expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load() error = %v", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, dir, "config.cue", `default_runtime: "native"`)
	t.Setenv("RUSK_DEFAULT_RUNTIME", "virtual")
	t.Setenv("RUSK_UI_VERBOSITY", "verbose")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultRuntime != RuntimeVirtual {
		t.Errorf("DefaultRuntime = %q, want the environment override", cfg.DefaultRuntime)
	}
	if cfg.UI.Verbosity != "verbose" {
		t.Errorf("UI.Verbosity = %q, want verbose", cfg.UI.Verbosity)
	}

	t.Setenv("RUSK_DEFAULT_RUNTIME", "container")
	if _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir}); !errors.Is(err, ErrInvalidConfigRuntimeMode) {
		t.Errorf("Load() error = %v, want ErrInvalidConfigRuntimeMode", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := &Config{DefaultRuntime: "docker", UI: UIConfig{Verbosity: "loud", ColorScheme: "neon"}}
	err := cfg.Validate()
	for _, target := range []error{ErrInvalidConfigRuntimeMode, ErrInvalidVerbosity, ErrInvalidColorScheme} {
		if !errors.Is(err, target) {
			t.Errorf("Validate() = %v, want it to include %v", err, target)
		}
	}
}

func TestColorSchemeGlamourStyle(t *testing.T) {
	t.Parallel()

	tests := map[ColorScheme]string{
		ColorSchemeAuto:  "auto",
		ColorSchemeDark:  "dark",
		ColorSchemeLight: "light",
		"":               "auto",
	}
	for scheme, want := range tests {
		if got := scheme.GlamourStyle(); got != want {
			t.Errorf("%q.GlamourStyle() = %q, want %q", scheme, got, want)
		}
	}
}
