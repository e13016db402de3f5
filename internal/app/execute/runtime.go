// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/rusk-run/rusk/internal/config"
	"github.com/rusk-run/rusk/internal/runtime"
	"github.com/rusk-run/rusk/pkg/ruskfile"
)

// BuildExecutionContextOptions configures execution-context construction.
// Every field is optional.
type BuildExecutionContextOptions struct {
	Context context.Context
	// WorkDir is the directory commands run in. Empty means the process
	// working directory.
	WorkDir string
	// File is the loaded task file. Dotenv paths resolve against its
	// directory and its interpreter is used when set.
	File   *ruskfile.Ruskfile
	Config *config.Config

	// Verbosity names the CLI-selected level; empty defers to the config.
	Verbosity string
	// EnvFiles are dotenv files given on the command line. They are loaded
	// after the config's env_files and override them.
	EnvFiles []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ResolveRuntime applies runtime-selection precedence:
//  1. CLI override
//  2. Config default runtime
//  3. native
func ResolveRuntime(reg *runtime.Registry, override string, cfg *config.Config) (runtime.Runtime, error) {
	name := string(runtime.RuntimeTypeNative)
	switch {
	case override != "":
		name = override
	case cfg != nil && cfg.DefaultRuntime != "":
		name = string(cfg.DefaultRuntime)
	}

	typ, err := runtime.ParseRuntimeType(name)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		reg = runtime.DefaultRegistry()
	}
	return reg.Get(typ)
}

// ResolveInterpreter returns the task file's interpreter, else the configured
// one, else sh -c.
func ResolveInterpreter(file *ruskfile.Ruskfile, cfg *config.Config) []string {
	switch {
	case file != nil && len(file.Interpreter) > 0:
		return slices.Clone(file.Interpreter)
	case cfg != nil && len(cfg.Interpreter) > 0:
		return slices.Clone(cfg.Interpreter)
	default:
		return slices.Clone(runtime.DefaultInterpreter)
	}
}

// ResolveVerbosity returns the CLI level when set, else the configured one.
func ResolveVerbosity(flag string, cfg *config.Config) (runtime.Verbosity, error) {
	if flag == "" && cfg != nil {
		flag = cfg.UI.Verbosity
	}
	return runtime.ParseVerbosity(flag)
}

// BuildExecutionContext converts options into a runtime.ExecutionContext.
// Dotenv files are resolved relative to the task file directory (the
// working directory without a file) and loaded into the environment view,
// config files first.
func BuildExecutionContext(opts BuildExecutionContextOptions) (*runtime.ExecutionContext, error) {
	execCtx := runtime.NewExecutionContext(opts.Context, opts.WorkDir)
	if opts.Stdin != nil {
		execCtx.Stdin = opts.Stdin
	}
	if opts.Stdout != nil {
		execCtx.Stdout = opts.Stdout
	}
	if opts.Stderr != nil {
		execCtx.Stderr = opts.Stderr
	}

	verbosity, err := ResolveVerbosity(opts.Verbosity, opts.Config)
	if err != nil {
		return nil, err
	}
	execCtx.SetVerbosity(verbosity)
	execCtx.Interpreter = ResolveInterpreter(opts.File, opts.Config)

	var envFiles []string
	if opts.Config != nil {
		envFiles = append(envFiles, opts.Config.EnvFiles...)
	}
	envFiles = append(envFiles, opts.EnvFiles...)

	loaded := make(map[string]string)
	envDir := execCtx.WorkDir
	if opts.File != nil && opts.File.FilePath != "" {
		envDir = filepath.Dir(opts.File.FilePath)
	}
	if err := runtime.LoadEnvFiles(loaded, envFiles, envDir); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}
	for key, value := range loaded {
		execCtx.Env.Set(key, value)
	}
	return execCtx, nil
}
