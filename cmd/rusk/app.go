// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rusk-run/rusk/internal/app/execute"
	"github.com/rusk-run/rusk/internal/config"
	"github.com/rusk-run/rusk/internal/issue"
	"github.com/rusk-run/rusk/internal/runtime"
	"github.com/rusk-run/rusk/internal/task"
	"github.com/rusk-run/rusk/pkg/ruskfile"
)

type (
	// App wires the CLI to the loaded task file, the user configuration and
	// the available runtimes.
	App struct {
		Config   config.Provider
		Runtimes *runtime.Registry

		// workDir is where commands run: the directory rusk was started
		// from, not the task file's directory.
		workDir  string
		file     *ruskfile.Ruskfile
		registry *task.Registry
		// loadErr is reported when a task is requested but the task file
		// could not be loaded.
		loadErr error
		cfg     *config.Config

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   config.Provider
		Runtimes *runtime.Registry
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// runRequest carries the inputs of one task invocation.
	runRequest struct {
		name   string
		inputs task.Inputs
	}
)

// NewApp creates an App with production defaults for nil dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:   deps.Config,
		Runtimes: deps.Runtimes,
		stdin:    deps.Stdin,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Runtimes == nil {
		app.Runtimes = runtime.DefaultRegistry()
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// LoadTasks finds and parses the task file and builds its registry. A
// failure is kept and reported when a task is run.
func (app *App) LoadTasks(startDir, explicit string) {
	app.workDir = startDir
	rf, err := ruskfile.Load(startDir, explicit)
	if err == nil {
		app.registry, err = task.NewRegistry(rf.Tasks)
	}
	if err != nil {
		resource := explicit
		if resource == "" {
			resource = startDir
		}
		app.loadErr = issue.NewErrorContext().
			WithOperation("load task file").
			WithResource(resource).
			WithSuggestions(suggestionsFor(err)...).
			Wrap(err).
			BuildError()
		return
	}
	app.file = rf
}

// loadConfig loads the user configuration. A broken configuration is
// reported as a warning and defaults are used instead.
func (app *App) loadConfig(ctx context.Context, path string) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: path})
	if err != nil {
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatError(err, false))
		cfg = config.DefaultConfig()
	}
	app.cfg = cfg
}

// run executes one task invocation with a fresh execution context.
func (app *App) run(ctx context.Context, flags *rootFlagValues, req runRequest) error {
	if app.loadErr != nil {
		return app.loadErr
	}

	rt, err := execute.ResolveRuntime(app.Runtimes, flags.runtime, app.cfg)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("select runtime").
			WithResource(flags.runtime).
			WithSuggestion("Use --runtime native or --runtime virtual").
			Wrap(err).
			BuildError()
	}

	execCtx, err := execute.BuildExecutionContext(execute.BuildExecutionContextOptions{
		Context:   ctx,
		WorkDir:   app.workDir,
		File:      app.file,
		Config:    app.cfg,
		Verbosity: flags.verbosity(),
		EnvFiles:  flags.envFiles,
		Stdin:     app.stdin,
		Stdout:    app.stdout,
		Stderr:    app.stderr,
	})
	if err != nil {
		return err
	}

	t, err := app.registry.Get(req.name)
	if err != nil {
		return err
	}
	in := req.inputs
	in.LookupEnv = execCtx.LookupEnv
	vars, err := task.ResolveVars(t, in)
	if err != nil {
		return err
	}

	orch := execute.NewOrchestrator(app.registry, runtime.NewExecutor(rt))
	return orch.Execute(t.WithVars(vars), execCtx)
}

func (app *App) verbose(flags *rootFlagValues) bool {
	v, err := execute.ResolveVerbosity(flags.verbosity(), app.cfg)
	return err == nil && v == runtime.Verbose
}

func (app *App) glamourStyle() string {
	if app.cfg == nil {
		return config.ColorSchemeAuto.GlamourStyle()
	}
	return app.cfg.UI.ColorScheme.GlamourStyle()
}
