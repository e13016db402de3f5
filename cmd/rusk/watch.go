// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rusk-run/rusk/internal/app/execute"
	"github.com/rusk-run/rusk/internal/runtime"
	"github.com/rusk-run/rusk/internal/watch"
)

// runWatchMode runs the task once and then again whenever one of the source
// files of the task, or of any task it may invoke, changes. Without source
// globs every non-ignored file below the task file counts. It blocks until
// the command context is canceled (Ctrl+C).
func runWatchMode(cmd *cobra.Command, app *App, flags *rootFlagValues, req runRequest) error {
	if app.loadErr != nil {
		return app.loadErr
	}

	verbosity, err := execute.ResolveVerbosity(flags.verbosity(), app.cfg)
	if err != nil {
		return err
	}
	logger := runtime.NewLogger(app.stderr, verbosity)

	rerun := func(ctx context.Context, _ []string) error {
		return app.run(ctx, flags, req)
	}

	id, _ := app.registry.Lookup(req.name)
	w, err := watch.New(watch.Config{
		Patterns: watch.TaskPatterns(app.registry.Closure(id)),
		BaseDir:  app.file.Dir(),
		Logger:   logger,
		OnChange: rerun,
	})
	if err != nil {
		return err
	}

	if err := rerun(cmd.Context(), nil); err != nil {
		logger.Error("task failed", "task", req.name, "err", err)
	}
	logger.Info("watching for changes", "task", req.name)
	return w.Run(cmd.Context())
}
