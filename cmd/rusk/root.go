// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/rusk-run/rusk/internal/ruskerr"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the global flags.
type rootFlagValues struct {
	file       string
	configPath string
	runtime    string
	envFiles   []string
	quiet      bool
	silent     bool
	verbose    bool
	watch      bool
}

// verbosity returns the level selected on the command line, or "" when no
// level flag was given. Silent beats quiet, which beats verbose.
func (f *rootFlagValues) verbosity() string {
	switch {
	case f.silent:
		return "silent"
	case f.quiet:
		return "quiet"
	case f.verbose:
		return "verbose"
	default:
		return ""
	}
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with the process arguments and exits with the
// resulting status. This is called by main.main().
func Execute() {
	os.Exit(Run(os.Args[1:]))
}

// Run builds the command tree for the task file found from the current
// directory, runs it with args and returns the process exit status.
func Run(args []string) int {
	app := NewApp(Dependencies{})
	flags := &rootFlagValues{}

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	app.LoadTasks(wd, scanFileFlag(args))

	rootCmd := newRootCommand(app, flags)
	rootCmd.SetArgs(args)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, app.verbose(flags), app.glamourStyle())
		}),
	); err != nil {
		return exitStatus(err)
	}
	return 0
}

// exitStatus returns the process status for a failed run: the failing
// command's code when one is carried, else 1.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// newRootCommand creates the root command with one subcommand per public
// task of the loaded file.
func newRootCommand(app *App, flags *rootFlagValues) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rusk [task]",
		Short: "A YAML task runner",
		Long: TitleStyle.Render("rusk") + SubtitleStyle.Render(" - a YAML task runner") + `

rusk runs the tasks defined in the nearest rusk.yml (or rusk.yaml),
looked up from the current directory towards the filesystem root.

` + SubtitleStyle.Render("Examples:") + `
  rusk                      List the available tasks
  rusk build                Run the 'build' task
  rusk greet Ann --loud     Pass an arg and an option
  rusk -w test              Re-run 'test' whenever its sources change`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			app.loadConfig(cmd.Context(), flags.configPath)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.loadErr != nil {
				return app.loadErr
			}
			listTasks(cmd.OutOrStdout(), app)
			return nil
		},
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.file, "file", "f", "", "task file to use instead of searching for rusk.yml")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "only print errors")
	pf.BoolVarP(&flags.silent, "silent", "s", false, "print nothing from rusk itself")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "print debug output")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/rusk/config.cue)")
	pf.StringVar(&flags.runtime, "runtime", "", "runtime to run commands with: native or virtual")
	pf.StringArrayVar(&flags.envFiles, "env-file", nil, "dotenv file to load (repeatable, suffix '?' for optional)")
	pf.BoolVarP(&flags.watch, "watch", "w", false, "re-run the task when its source files change")

	if app.loadErr != nil {
		rootCmd.Args = cobra.ArbitraryArgs
		return rootCmd
	}
	rootCmd.Args = cobra.NoArgs

	for _, name := range app.registry.Names() {
		t, err := app.registry.Get(name)
		if err != nil || t.Private {
			continue
		}
		rootCmd.AddCommand(newTaskCommand(app, flags, t))
	}
	return rootCmd
}

// scanFileFlag returns the value of -f/--file in args, which is needed
// before cobra parses them to know which tasks to register.
func scanFileFlag(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return ""
		case arg == "-f" || arg == "--file":
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		case strings.HasPrefix(arg, "--file="):
			return strings.TrimPrefix(arg, "--file=")
		case strings.HasPrefix(arg, "-f") && !strings.HasPrefix(arg, "--"):
			return strings.TrimPrefix(strings.TrimPrefix(arg, "-f"), "=")
		}
	}
	return ""
}

// exitCodeFor maps a task error to the process exit status.
func exitCodeFor(err error) *ExitError {
	return &ExitError{Code: ruskerr.ExitCode(err), Err: err}
}
