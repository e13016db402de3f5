// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rusk-run/rusk/internal/task"
)

var (
	reservedFlags      = []string{"file", "quiet", "silent", "verbose", "config", "runtime", "env-file", "watch", "help", "version"}
	reservedShorthands = []string{"f", "q", "s", "v", "w", "h"}
)

// newTaskCommand creates the subcommand for t. Public args are positional
// in name order and public options become flags; only values actually given
// on the command line are passed on, so defaults and environment fallbacks
// still apply.
func newTaskCommand(app *App, flags *rootFlagValues, t *task.Task) *cobra.Command {
	args := publicArgs(t)

	use := []string{t.Name}
	for _, a := range args {
		if a.Required {
			use = append(use, "<"+a.Name+">")
		} else {
			use = append(use, "["+a.Name+"]")
		}
	}

	cmd := &cobra.Command{
		Use:   strings.Join(use, " "),
		Short: t.Usage,
		Long:  t.Description,
		Args:  cobra.MaximumNArgs(len(args)),
	}

	var options []task.Option
	for _, o := range t.SortedOptions() {
		if o.Private {
			continue
		}
		if slices.Contains(reservedFlags, o.Name) {
			cmd.RunE = func(*cobra.Command, []string) error {
				return fmt.Errorf("task '%s': option '%s' clashes with a rusk flag", t.Name, o.Name)
			}
			return cmd
		}
		short := o.Short
		if len(short) != 1 || slices.Contains(reservedShorthands, short) {
			short = ""
		}
		if o.Type == task.OptionBool {
			cmd.Flags().BoolP(o.Name, short, false, o.Usage)
		} else {
			cmd.Flags().StringP(o.Name, short, "", optionUsage(o))
		}
		options = append(options, o)
	}

	cmd.RunE = func(cmd *cobra.Command, positional []string) error {
		req := runRequest{
			name: t.Name,
			inputs: task.Inputs{
				Args:    make(map[string]string, len(positional)),
				Options: make(map[string]string),
			},
		}
		for i, value := range positional {
			req.inputs.Args[args[i].Name] = value
		}
		for _, o := range options {
			if cmd.Flags().Changed(o.Name) {
				req.inputs.Options[o.Name] = cmd.Flags().Lookup(o.Name).Value.String()
			}
		}

		if flags.watch {
			return runWatchMode(cmd, app, flags, req)
		}
		if err := app.run(cmd.Context(), flags, req); err != nil {
			return exitCodeFor(err)
		}
		return nil
	}
	return cmd
}

func publicArgs(t *task.Task) []task.Arg {
	var out []task.Arg
	for _, a := range t.SortedArgs() {
		if !a.Private {
			out = append(out, a)
		}
	}
	return out
}

func optionUsage(o task.Option) string {
	usage := o.Usage
	if o.Environment != "" {
		usage += fmt.Sprintf(" (env: %s)", o.Environment)
	}
	if o.Default != nil {
		usage += fmt.Sprintf(" (default: %s)", *o.Default)
	}
	return strings.TrimSpace(usage)
}

// listTasks prints every public task with its usage line.
func listTasks(w io.Writer, app *App) {
	names := app.registry.Names()
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	fmt.Fprintln(w, TitleStyle.Render("Tasks:"))
	for _, name := range names {
		t, err := app.registry.Get(name)
		if err != nil || t.Private {
			continue
		}
		fmt.Fprintf(w, "  %s  %s\n", TaskStyle.Render(fmt.Sprintf("%-*s", width, name)), SubtitleStyle.Render(t.Usage))
	}
}
