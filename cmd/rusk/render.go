// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rusk-run/rusk/internal/issue"
	"github.com/rusk-run/rusk/internal/ruskerr"
)

// renderError writes err as a single line. In verbose mode the catalogued
// explanation for the error follows, rendered as terminal markdown.
func renderError(w io.Writer, err error, verbose bool, glamourStyle string) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatError(err, verbose))
	if !verbose {
		return
	}
	if i := issueFor(err); i != nil {
		if rendered, renderErr := i.Render(glamourStyle); renderErr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}

// formatError formats an error for user display. An ActionableError uses
// its own format, which lists suggestions and, in verbose mode, the cause.
func formatError(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return strings.TrimRight(ae.Format(verbose), "\n")
	}
	return err.Error()
}

func issueFor(err error) *issue.Issue {
	if i := issue.ForError(err); i != nil {
		return i
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return nil
	}
	switch ae.Operation {
	case "load configuration", "validate configuration":
		return issue.Get(issue.ConfigLoadFailedId)
	case "select runtime":
		return issue.Get(issue.InvalidRuntimeModeId)
	}
	return nil
}

// suggestionsFor returns fix hints for task file loading errors.
func suggestionsFor(err error) []string {
	switch {
	case errors.Is(err, ruskerr.ErrNotFound):
		return []string{"Create a rusk.yml in the project directory", "Pass the file explicitly with -f"}
	case errors.Is(err, ruskerr.ErrIncludeFile):
		return []string{"Check that the included file exists relative to the task file"}
	case errors.Is(err, ruskerr.ErrCircularDependency):
		return []string{"Remove one of the task references in the reported cycle"}
	case errors.Is(err, ruskerr.ErrTaskNotFound):
		return []string{"Check the task names used in 'task:' entries"}
	case errors.Is(err, ruskerr.ErrConfig):
		return []string{"Check the YAML syntax and the task definitions"}
	}
	return nil
}
