// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"maps"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/rusk-run/rusk/internal/ruskerr"
)

const (
	RuskfileNotFoundId Id = iota + 1
	RuskfileParseErrorId
	IncludeFailedId
	TaskNotFoundId
	DependencyCycleId
	RecursiveTaskId
	MissingOptionId
	InvalidOptionId
	CommandFailedId
	ConfigLoadFailedId
	InvalidRuntimeModeId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal markdown using the named glamour
// style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	ruskfileNotFoundIssue = &Issue{
		id: RuskfileNotFoundId,
		mdMsg: `
# No rusk.yml found!

rusk looks for ` + "`rusk.yml`" + ` or ` + "`rusk.yaml`" + ` in the current directory and
then in every parent directory up to the filesystem root.

## Things you can try:
- Create a rusk.yml in your project root:
~~~yaml
tasks:
  hello:
    usage: Say hello
    run: echo "Hello, world"
~~~

- Or point rusk at a file explicitly:
~~~
$ rusk -f path/to/rusk.yml hello
~~~`,
	}

	ruskfileParseErrorIssue = &Issue{
		id: RuskfileParseErrorId,
		mdMsg: `
# Failed to parse the task file!

Your rusk.yml contains invalid YAML or an unexpected shape.

## Common issues:
- Indentation errors (YAML is whitespace sensitive)
- A ` + "`run`" + ` entry that is neither a string nor a list
- An option type other than string, bool, int or float
- A task that declares ` + "`source`" + ` without ` + "`target`" + ` (or the reverse)`,
	}

	includeFailedIssue = &Issue{
		id: IncludeFailedId,
		mdMsg: `
# Failed to include a task file!

A task uses ` + "`include`" + ` to load its definition from another file, and
that file could not be read or parsed.

## Things you can try:
- Check that the path is relative to the directory of the including file
- Make sure the included file holds exactly one task definition`,
	}

	taskNotFoundIssue = &Issue{
		id: TaskNotFoundId,
		mdMsg: `
# Task not found!

A task referenced from a run item is not defined in the task file.

## Things you can try:
- Check the spelling of the referenced task name
- List the available tasks:
~~~
$ rusk --help
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Circular dependency detected!

Tasks call each other in a loop, so none of them could ever finish. Cycles
are rejected before anything runs, even when a ` + "`when`" + ` condition
would skip the call at run time.

## Things you can try:
- Follow the reported path and remove one of the task references
- Move the shared steps into a third task that both call`,
	}

	recursiveTaskIssue = &Issue{
		id: RecursiveTaskId,
		mdMsg: `
# Task invoked recursively!

A task was started while it was already running. The run was stopped before
any command of the repeated task was spawned.`,
	}

	missingOptionIssue = &Issue{
		id: MissingOptionId,
		mdMsg: `
# Required value missing!

The task declares an argument or option as ` + "`required`" + ` and no value was
given on the command line, as a default or through its environment variable.`,
	}

	invalidOptionIssue = &Issue{
		id: InvalidOptionId,
		mdMsg: `
# Invalid option value!

An option value does not match the declared type.

## Accepted values:
- bool: true, false, 1, 0
- int: a whole number such as 42
- float: a number such as 3.14`,
	}

	commandFailedIssue = &Issue{
		id: CommandFailedId,
		mdMsg: `
# A command failed!

rusk stops a task at the first command that exits with a non-zero status.
Its ` + "`finally`" + ` steps still run. rusk exits with the same status as the
failed command.

## Things you can try:
- Re-run with ` + "`--verbose`" + ` to see every step
- Run the failing command by hand in the same directory`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The user configuration file could not be read or does not match the schema.

## Configuration location:
- Linux: ~/.config/rusk/config.cue
- macOS: ~/Library/Application Support/rusk/config.cue
- Windows: %APPDATA%\rusk\config.cue

## Example:
~~~cue
default_runtime: "native"
interpreter: ["bash", "-e", "-c"]
env_files: [".env?"]
ui: verbosity: "normal"
~~~`,
	}

	invalidRuntimeModeIssue = &Issue{
		id: InvalidRuntimeModeId,
		mdMsg: `
# Invalid runtime!

## Available runtimes:
- **native**: spawns the configured interpreter (sh -c by default)
- **virtual**: runs commands with the built-in POSIX shell interpreter`,
	}

	issues = map[Id]*Issue{
		ruskfileNotFoundIssue.Id():   ruskfileNotFoundIssue,
		ruskfileParseErrorIssue.Id(): ruskfileParseErrorIssue,
		includeFailedIssue.Id():      includeFailedIssue,
		taskNotFoundIssue.Id():       taskNotFoundIssue,
		dependencyCycleIssue.Id():    dependencyCycleIssue,
		recursiveTaskIssue.Id():      recursiveTaskIssue,
		missingOptionIssue.Id():      missingOptionIssue,
		invalidOptionIssue.Id():      invalidOptionIssue,
		commandFailedIssue.Id():      commandFailedIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		invalidRuntimeModeIssue.Id(): invalidRuntimeModeIssue,
	}

	kindIssues = []struct {
		kind error
		id   Id
	}{
		{ruskerr.ErrNotFound, RuskfileNotFoundId},
		{ruskerr.ErrIncludeFile, IncludeFailedId},
		{ruskerr.ErrInvalidConfig, RuskfileParseErrorId},
		{ruskerr.ErrSourceWithoutTarget, RuskfileParseErrorId},
		{ruskerr.ErrTargetWithoutSource, RuskfileParseErrorId},
		{ruskerr.ErrDuplicateNames, RuskfileParseErrorId},
		{ruskerr.ErrTaskNotFound, TaskNotFoundId},
		{ruskerr.ErrCircularDependency, DependencyCycleId},
		{ruskerr.ErrRecursiveTask, RecursiveTaskId},
		{ruskerr.ErrMissingOption, MissingOptionId},
		{ruskerr.ErrInvalidOption, InvalidOptionId},
		{ruskerr.ErrCommandFailed, CommandFailedId},
	}
)

// Values returns every catalogued issue ordered by ID.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for v := range maps.Values(issues) {
		values = append(values, v)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id - b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForError returns the catalogued issue explaining err, or nil.
func ForError(err error) *Issue {
	if err == nil {
		return nil
	}
	for _, ki := range kindIssues {
		if errors.Is(err, ki.kind) {
			return issues[ki.id]
		}
	}
	return nil
}
