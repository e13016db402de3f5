// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rusk-run/rusk/internal/config"
	"github.com/rusk-run/rusk/internal/issue"
	"github.com/rusk-run/rusk/internal/ruskerr"
	"github.com/rusk-run/rusk/internal/testutil"
)

const testRuskfile = `
tasks:
  greet:
    usage: Say hello
    args:
      who:
        default: World
    options:
      loud:
        type: bool
        short: l
      greeting:
        default: Hello
    run:
      - when:
          - equal: { left: "${loud}", right: "true" }
        command: echo ${greeting} ${who}!
      - when:
          - equal: { left: "${loud}", right: "false" }
        command: echo ${greeting} ${who}
  fail:
    usage: Always fails
    run: exit 7
  helper:
    private: true
    run: echo hidden
`

type fixedConfigProvider struct {
	cfg *config.Config
	err error
}

func (p *fixedConfigProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return p.cfg, p.err
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI loads content as the task file and runs the command tree with args
// on the embedded shell.
func runCLI(t *testing.T, content string, args ...string) cliResult {
	t.Helper()

	dir := t.TempDir()
	path := testutil.MustWriteFile(t, dir, "rusk.yml", content)

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config: &fixedConfigProvider{cfg: &config.Config{
			DefaultRuntime: config.RuntimeVirtual,
			UI:             config.UIConfig{Verbosity: "normal", ColorScheme: config.ColorSchemeAuto},
		}},
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	})
	app.LoadTasks(dir, path)

	root := newRootCommand(app, &rootFlagValues{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRoot_ListsPublicTasks(t *testing.T) {
	t.Parallel()

	res := runCLI(t, testRuskfile)
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	for _, want := range []string{"greet", "Say hello", "fail"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("listing = %q, want it to contain %q", res.stdout, want)
		}
	}
	if strings.Contains(res.stdout, "helper") {
		t.Errorf("listing = %q, private task should be hidden", res.stdout)
	}
}

func TestTaskCommand_ArgsAndOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "defaults", args: []string{"greet"}, want: "Hello World"},
		{name: "positional arg", args: []string{"greet", "Ann"}, want: "Hello Ann"},
		{name: "string option", args: []string{"greet", "Ann", "--greeting", "Hi"}, want: "Hi Ann"},
		{name: "bool shorthand", args: []string{"greet", "-l"}, want: "Hello World!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, testRuskfile, tt.args...)
			if res.err != nil {
				t.Fatalf("Execute(%v) error = %v", tt.args, res.err)
			}
			if got := strings.TrimSpace(res.stdout); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTaskCommand_Quiet(t *testing.T) {
	t.Parallel()

	res := runCLI(t, testRuskfile, "-q", "greet")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	if strings.Contains(res.stderr, "[RUN]") {
		t.Errorf("stderr = %q, want no command echo with -q", res.stderr)
	}

	res = runCLI(t, testRuskfile, "greet")
	if !strings.Contains(res.stderr, "[RUN] echo Hello World") {
		t.Errorf("stderr = %q, want the command echo", res.stderr)
	}
}

func TestTaskCommand_ExitCode(t *testing.T) {
	t.Parallel()

	res := runCLI(t, testRuskfile, "fail")
	var exitErr *ExitError
	if !errors.As(res.err, &exitErr) {
		t.Fatalf("Execute() error = %v, want *ExitError", res.err)
	}
	if exitErr.Code != 7 {
		t.Errorf("ExitError.Code = %d, want 7", exitErr.Code)
	}
	if !errors.Is(res.err, ruskerr.ErrCommandFailed) {
		t.Errorf("Execute() error = %v, want ErrCommandFailed", res.err)
	}
}

func TestTaskCommand_FailureRunsFinallyAndKeepsStatus(t *testing.T) {
	t.Parallel()

	res := runCLI(t, `
tasks:
  deploy:
    run:
      - command: echo step one
      - command: exit 3
      - command: echo step two
    finally:
      - command: echo cleaning up
`, "deploy")
	if got := exitStatus(res.err); got != 3 {
		t.Errorf("exitStatus() = %d, want 3 (error %v)", got, res.err)
	}
	if !strings.Contains(res.stdout, "step one") || !strings.Contains(res.stdout, "cleaning up") {
		t.Errorf("stdout = %q, want the first step and the finally block", res.stdout)
	}
	if strings.Contains(res.stdout, "step two") {
		t.Errorf("stdout = %q, want no step after the failure", res.stdout)
	}
}

func TestExitStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: 0},
		{err: errors.New("usage"), want: 1},
		{err: &ExitError{Code: 42, Err: errors.New("boom")}, want: 42},
		{err: fmt.Errorf("wrapped: %w", &ExitError{Code: 5}), want: 5},
	}
	for _, tt := range tests {
		if got := exitStatus(tt.err); got != tt.want {
			t.Errorf("exitStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestTaskCommand_TooManyArgs(t *testing.T) {
	t.Parallel()

	if res := runCLI(t, testRuskfile, "greet", "a", "b"); res.err == nil {
		t.Error("Execute() expected error for an extra positional argument")
	}
}

func TestTaskCommand_UnknownRuntime(t *testing.T) {
	t.Parallel()

	res := runCLI(t, testRuskfile, "--runtime", "container", "greet")
	if res.err == nil {
		t.Fatal("Execute() expected error")
	}
	if i := issueFor(res.err); i == nil || i.Id() != issue.InvalidRuntimeModeId {
		t.Errorf("issueFor() = %v, want the invalid runtime issue", i)
	}
}

func TestRoot_LoadErrorIsReported(t *testing.T) {
	t.Parallel()

	res := runCLI(t, `
tasks:
  a:
    run:
      - task: b
  b:
    run:
      - task: a
`, "a")
	if !errors.Is(res.err, ruskerr.ErrCircularDependency) {
		t.Fatalf("Execute() error = %v, want ErrCircularDependency", res.err)
	}
	if i := issueFor(res.err); i == nil || i.Id() != issue.DependencyCycleId {
		t.Errorf("issueFor() = %v, want the dependency cycle issue", i)
	}
}

func TestReservedOptionName(t *testing.T) {
	t.Parallel()

	res := runCLI(t, `
tasks:
  odd:
    options:
      watch: {}
    run: echo never
`, "odd")
	if res.err == nil || !strings.Contains(res.err.Error(), "clashes with a rusk flag") {
		t.Errorf("Execute() error = %v, want a flag clash", res.err)
	}
}

func TestScanFileFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{args: nil, want: ""},
		{args: []string{"build"}, want: ""},
		{args: []string{"-f", "x.yml", "build"}, want: "x.yml"},
		{args: []string{"--file", "x.yml"}, want: "x.yml"},
		{args: []string{"--file=x.yml"}, want: "x.yml"},
		{args: []string{"-fx.yml"}, want: "x.yml"},
		{args: []string{"-q", "build", "--", "-f", "x.yml"}, want: ""},
		{args: []string{"-f"}, want: ""},
	}
	for _, tt := range tests {
		if got := scanFileFlag(tt.args); got != tt.want {
			t.Errorf("scanFileFlag(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestRootFlagValues_Verbosity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		flags rootFlagValues
		want  string
	}{
		{flags: rootFlagValues{}, want: ""},
		{flags: rootFlagValues{verbose: true}, want: "verbose"},
		{flags: rootFlagValues{quiet: true, verbose: true}, want: "quiet"},
		{flags: rootFlagValues{silent: true, quiet: true}, want: "silent"},
	}
	for _, tt := range tests {
		if got := tt.flags.verbosity(); got != tt.want {
			t.Errorf("verbosity(%+v) = %q, want %q", tt.flags, got, tt.want)
		}
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	plain := errors.New("boom")
	if got := formatError(plain, false); got != "boom" {
		t.Errorf("formatError(plain) = %q", got)
	}

	ae := issue.NewErrorContext().
		WithOperation("load task file").
		WithSuggestion("Create a rusk.yml").
		Wrap(plain).
		BuildError()
	got := formatError(&ExitError{Code: 1, Err: ae}, false)
	if !strings.Contains(got, "failed to load task file: boom") || !strings.Contains(got, "Create a rusk.yml") {
		t.Errorf("formatError(actionable) = %q", got)
	}
}
