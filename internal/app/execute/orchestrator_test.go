// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rusk-run/rusk/internal/runtime"
	"github.com/rusk-run/rusk/internal/ruskerr"
	"github.com/rusk-run/rusk/internal/task"
	"github.com/rusk-run/rusk/pkg/ruskfile"
)

type (
	harness struct {
		orch   *Orchestrator
		ctx    *runtime.ExecutionContext
		stdout *bytes.Buffer
		logs   *bytes.Buffer
	}

	recordingChecker struct {
		calls []string
	}
)

func (c *recordingChecker) Check(command string, _ *runtime.ExecutionContext) (bool, error) {
	c.calls = append(c.calls, command)
	return true, nil
}

// newHarness builds the registry for a task file and an orchestrator that
// runs commands in the embedded shell with captured output.
func newHarness(t *testing.T, content string) *harness {
	t.Helper()

	rf, err := ruskfile.ParseBytes([]byte(content), "")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	reg, err := task.NewRegistry(rf.Tasks)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	h := &harness{stdout: &bytes.Buffer{}, logs: &bytes.Buffer{}}
	h.ctx = runtime.NewExecutionContext(context.Background(), t.TempDir())
	h.ctx.Env = runtime.NewEnvironFromMap(map[string]string{"PATH": "/usr/bin:/bin"})
	h.ctx.Stdin = strings.NewReader("")
	h.ctx.Stdout = h.stdout
	h.ctx.Stderr = &bytes.Buffer{}
	h.ctx.Logger = runtime.NewLogger(h.logs, runtime.Normal)
	h.orch = NewOrchestrator(reg, runtime.NewExecutor(runtime.NewVirtualRuntime()))
	return h
}

// run resolves the task's variables from the given options and runs it.
func (h *harness) run(t *testing.T, name string, options map[string]string) error {
	t.Helper()

	tk, err := h.orch.Registry.Get(name)
	if err != nil {
		t.Fatalf("Get(%q) error = %v", name, err)
	}
	vars, err := task.ResolveVars(tk, task.Inputs{Options: options, LookupEnv: h.ctx.LookupEnv})
	if err != nil {
		t.Fatalf("ResolveVars() error = %v", err)
	}
	return h.orch.Run(name, vars, h.ctx)
}

func (h *harness) lines() []string {
	return strings.Fields(h.stdout.String())
}

func exitCodeOf(t *testing.T, err error) int {
	t.Helper()

	var execErr *ruskerr.ExecutionError
	if !errors.As(err, &execErr) || !execErr.Exited {
		t.Fatalf("error = %v, want a command failure with an exit code", err)
	}
	return execErr.ExitCode
}

func TestOrchestrator_InterpolatesOptions(t *testing.T) {
	t.Parallel()

	h := newHarness(t, `
tasks:
  hello:
    options:
      name:
        default: World
    run: echo Hello ${name}
`)
	if err := h.run(t, "hello", nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != "Hello World" {
		t.Errorf("output = %q, want %q", got, "Hello World")
	}
	if !strings.Contains(h.logs.String(), "[RUN] echo Hello World") {
		t.Errorf("logs = %q, want the interpolated command echo", h.logs.String())
	}

	h.stdout.Reset()
	if err := h.run(t, "hello", map[string]string{"name": "rusk"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != "Hello rusk" {
		t.Errorf("output = %q, want %q", got, "Hello rusk")
	}
}

func TestOrchestrator_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, `
tasks:
  broken:
    run:
      - echo before
      - exit 4
      - echo after
`)
	err := h.run(t, "broken", nil)
	if code := exitCodeOf(t, err); code != 4 {
		t.Errorf("exit code = %d, want 4", code)
	}
	if got := h.lines(); len(got) != 1 || got[0] != "before" {
		t.Errorf("output = %v, want only [before]", got)
	}
}

func TestOrchestrator_FinallyRunsAfterFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, `
tasks:
  build:
    run: exit 1
    finally: echo cleaned > marker
`)
	err := h.run(t, "build", nil)
	if code := exitCodeOf(t, err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	data, readErr := os.ReadFile(filepath.Join(h.ctx.WorkDir, "marker"))
	if readErr != nil {
		t.Fatalf("finally block did not run: %v", readErr)
	}
	if got := strings.TrimSpace(string(data)); got != "cleaned" {
		t.Errorf("marker = %q, want cleaned", got)
	}
}

func TestOrchestrator_FinallyErrorPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		task     string
		wantCode int
	}{
		{name: "main error wins", task: "both", wantCode: 2},
		{name: "finally error surfaces", task: "cleanup", wantCode: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, `
tasks:
  both:
    run: exit 2
    finally: exit 3
  cleanup:
    run: echo ok
    finally: exit 3
`)
			if code := exitCodeOf(t, h.run(t, tt.task, nil)); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
		})
	}
}

func TestOrchestrator_RecursionGuard(t *testing.T) {
	t.Parallel()

	h := newHarness(t, `
tasks:
  loop:
    run: echo spawned
`)
	h.ctx.Stack.Push("outer")
	h.ctx.Stack.Push("loop")

	err := h.run(t, "loop", nil)
	if !errors.Is(err, ruskerr.ErrRecursiveTask) {
		t.Fatalf("Run() error = %v, want ErrRecursiveTask", err)
	}
	if !strings.Contains(err.Error(), "outer -> loop -> loop") {
		t.Errorf("Error() = %q, want the call path", err.Error())
	}
	if h.stdout.Len() != 0 {
		t.Errorf("output = %q, want nothing spawned", h.stdout.String())
	}
	if got := h.ctx.Stack.Depth(); got != 2 {
		t.Errorf("Stack.Depth() = %d, want 2", got)
	}
}

func TestOrchestrator_UnknownTask(t *testing.T) {
	t.Parallel()

	h := newHarness(t, `
tasks:
  a:
    run: echo a
`)
	if err := h.orch.Run("missing", nil, h.ctx); !errors.Is(err, ruskerr.ErrTaskNotFound) {
		t.Errorf("Run() error = %v, want ErrTaskNotFound", err)
	}
}

func TestOrchestrator_Conditions(t *testing.T) {
	t.Parallel()

	h := newHarness(t, `
tasks:
  deploy:
    options:
      mode:
        default: dev
      force:
        type: bool
    run:
      - when:
          - equal: { left: "${mode}", right: prod }
        command: echo production
      - when:
          - not-equal: { left: "${mode}", right: prod }
        command: echo development
      - when:
          - option-set: force
        command: echo forced
`)
	if err := h.run(t, "deploy", nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// force resolves to "false", which is a value: option-set holds.
	if got := strings.Join(h.lines(), " "); got != "development forced" {
		t.Errorf("output = %q, want %q", got, "development forced")
	}
}

func TestOrchestrator_ConditionsShortCircuit(t *testing.T) {
	t.Parallel()

	h := newHarness(t, `
tasks:
  guarded:
    run:
      - when:
          - equal: { left: a, right: b }
          - command: should-not-run
        command: echo skipped
      - when:
          - equal: { left: a, right: a }
          - command: probe
        command: echo ran
`)
	checker := &recordingChecker{}
	h.orch.Checker = checker

	if err := h.run(t, "guarded", nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(checker.calls) != 1 || checker.calls[0] != "probe" {
		t.Errorf("checker calls = %v, want [probe]", checker.calls)
	}
	if got := h.lines(); len(got) != 1 || got[0] != "ran" {
		t.Errorf("output = %v, want [ran]", got)
	}
}

func TestOrchestrator_SetEnvironment(t *testing.T) {
	t.Parallel()

	h := newHarness(t, `
tasks:
  env:
    options:
      stage:
        default: beta
    run:
      - set-environment:
          DEPLOY_STAGE: ${stage}
          LEGACY: ~
      - echo "[$DEPLOY_STAGE][$LEGACY]"
      - task: inner
      - echo "[$INNER]"
  inner:
    run:
      - set-environment:
          INNER: set
      - echo "[$INNER]"
`)
	h.ctx.Env.Set("LEGACY", "1")
	if err := h.run(t, "env", nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"[beta][]", "[set]", "[]"}
	got := h.lines()
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("output = %v, want %v", got, want)
	}
	if v, ok := h.ctx.LookupEnv("DEPLOY_STAGE"); !ok || v != "beta" {
		t.Errorf("LookupEnv(DEPLOY_STAGE) = %q, %v, want beta", v, ok)
	}
	if _, ok := h.ctx.LookupEnv("LEGACY"); ok {
		t.Error("LEGACY still set after set-environment unset it")
	}
	if _, ok := h.ctx.LookupEnv("INNER"); ok {
		t.Error("subtask environment leaked into the caller")
	}
}

func TestOrchestrator_SubTaskOverrides(t *testing.T) {
	t.Parallel()

	h := newHarness(t, `
tasks:
  greet:
    args:
      who:
        required: true
    options:
      greeting:
        default: Hello
    run: echo ${greeting} ${who}
  main:
    options:
      name:
        default: Ann
    run:
      - task:
          name: greet
          options:
            who: ${name}
      - task:
          name: greet
          options:
            who: Bob
            greeting: Hi
`)
	if err := h.run(t, "main", nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.Join(h.lines(), " "); got != "Hello Ann Hi Bob" {
		t.Errorf("output = %q, want %q", got, "Hello Ann Hi Bob")
	}
	if got := h.ctx.Stack.Depth(); got != 0 {
		t.Errorf("Stack.Depth() = %d after run, want 0", got)
	}
	if _, leaked := h.ctx.Vars["who"]; leaked {
		t.Error("subtask variables leaked into the caller's bag")
	}
}

func TestOrchestrator_SubTaskMissingArg(t *testing.T) {
	t.Parallel()

	h := newHarness(t, `
tasks:
  greet:
    args:
      who:
        required: true
    run: echo ${who}
  main:
    run:
      - task: greet
`)
	if err := h.run(t, "main", nil); !errors.Is(err, ruskerr.ErrMissingOption) {
		t.Errorf("Run() error = %v, want ErrMissingOption", err)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("output = %q, want nothing", h.stdout.String())
	}
}

func TestOrchestrator_QuietTask(t *testing.T) {
	t.Parallel()

	h := newHarness(t, `
tasks:
  hush:
    quiet: true
    run: echo secret
`)
	if err := h.run(t, "hush", nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Contains(h.logs.String(), "[RUN]") {
		t.Errorf("logs = %q, want no command echo for a quiet task", h.logs.String())
	}
	if got := strings.TrimSpace(h.stdout.String()); got != "secret" {
		t.Errorf("output = %q, want secret", got)
	}
}
