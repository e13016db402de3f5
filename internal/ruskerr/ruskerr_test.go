// SPDX-License-Identifier: MPL-2.0

package ruskerr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorFamilies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantKind   error
		wantFamily error
		notFamily  []error
		wantMsg    string
	}{
		{
			name:       "task not found",
			err:        &ConfigError{Kind: ErrTaskNotFound, Subject: "build"},
			wantKind:   ErrTaskNotFound,
			wantFamily: ErrConfig,
			notFamily:  []error{ErrExecution, ErrInterpolation},
			wantMsg:    "Task 'build' is not defined",
		},
		{
			name:       "circular dependency",
			err:        &ConfigError{Kind: ErrCircularDependency, Subject: "a -> b -> a"},
			wantKind:   ErrCircularDependency,
			wantFamily: ErrConfig,
			wantMsg:    "Circular dependency detected: a -> b -> a",
		},
		{
			name:       "duplicate names",
			err:        &ConfigError{Kind: ErrDuplicateNames, Subject: "x"},
			wantKind:   ErrDuplicateNames,
			wantFamily: ErrConfig,
			wantMsg:    "Argument and option 'x' must have unique names within a task",
		},
		{
			name:       "command failed",
			err:        CommandFailed(3),
			wantKind:   ErrCommandFailed,
			wantFamily: ErrExecution,
			notFamily:  []error{ErrConfig},
			wantMsg:    "Command failed with exit code 3",
		},
		{
			name:       "missing option",
			err:        &ExecutionError{Kind: ErrMissingOption, Subject: "env"},
			wantKind:   ErrMissingOption,
			wantFamily: ErrExecution,
			wantMsg:    "Option 'env' is required but not provided",
		},
		{
			name:       "undefined variable",
			err:        &InterpolationError{Kind: ErrUndefinedVariable, Subject: "who"},
			wantKind:   ErrUndefinedVariable,
			wantFamily: ErrInterpolation,
			notFamily:  []error{ErrConfig, ErrExecution},
			wantMsg:    "Variable 'who' is not defined",
		},
		{
			name:       "recursive interpolation",
			err:        &InterpolationError{Kind: ErrRecursiveInterpolation},
			wantKind:   ErrRecursiveInterpolation,
			wantFamily: ErrInterpolation,
			wantMsg:    "Recursive interpolation detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !errors.Is(tt.err, tt.wantKind) {
				t.Errorf("errors.Is(err, %v) = false, want true", tt.wantKind)
			}
			if !errors.Is(tt.err, tt.wantFamily) {
				t.Errorf("errors.Is(err, %v) = false, want true", tt.wantFamily)
			}
			for _, other := range tt.notFamily {
				if errors.Is(tt.err, other) {
					t.Errorf("errors.Is(err, %v) = true, want false", other)
				}
			}
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestConfigErrorUnwrapsCause(t *testing.T) {
	t.Parallel()

	err := &ConfigError{Kind: ErrIncludeFile, Subject: "other.yml", Err: fs.ErrNotExist}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false, want true")
	}

	wrapped := fmt.Errorf("loading: %w", err)
	var cfgErr *ConfigError
	if !errors.As(wrapped, &cfgErr) {
		t.Fatal("errors.As(*ConfigError) = false, want true")
	}
	if cfgErr.Subject != "other.yml" {
		t.Errorf("Subject = %q, want %q", cfgErr.Subject, "other.yml")
	}
}

func TestCommandNotStarted(t *testing.T) {
	t.Parallel()

	err := CommandNotStarted(errors.New("exec: \"nope\": not found"))
	if err.Exited {
		t.Error("Exited = true, want false")
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Error("errors.Is(err, ErrCommandFailed) = false, want true")
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"exited", CommandFailed(42), 42},
		{"wrapped exited", fmt.Errorf("task: %w", CommandFailed(7)), 7},
		{"not started", CommandNotStarted(errors.New("boom")), 1},
		{"config", &ConfigError{Kind: ErrTaskNotFound, Subject: "x"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsFailedCondition(t *testing.T) {
	t.Parallel()

	if !IsFailedCondition(&ExecutionError{Kind: ErrFailedCondition}) {
		t.Error("IsFailedCondition(failed condition) = false, want true")
	}
	if IsFailedCondition(CommandFailed(1)) {
		t.Error("IsFailedCondition(command failed) = true, want false")
	}
}
