// SPDX-License-Identifier: MPL-2.0

// Package ruskerr defines the three error families raised by rusk:
// configuration errors (detected before anything runs), execution errors
// (raised while running tasks) and interpolation errors (raised while
// substituting ${name} placeholders).
//
// Each family is a typed struct carrying a Kind sentinel. errors.Is matches
// both the kind (e.g. ErrTaskNotFound) and the family (e.g. ErrConfig), so
// callers can be as specific as they need to be.
package ruskerr

import (
	"errors"
	"fmt"
)

// Family sentinels.
var (
	ErrConfig        = errors.New("configuration error")
	ErrExecution     = errors.New("execution error")
	ErrInterpolation = errors.New("interpolation error")
)

// Configuration error kinds.
var (
	ErrNotFound            = errors.New("configuration file not found")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrSourceWithoutTarget = errors.New("task source cannot be defined without target")
	ErrTargetWithoutSource = errors.New("task target cannot be defined without source")
	ErrDuplicateNames      = errors.New("argument and option names must be unique within a task")
	ErrTaskNotFound        = errors.New("task is not defined")
	ErrCircularDependency  = errors.New("circular dependency detected")
	ErrIncludeFile         = errors.New("failed to include file")
)

// Execution error kinds.
var (
	ErrCommandFailed   = errors.New("command failed")
	ErrFailedCondition = errors.New("condition not met")
	ErrMissingOption   = errors.New("required option not provided")
	ErrInvalidOption   = errors.New("invalid option value")
	// ErrCache is reserved; rusk does not keep a build cache.
	ErrCache         = errors.New("cache error")
	ErrEnvironment   = errors.New("environment error")
	ErrRecursiveTask = errors.New("task invoked recursively")
)

// Interpolation error kinds.
var (
	ErrUndefinedVariable      = errors.New("variable is not defined")
	ErrInvalidSyntax          = errors.New("invalid interpolation syntax")
	ErrRecursiveInterpolation = errors.New("recursive interpolation detected")
)

type (
	// ConfigError reports a problem with the task definitions themselves.
	ConfigError struct {
		// Kind is one of the configuration kind sentinels.
		Kind error
		// Subject names what the error is about: a task, a name, a path,
		// or a cycle path such as "a -> b -> a".
		Subject string
		// Paths lists the locations searched when Kind is ErrNotFound.
		Paths []string
		// Err is the underlying cause, if any.
		Err error
	}

	// ExecutionError reports a failure while running a task.
	ExecutionError struct {
		Kind    error
		Subject string
		// ExitCode is the child's exit status for ErrCommandFailed.
		// It is meaningful only when Exited is true.
		ExitCode int
		// Exited is false when the process could not be started or was
		// terminated without an exit status.
		Exited bool
		Err    error
	}

	// InterpolationError reports a placeholder that could not be resolved.
	InterpolationError struct {
		Kind    error
		Subject string
	}
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrNotFound):
		if len(e.Paths) > 0 {
			return fmt.Sprintf("configuration file not found, searched: %v", e.Paths)
		}
		return "configuration file not found"
	case errors.Is(e.Kind, ErrSourceWithoutTarget):
		return "Task source cannot be defined without target"
	case errors.Is(e.Kind, ErrTargetWithoutSource):
		return "Task target cannot be defined without source"
	case errors.Is(e.Kind, ErrDuplicateNames):
		return fmt.Sprintf("Argument and option '%s' must have unique names within a task", e.Subject)
	case errors.Is(e.Kind, ErrTaskNotFound):
		return fmt.Sprintf("Task '%s' is not defined", e.Subject)
	case errors.Is(e.Kind, ErrCircularDependency):
		return fmt.Sprintf("Circular dependency detected: %s", e.Subject)
	case errors.Is(e.Kind, ErrIncludeFile):
		return fmt.Sprintf("Failed to include file '%s': %v", e.Subject, e.Err)
	}
	return joinCause(fmt.Sprintf("%v", e.Kind), e.Subject, e.Err)
}

// Unwrap exposes the family, the kind and the cause to errors.Is and errors.As.
func (e *ConfigError) Unwrap() []error { return unwrapAll(ErrConfig, e.Kind, e.Err) }

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrCommandFailed):
		if e.Exited {
			return fmt.Sprintf("Command failed with exit code %d", e.ExitCode)
		}
		if e.Err != nil {
			return fmt.Sprintf("Command failed: %v", e.Err)
		}
		return "Command failed without an exit code"
	case errors.Is(e.Kind, ErrMissingOption):
		return fmt.Sprintf("Option '%s' is required but not provided", e.Subject)
	case errors.Is(e.Kind, ErrInvalidOption):
		return fmt.Sprintf("Invalid option value for '%s': %v", e.Subject, e.Err)
	case errors.Is(e.Kind, ErrRecursiveTask):
		return fmt.Sprintf("Task invoked recursively: %s", e.Subject)
	case errors.Is(e.Kind, ErrFailedCondition):
		return "Condition not met"
	}
	return joinCause(fmt.Sprintf("%v", e.Kind), e.Subject, e.Err)
}

// Unwrap exposes the family, the kind and the cause to errors.Is and errors.As.
func (e *ExecutionError) Unwrap() []error { return unwrapAll(ErrExecution, e.Kind, e.Err) }

// Error implements the error interface.
func (e *InterpolationError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrUndefinedVariable):
		return fmt.Sprintf("Variable '%s' is not defined", e.Subject)
	case errors.Is(e.Kind, ErrRecursiveInterpolation):
		return "Recursive interpolation detected"
	}
	return joinCause(fmt.Sprintf("%v", e.Kind), e.Subject, nil)
}

// Unwrap exposes the family and the kind to errors.Is and errors.As.
func (e *InterpolationError) Unwrap() []error { return unwrapAll(ErrInterpolation, e.Kind, nil) }

// CommandFailed returns an ExecutionError for a child that exited with code.
func CommandFailed(code int) *ExecutionError {
	return &ExecutionError{Kind: ErrCommandFailed, ExitCode: code, Exited: true}
}

// CommandNotStarted returns an ExecutionError for a child that never ran.
func CommandNotStarted(err error) *ExecutionError {
	return &ExecutionError{Kind: ErrCommandFailed, Err: err}
}

// IsFailedCondition reports whether err means "skip", not "fail".
func IsFailedCondition(err error) bool {
	return errors.Is(err, ErrFailedCondition)
}

// ExitCode returns the exit status the CLI should terminate with for err:
// the child's code for a command that exited, 0 for nil, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var execErr *ExecutionError
	if errors.As(err, &execErr) && execErr.Exited && execErr.ExitCode != 0 {
		return execErr.ExitCode
	}
	return 1
}

func joinCause(msg, subject string, cause error) string {
	if subject != "" {
		msg += ": " + subject
	}
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return msg
}

func unwrapAll(family, kind, cause error) []error {
	errs := []error{family}
	if kind != nil {
		errs = append(errs, kind)
	}
	if cause != nil {
		errs = append(errs, cause)
	}
	return errs
}
