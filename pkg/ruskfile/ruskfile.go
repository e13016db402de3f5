// SPDX-License-Identifier: MPL-2.0

package ruskfile

import (
	"path/filepath"
	"slices"
)

// Recognised option type strings.
const (
	OptionTypeString  = "string"
	OptionTypeBool    = "bool"
	OptionTypeBoolean = "boolean"
	OptionTypeInt     = "int"
	OptionTypeInteger = "integer"
	OptionTypeFloat   = "float"
)

// FileNames lists the task file names looked up by Find, in order.
var FileNames = []string{"rusk.yml", "rusk.yaml"}

type (
	// Ruskfile is the decoded content of a rusk.yml file.
	Ruskfile struct {
		Name  string           `yaml:"name,omitempty"`
		Usage string           `yaml:"usage,omitempty"`
		Tasks map[string]*Task `yaml:"tasks,omitempty"`
		// Interpreter overrides the default ["sh", "-c"] argv prefix.
		Interpreter Interpreter `yaml:"interpreter,omitempty"`

		// FilePath is the file this Ruskfile was read from, if any.
		FilePath string `yaml:"-"`
	}

	// Interpreter is the argv prefix a command string is appended to.
	// It may be written as a list or as a single shell-quoted string.
	Interpreter []string

	// Task is a named unit of work as written in the file.
	Task struct {
		Usage       string             `yaml:"usage,omitempty"`
		Description string             `yaml:"description,omitempty"`
		Private     bool               `yaml:"private,omitempty"`
		Quiet       bool               `yaml:"quiet,omitempty"`
		Args        map[string]*Arg    `yaml:"args,omitempty"`
		Options     map[string]*Option `yaml:"options,omitempty"`
		Run         RunList            `yaml:"run,omitempty"`
		Finally     RunList            `yaml:"finally,omitempty"`
		Source      []string           `yaml:"source,omitempty"`
		Target      []string           `yaml:"target,omitempty"`
		// Include names a file, relative to this file, whose content
		// replaces the task definition.
		Include string `yaml:"include,omitempty"`
	}

	// RunList is a task's run or finally block. A bare string is a single
	// command.
	RunList []RunItem

	// RunItem is one step of a run block. A bare string is shorthand for
	// an item with a single command.
	RunItem struct {
		When    []When      `yaml:"when,omitempty"`
		Command CommandList `yaml:"command,omitempty"`
		Task    SubTaskList `yaml:"task,omitempty"`
		// SetEnvironment sets variables; a null value unsets one.
		SetEnvironment map[string]*string `yaml:"set-environment,omitempty"`
	}

	// CommandList accepts a string, a mapping or a list of either.
	CommandList []Command

	// Command is a command line to execute. A bare string sets Exec.
	Command struct {
		Exec  string `yaml:"exec"`
		Print string `yaml:"print,omitempty"`
		Quiet bool   `yaml:"quiet,omitempty"`
		Dir   string `yaml:"dir,omitempty"`
	}

	// SubTaskList accepts a string, a mapping or a list of either.
	SubTaskList []SubTask

	// SubTask invokes another task. A bare string sets Name.
	SubTask struct {
		Name    string            `yaml:"name"`
		Options map[string]string `yaml:"options,omitempty"`
	}

	// When is a single condition. Exactly one field is expected to be set;
	// when several are, the first in declaration order wins.
	When struct {
		Equal        *Comparison `yaml:"equal,omitempty"`
		NotEqual     *Comparison `yaml:"not-equal,omitempty"`
		Command      *string     `yaml:"command,omitempty"`
		Exists       *string     `yaml:"exists,omitempty"`
		EnvSet       *string     `yaml:"env-set,omitempty"`
		EnvNotSet    *string     `yaml:"env-not-set,omitempty"`
		OptionSet    *string     `yaml:"option-set,omitempty"`
		OptionNotSet *string     `yaml:"option-not-set,omitempty"`
	}

	// Comparison holds both sides of an equal / not-equal condition.
	Comparison struct {
		Left  string `yaml:"left"`
		Right string `yaml:"right"`
	}

	// Option is a named, typed task input exposed as a flag.
	Option struct {
		Usage string `yaml:"usage,omitempty"`
		Short string `yaml:"short,omitempty"`
		// Type is one of string, bool, boolean, int, integer, float.
		// Empty means string.
		Type     string  `yaml:"type,omitempty"`
		Default  *string `yaml:"default,omitempty"`
		Required bool    `yaml:"required,omitempty"`
		// Rewrite replaces any provided value when set.
		Rewrite *string `yaml:"rewrite,omitempty"`
		// Environment names the variable consulted when no value is given.
		Environment string `yaml:"environment,omitempty"`
		Private     bool   `yaml:"private,omitempty"`
	}

	// Arg is a positional task input.
	Arg struct {
		Usage    string  `yaml:"usage,omitempty"`
		Default  *string `yaml:"default,omitempty"`
		Required bool    `yaml:"required,omitempty"`
		Private  bool    `yaml:"private,omitempty"`
	}
)

// TaskNames returns the names of all tasks, sorted.
func (f *Ruskfile) TaskNames() []string {
	names := make([]string, 0, len(f.Tasks))
	for name := range f.Tasks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Dir returns the directory containing the file, or "." when unknown.
func (f *Ruskfile) Dir() string {
	if f.FilePath == "" {
		return "."
	}
	return filepath.Dir(f.FilePath)
}

// IsValidOptionType reports whether t is a recognised option type string.
func IsValidOptionType(t string) bool {
	switch t {
	case "", OptionTypeString, OptionTypeBool, OptionTypeBoolean,
		OptionTypeInt, OptionTypeInteger, OptionTypeFloat:
		return true
	}
	return false
}
