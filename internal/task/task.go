// SPDX-License-Identifier: MPL-2.0

package task

import (
	"maps"
	"slices"
)

// Option value types.
const (
	OptionString OptionType = iota
	OptionBool
	OptionInteger
	OptionFloat
)

type (
	// ID addresses a task inside a Registry.
	ID int

	// OptionType is the value type an option accepts.
	OptionType int

	// Task is the validated, executable form of a task definition.
	// A Task is never mutated after Build; WithVars returns a copy.
	Task struct {
		Name        string
		Usage       string
		Description string
		Private     bool
		// Quiet suppresses the command echo for every command of the task.
		Quiet   bool
		Args    map[string]Arg
		Options map[string]Option
		Run     []RunItem
		Finally []RunItem
		Source  []string
		Target  []string
		// Vars is the resolved variable bag merged into the execution
		// context when the task starts.
		Vars map[string]string
	}

	// RunItem is one step of a run or finally block.
	RunItem struct {
		// When is a conjunction; an empty list always runs.
		When     []Condition
		Commands []Command
		SubTasks []SubTaskRef
		// SetEnvironment maps a name to its new value; nil unsets it.
		SetEnvironment map[string]*string
	}

	// Command is a command line handed to the interpreter.
	Command struct {
		Exec string
		// Print is echoed instead of Exec before running.
		Print string
		Quiet bool
		// Dir is joined to the working directory when non-empty.
		Dir string
	}

	// SubTaskRef invokes another task. Target is resolved by the Registry.
	SubTaskRef struct {
		Name    string
		Target  ID
		Options map[string]string
	}

	// Option is a named, typed task input.
	Option struct {
		Name        string
		Usage       string
		Short       string
		Type        OptionType
		Default     *string
		Required    bool
		Rewrite     *string
		Environment string
		Private     bool
	}

	// Arg is a positional task input.
	Arg struct {
		Name     string
		Usage    string
		Default  *string
		Required bool
		Private  bool
	}
)

// String returns the canonical name of the option type.
func (t OptionType) String() string {
	switch t {
	case OptionBool:
		return "bool"
	case OptionInteger:
		return "integer"
	case OptionFloat:
		return "float"
	default:
		return "string"
	}
}

// ParseOptionType maps a type string to an OptionType. Unrecognised
// strings, including the empty string, map to OptionString.
func ParseOptionType(s string) OptionType {
	switch s {
	case "bool", "boolean":
		return OptionBool
	case "int", "integer":
		return OptionInteger
	case "float":
		return OptionFloat
	default:
		return OptionString
	}
}

// WithVars returns a shallow copy of t carrying vars.
func (t *Task) WithVars(vars map[string]string) *Task {
	c := *t
	c.Vars = maps.Clone(vars)
	if c.Vars == nil {
		c.Vars = make(map[string]string)
	}
	return &c
}

// SortedArgs returns the task's args ordered by name.
func (t *Task) SortedArgs() []Arg {
	out := make([]Arg, 0, len(t.Args))
	for _, name := range slices.Sorted(maps.Keys(t.Args)) {
		out = append(out, t.Args[name])
	}
	return out
}

// SortedOptions returns the task's options ordered by name.
func (t *Task) SortedOptions() []Option {
	out := make([]Option, 0, len(t.Options))
	for _, name := range slices.Sorted(maps.Keys(t.Options)) {
		out = append(out, t.Options[name])
	}
	return out
}

// ReferencedOptions returns the names used by option-set and option-not-set
// conditions in the run and finally blocks, in order of appearance.
func (t *Task) ReferencedOptions() []string {
	var names []string
	for _, item := range slices.Concat(t.Run, t.Finally) {
		for _, c := range item.When {
			switch c := c.(type) {
			case OptionSet:
				names = append(names, c.Name)
			case OptionNotSet:
				names = append(names, c.Name)
			}
		}
	}
	return names
}

// SubTasks returns every subtask reference in the run and finally blocks.
func (t *Task) SubTasks() []SubTaskRef {
	var refs []SubTaskRef
	for _, item := range slices.Concat(t.Run, t.Finally) {
		refs = append(refs, item.SubTasks...)
	}
	return refs
}
