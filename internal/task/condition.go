// SPDX-License-Identifier: MPL-2.0

package task

import (
	"fmt"

	"github.com/rusk-run/rusk/pkg/ruskfile"
)

type (
	// Condition is one guard of a run item. The concrete types below are
	// the complete set.
	Condition interface {
		fmt.Stringer
		condition()
	}

	// Equal holds when both sides are equal after interpolation.
	Equal struct{ Left, Right string }
	// NotEqual holds when the sides differ after interpolation.
	NotEqual struct{ Left, Right string }
	// CommandSucceeds holds when the command exits with status 0.
	CommandSucceeds struct{ Command string }
	// PathExists holds when the path, relative to the working directory, exists.
	PathExists struct{ Path string }
	// EnvSet holds when the environment variable is set.
	EnvSet struct{ Name string }
	// EnvNotSet holds when the environment variable is not set.
	EnvNotSet struct{ Name string }
	// OptionSet holds when the variable bag has the name.
	OptionSet struct{ Name string }
	// OptionNotSet holds when the variable bag lacks the name.
	OptionNotSet struct{ Name string }
	// Always holds unconditionally.
	Always struct{}
)

func (Equal) condition()           {}
func (NotEqual) condition()        {}
func (CommandSucceeds) condition() {}
func (PathExists) condition()      {}
func (EnvSet) condition()          {}
func (EnvNotSet) condition()       {}
func (OptionSet) condition()       {}
func (OptionNotSet) condition()    {}
func (Always) condition()          {}

func (c Equal) String() string           { return fmt.Sprintf("equal(%q, %q)", c.Left, c.Right) }
func (c NotEqual) String() string        { return fmt.Sprintf("not-equal(%q, %q)", c.Left, c.Right) }
func (c CommandSucceeds) String() string { return fmt.Sprintf("command(%q)", c.Command) }
func (c PathExists) String() string      { return fmt.Sprintf("exists(%q)", c.Path) }
func (c EnvSet) String() string          { return fmt.Sprintf("env-set(%s)", c.Name) }
func (c EnvNotSet) String() string       { return fmt.Sprintf("env-not-set(%s)", c.Name) }
func (c OptionSet) String() string       { return fmt.Sprintf("option-set(%s)", c.Name) }
func (c OptionNotSet) String() string    { return fmt.Sprintf("option-not-set(%s)", c.Name) }
func (Always) String() string            { return "always" }

// ConditionFrom resolves a declared condition. When several fields are set
// the first in declaration order wins; none set yields Always.
func ConditionFrom(w ruskfile.When) Condition {
	switch {
	case w.Equal != nil:
		return Equal{Left: w.Equal.Left, Right: w.Equal.Right}
	case w.NotEqual != nil:
		return NotEqual{Left: w.NotEqual.Left, Right: w.NotEqual.Right}
	case w.Command != nil:
		return CommandSucceeds{Command: *w.Command}
	case w.Exists != nil:
		return PathExists{Path: *w.Exists}
	case w.EnvSet != nil:
		return EnvSet{Name: *w.EnvSet}
	case w.EnvNotSet != nil:
		return EnvNotSet{Name: *w.EnvNotSet}
	case w.OptionSet != nil:
		return OptionSet{Name: *w.OptionSet}
	case w.OptionNotSet != nil:
		return OptionNotSet{Name: *w.OptionNotSet}
	default:
		return Always{}
	}
}
