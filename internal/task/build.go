// SPDX-License-Identifier: MPL-2.0

package task

import (
	"maps"
	"slices"

	"github.com/rusk-run/rusk/internal/ruskerr"
	"github.com/rusk-run/rusk/pkg/ruskfile"
)

// Build validates a task definition and converts it into a Task with an
// empty variable bag. Subtask references are left unresolved (Target 0);
// NewRegistry resolves them.
func Build(name string, def *ruskfile.Task) (*Task, error) {
	if def == nil {
		def = &ruskfile.Task{}
	}
	if err := validate(def); err != nil {
		return nil, err
	}

	t := &Task{
		Name:        name,
		Usage:       def.Usage,
		Description: def.Description,
		Private:     def.Private,
		Quiet:       def.Quiet,
		Args:        make(map[string]Arg, len(def.Args)),
		Options:     make(map[string]Option, len(def.Options)),
		Run:         buildRunList(def.Run),
		Finally:     buildRunList(def.Finally),
		Source:      slices.Clone(def.Source),
		Target:      slices.Clone(def.Target),
		Vars:        make(map[string]string),
	}

	for argName, a := range def.Args {
		if a == nil {
			a = &ruskfile.Arg{}
		}
		t.Args[argName] = Arg{
			Name:     argName,
			Usage:    a.Usage,
			Default:  a.Default,
			Required: a.Required,
			Private:  a.Private,
		}
	}
	for optName, o := range def.Options {
		if o == nil {
			o = &ruskfile.Option{}
		}
		t.Options[optName] = Option{
			Name:        optName,
			Usage:       o.Usage,
			Short:       o.Short,
			Type:        ParseOptionType(o.Type),
			Default:     o.Default,
			Required:    o.Required,
			Rewrite:     o.Rewrite,
			Environment: o.Environment,
			Private:     o.Private,
		}
	}
	return t, nil
}

func validate(def *ruskfile.Task) error {
	if len(def.Source) > 0 && len(def.Target) == 0 {
		return &ruskerr.ConfigError{Kind: ruskerr.ErrSourceWithoutTarget}
	}
	if len(def.Target) > 0 && len(def.Source) == 0 {
		return &ruskerr.ConfigError{Kind: ruskerr.ErrTargetWithoutSource}
	}
	for _, argName := range slices.Sorted(maps.Keys(def.Args)) {
		if _, ok := def.Options[argName]; ok {
			return &ruskerr.ConfigError{Kind: ruskerr.ErrDuplicateNames, Subject: argName}
		}
	}
	return nil
}

func buildRunList(list ruskfile.RunList) []RunItem {
	items := make([]RunItem, 0, len(list))
	for _, def := range list {
		item := RunItem{
			When:     make([]Condition, 0, len(def.When)),
			Commands: make([]Command, 0, len(def.Command)),
			SubTasks: make([]SubTaskRef, 0, len(def.Task)),
		}
		for _, w := range def.When {
			item.When = append(item.When, ConditionFrom(w))
		}
		for _, c := range def.Command {
			item.Commands = append(item.Commands, commandFrom(c))
		}
		for _, st := range def.Task {
			item.SubTasks = append(item.SubTasks, SubTaskRef{Name: st.Name, Options: maps.Clone(st.Options)})
		}
		if len(def.SetEnvironment) > 0 {
			item.SetEnvironment = maps.Clone(def.SetEnvironment)
		}
		items = append(items, item)
	}
	return items
}

func commandFrom(c ruskfile.Command) Command {
	echo := c.Print
	if echo == "" {
		echo = c.Exec
	}
	return Command{Exec: c.Exec, Print: echo, Quiet: c.Quiet, Dir: c.Dir}
}
