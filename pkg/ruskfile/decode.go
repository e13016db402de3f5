// SPDX-License-Identifier: MPL-2.0

package ruskfile

import (
	"fmt"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts either a list of strings or a single shell-quoted
// string such as "bash -c".
func (i *Interpreter) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.ShortTag() == "!!null" {
			*i = nil
			return nil
		}
		parts, err := shlex.Split(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: invalid interpreter %q: %w", value.Line, value.Value, err)
		}
		*i = parts
		return nil
	case yaml.SequenceNode:
		var parts []string
		if err := value.Decode(&parts); err != nil {
			return err
		}
		*i = parts
		return nil
	}
	return fmt.Errorf("line %d: interpreter must be a string or a list", value.Line)
}

// UnmarshalYAML accepts a single command string or a list of run items.
func (l *RunList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.ShortTag() == "!!null" {
			*l = nil
			return nil
		}
		*l = RunList{{Command: CommandList{{Exec: value.Value}}}}
		return nil
	case yaml.SequenceNode:
		items := make(RunList, 0, len(value.Content))
		for _, n := range value.Content {
			var item RunItem
			if err := n.Decode(&item); err != nil {
				return err
			}
			items = append(items, item)
		}
		*l = items
		return nil
	}
	return fmt.Errorf("line %d: run must be a string or array", value.Line)
}

// UnmarshalYAML accepts a bare command string or a run item mapping.
func (r *RunItem) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*r = RunItem{Command: CommandList{{Exec: value.Value}}}
		return nil
	case yaml.MappingNode:
		type plain RunItem
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*r = RunItem(p)
		return nil
	}
	return fmt.Errorf("line %d: run item must be a string or object", value.Line)
}

// UnmarshalYAML accepts a string, a command mapping, or a list of either.
func (l *CommandList) UnmarshalYAML(value *yaml.Node) error {
	out, err := decodeOneOrMany[Command](value, "command")
	if err != nil {
		return err
	}
	*l = out
	return nil
}

// UnmarshalYAML accepts a bare exec string or a command mapping.
func (c *Command) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*c = Command{Exec: value.Value}
		return nil
	case yaml.MappingNode:
		type plain Command
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*c = Command(p)
		return nil
	}
	return fmt.Errorf("line %d: command must be a string or object", value.Line)
}

// UnmarshalYAML accepts a task name, a subtask mapping, or a list of either.
func (l *SubTaskList) UnmarshalYAML(value *yaml.Node) error {
	out, err := decodeOneOrMany[SubTask](value, "task")
	if err != nil {
		return err
	}
	*l = out
	return nil
}

// UnmarshalYAML accepts a bare task name or a {name, options} mapping.
func (s *SubTask) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = SubTask{Name: value.Value}
		return nil
	case yaml.MappingNode:
		type plain SubTask
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*s = SubTask(p)
		return nil
	}
	return fmt.Errorf("line %d: task must be a string or object", value.Line)
}

// decodeOneOrMany decodes a scalar or mapping as a single element and a
// sequence element-wise.
func decodeOneOrMany[T any](value *yaml.Node, what string) ([]T, error) {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.ShortTag() == "!!null" {
			return nil, nil
		}
		fallthrough
	case yaml.MappingNode:
		var v T
		if err := value.Decode(&v); err != nil {
			return nil, err
		}
		return []T{v}, nil
	case yaml.SequenceNode:
		out := make([]T, 0, len(value.Content))
		for _, n := range value.Content {
			var v T
			if err := n.Decode(&v); err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: %s must be a string, object, or array", value.Line, what)
}
