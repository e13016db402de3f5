// SPDX-License-Identifier: MPL-2.0

package task

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/rusk-run/rusk/internal/dag"
	"github.com/rusk-run/rusk/internal/ruskerr"
	"github.com/rusk-run/rusk/pkg/ruskfile"
)

// Registry holds every built task of a task file. Tasks are stored in name
// order and addressed by ID; subtask references carry the ID of their target.
type Registry struct {
	tasks []*Task
	index map[string]ID
	graph *dag.Graph[ID]
}

// NewRegistry builds every task in defs, resolves subtask references and
// rejects invocation cycles. Tasks are visited in name order, so errors are
// deterministic.
func NewRegistry(defs map[string]*ruskfile.Task) (*Registry, error) {
	names := slices.Sorted(maps.Keys(defs))
	r := &Registry{
		tasks: make([]*Task, 0, len(names)),
		index: make(map[string]ID, len(names)),
		graph: dag.New[ID](),
	}

	for _, name := range names {
		t, err := Build(name, defs[name])
		if err != nil {
			return nil, err
		}
		id := ID(len(r.tasks))
		r.tasks = append(r.tasks, t)
		r.index[name] = id
		r.graph.AddNode(id)
	}

	for id, t := range r.tasks {
		if err := r.resolve(ID(id), t.Run); err != nil {
			return nil, err
		}
		if err := r.resolve(ID(id), t.Finally); err != nil {
			return nil, err
		}
	}

	if err := r.graph.FindCycle(); err != nil {
		var cycleErr *dag.CycleError[ID]
		if errors.As(err, &cycleErr) {
			return nil, &ruskerr.ConfigError{Kind: ruskerr.ErrCircularDependency, Subject: r.path(cycleErr.Cycle)}
		}
		return nil, err
	}
	return r, nil
}

func (r *Registry) resolve(from ID, items []RunItem) error {
	for i := range items {
		for j := range items[i].SubTasks {
			ref := &items[i].SubTasks[j]
			to, ok := r.index[ref.Name]
			if !ok {
				return &ruskerr.ConfigError{Kind: ruskerr.ErrTaskNotFound, Subject: ref.Name}
			}
			ref.Target = to
			r.graph.AddEdge(from, to)
		}
	}
	return nil
}

func (r *Registry) path(ids []ID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = r.tasks[id].Name
	}
	return strings.Join(names, " -> ")
}

// Lookup returns the ID of the named task.
func (r *Registry) Lookup(name string) (ID, bool) {
	id, ok := r.index[name]
	return id, ok
}

// Task returns the task with the given ID. It panics on an ID not issued
// by this registry.
func (r *Registry) Task(id ID) *Task {
	return r.tasks[id]
}

// Get returns the named task or an ErrTaskNotFound error.
func (r *Registry) Get(name string) (*Task, error) {
	id, ok := r.index[name]
	if !ok {
		return nil, &ruskerr.ConfigError{Kind: ruskerr.ErrTaskNotFound, Subject: name}
	}
	return r.tasks[id], nil
}

// Names returns every task name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tasks))
	for i, t := range r.tasks {
		names[i] = t.Name
	}
	return names
}

// Len returns the number of tasks.
func (r *Registry) Len() int { return len(r.tasks) }

// Graph returns the invocation graph: an edge a -> b means a runs b.
func (r *Registry) Graph() *dag.Graph[ID] { return r.graph }

// Closure returns the named task followed by every task it may invoke,
// directly or transitively.
func (r *Registry) Closure(id ID) []*Task {
	ids := r.graph.Reachable(id)
	out := make([]*Task, len(ids))
	for i, reached := range ids {
		out[i] = r.tasks[reached]
	}
	return out
}
