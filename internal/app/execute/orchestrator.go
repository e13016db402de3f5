// SPDX-License-Identifier: MPL-2.0

package execute

import (
	"maps"
	"slices"

	"github.com/rusk-run/rusk/internal/runtime"
	"github.com/rusk-run/rusk/internal/ruskerr"
	"github.com/rusk-run/rusk/internal/task"
	"github.com/rusk-run/rusk/internal/when"
)

type (
	// CommandRunner runs one command of a task. *runtime.Executor
	// implements it together with when.Checker.
	CommandRunner interface {
		Run(cmd task.Command, ctx *runtime.ExecutionContext, quiet bool) error
	}

	// Orchestrator drives task invocations: it sequences run items, applies
	// their conditions, dispatches commands and subtasks and always runs the
	// finally block.
	Orchestrator struct {
		Registry *task.Registry
		Runner   CommandRunner
		Checker  when.Checker
	}
)

// NewOrchestrator returns an orchestrator running commands with exec.
func NewOrchestrator(reg *task.Registry, exec *runtime.Executor) *Orchestrator {
	return &Orchestrator{Registry: reg, Runner: exec, Checker: exec}
}

// Run resolves the named task, attaches vars and executes it.
func (o *Orchestrator) Run(name string, vars map[string]string, ctx *runtime.ExecutionContext) error {
	t, err := o.Registry.Get(name)
	if err != nil {
		return err
	}
	return o.Execute(t.WithVars(vars), ctx)
}

// Execute runs t in ctx.
//
// A task already on the call stack fails with ErrRecursiveTask before
// anything runs. Otherwise the task's vars are merged into the bag and the
// run items execute in order until one fails. A non-empty finally block
// runs afterwards in every case. When the main path failed its error is
// returned and a finally error is discarded; when the main path succeeded
// a finally error is returned.
func (o *Orchestrator) Execute(t *task.Task, ctx *runtime.ExecutionContext) error {
	if ctx.Stack.Contains(t.Name) {
		return &ruskerr.ExecutionError{Kind: ruskerr.ErrRecursiveTask, Subject: ctx.Stack.Path(t.Name)}
	}
	ctx.Stack.Push(t.Name)
	defer ctx.Stack.Pop()

	ctx.Logger.Info("running task", "task", t.Name)
	maps.Copy(ctx.Vars, t.Vars)

	err := o.runItems(t, t.Run, ctx)

	if len(t.Finally) > 0 {
		ctx.Logger.Debug("running finally block", "task", t.Name)
		finallyErr := o.runItems(t, t.Finally, ctx)
		switch {
		case err == nil:
			err = finallyErr
		case finallyErr != nil:
			ctx.Logger.Debug("finally block failed after task failure", "task", t.Name, "err", finallyErr)
		}
	}

	if err == nil {
		ctx.Logger.Debug("task completed", "task", t.Name)
	}
	return err
}

func (o *Orchestrator) runItems(t *task.Task, items []task.RunItem, ctx *runtime.ExecutionContext) error {
	for _, item := range items {
		if err := o.runItem(t, item, ctx); err != nil {
			return err
		}
	}
	return nil
}

// runItem evaluates the item's conditions, then runs its commands, its
// subtasks and finally applies its set-environment entries.
func (o *Orchestrator) runItem(t *task.Task, item task.RunItem, ctx *runtime.ExecutionContext) error {
	ok, err := when.Evaluate(item.When, ctx, o.Checker)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Logger.Debug("skipping run item", "task", t.Name)
		return nil
	}

	for _, cmd := range item.Commands {
		if err := o.Runner.Run(cmd, ctx, t.Quiet); err != nil {
			return err
		}
	}

	for _, ref := range item.SubTasks {
		if err := o.runSubTask(ref, ctx); err != nil {
			return err
		}
	}

	for _, name := range slices.Sorted(maps.Keys(item.SetEnvironment)) {
		if value := item.SetEnvironment[name]; value != nil {
			ctx.SetEnv(name, ctx.Expand(*value))
		} else {
			ctx.UnsetEnv(name)
		}
	}
	return nil
}

// runSubTask invokes the referenced task in a child scope. Override values
// are interpolated against the caller's bag; overrides naming one of the
// subtask's args are passed as args, all others as options.
func (o *Orchestrator) runSubTask(ref task.SubTaskRef, ctx *runtime.ExecutionContext) error {
	sub, err := o.subTask(ref)
	if err != nil {
		return err
	}

	in := task.Inputs{
		Args:      make(map[string]string),
		Options:   make(map[string]string),
		LookupEnv: ctx.LookupEnv,
	}
	for name, value := range ref.Options {
		value = ctx.Expand(value)
		if _, isArg := sub.Args[name]; isArg {
			in.Args[name] = value
		} else {
			in.Options[name] = value
		}
	}

	vars, err := task.ResolveVars(sub, in)
	if err != nil {
		return err
	}
	return o.Execute(sub.WithVars(vars), ctx.Scope())
}

func (o *Orchestrator) subTask(ref task.SubTaskRef) (*task.Task, error) {
	if id, ok := o.Registry.Lookup(ref.Name); ok && id == ref.Target {
		return o.Registry.Task(id), nil
	}
	return o.Registry.Get(ref.Name)
}
