// SPDX-License-Identifier: MPL-2.0

// Package when evaluates the conditions that gate a run item.
package when

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rusk-run/rusk/internal/runtime"
	"github.com/rusk-run/rusk/internal/task"
)

// Checker runs a probe command and reports whether it succeeded.
// *runtime.Executor implements it.
type Checker interface {
	Check(command string, ctx *runtime.ExecutionContext) (bool, error)
}

// Evaluate reports whether every condition holds. Conditions are evaluated
// in order and evaluation stops at the first one that does not hold, so
// probe commands after it never run. An empty list holds.
func Evaluate(conds []task.Condition, ctx *runtime.ExecutionContext, checker Checker) (bool, error) {
	for _, c := range conds {
		ok, err := evaluate(c, ctx, checker)
		if err != nil {
			return false, err
		}
		if !ok {
			ctx.Logger.Debug("condition not met", "condition", c.String())
			return false, nil
		}
	}
	return true, nil
}

func evaluate(c task.Condition, ctx *runtime.ExecutionContext, checker Checker) (bool, error) {
	switch c := c.(type) {
	case task.Equal:
		return ctx.Expand(c.Left) == ctx.Expand(c.Right), nil
	case task.NotEqual:
		return ctx.Expand(c.Left) != ctx.Expand(c.Right), nil
	case task.CommandSucceeds:
		if checker == nil {
			return false, errors.New("no command checker configured")
		}
		return checker.Check(ctx.Expand(c.Command), ctx)
	case task.PathExists:
		return pathExists(ctx, ctx.Expand(c.Path)), nil
	case task.EnvSet:
		_, ok := ctx.LookupEnv(ctx.Expand(c.Name))
		return ok, nil
	case task.EnvNotSet:
		_, ok := ctx.LookupEnv(ctx.Expand(c.Name))
		return !ok, nil
	case task.OptionSet:
		_, ok := ctx.Vars[c.Name]
		return ok, nil
	case task.OptionNotSet:
		_, ok := ctx.Vars[c.Name]
		return !ok, nil
	case task.Always:
		return true, nil
	default:
		return false, fmt.Errorf("unsupported condition %T", c)
	}
}

// pathExists treats any stat failure as absence.
func pathExists(ctx *runtime.ExecutionContext, path string) bool {
	if !filepath.IsAbs(path) {
		path = filepath.Join(ctx.WorkDir, path)
	}
	_, err := os.Stat(path)
	return err == nil
}
