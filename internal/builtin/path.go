// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var errMissingOperand = errors.New("missing operand")

func basename(_ context.Context, hc *HandlerContext, args []string) error {
	if len(args) < 2 {
		return errMissingOperand
	}
	name := args[1]
	if trimmed := strings.TrimRight(name, "/"); trimmed != "" {
		name = path.Base(trimmed)
	} else if name != "" {
		name = "/"
	}
	if len(args) > 2 && name != args[2] {
		name = strings.TrimSuffix(name, args[2])
	}
	_, err := fmt.Fprintln(hc.Stdout, name)
	return err
}

func dirname(_ context.Context, hc *HandlerContext, args []string) error {
	if len(args) < 2 {
		return errMissingOperand
	}
	for _, name := range args[1:] {
		dir := "/"
		if trimmed := strings.TrimRight(name, "/"); trimmed != "" {
			dir = path.Dir(trimmed)
		} else if name == "" {
			dir = "."
		}
		if _, err := fmt.Fprintln(hc.Stdout, dir); err != nil {
			return err
		}
	}
	return nil
}
