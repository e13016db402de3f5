// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"io"

	"mvdan.cc/sh/v3/interp"
)

// HandlerContext is the I/O and working directory a builtin runs with.
type HandlerContext struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Dir    string
}

// ExecHandler returns an interp exec middleware that serves the commands of
// r in-process and passes everything else to next.
//
// A failing builtin prints "name: error" to stderr and exits with status 1,
// like its external counterpart would.
func ExecHandler(r *Registry) func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return next(ctx, args)
			}
			fn, ok := r.Lookup(args[0])
			if !ok {
				return next(ctx, args)
			}

			ihc := interp.HandlerCtx(ctx)
			hc := &HandlerContext{Stdin: ihc.Stdin, Stdout: ihc.Stdout, Stderr: ihc.Stderr, Dir: ihc.Dir}
			if hc.Stdin == nil {
				hc.Stdin = eofReader{}
			}
			if err := fn(ctx, hc, args); err != nil {
				fmt.Fprintf(hc.Stderr, "%s: %v\n", args[0], err)
				return interp.ExitStatus(1)
			}
			return nil
		}
	}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
