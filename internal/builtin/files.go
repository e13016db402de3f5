// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"flag"
	"io"
	"os"
	"path/filepath"
)

// eachInput calls fn with every file named in files, resolved against dir,
// or with stdin as "-" when files is empty.
func eachInput(hc *HandlerContext, files []string, fn func(r io.Reader, name string) error) error {
	if len(files) == 0 {
		return fn(hc.Stdin, "-")
	}
	for _, name := range files {
		if err := withFile(hc.Dir, name, fn); err != nil {
			return err
		}
	}
	return nil
}

func withFile(dir, name string, fn func(r io.Reader, name string) error) (err error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(f, name)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
