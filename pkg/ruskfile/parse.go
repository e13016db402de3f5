// SPDX-License-Identifier: MPL-2.0

package ruskfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/rusk-run/rusk/internal/ruskerr"
)

// Parse reads and parses a task file from the given path, resolving
// includes relative to the file's directory.
func Parse(path string) (*Ruskfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ruskerr.ConfigError{
			Kind:    ruskerr.ErrInvalidConfig,
			Subject: path,
			Err:     fmt.Errorf("failed to read file: %w", err),
		}
	}
	return ParseBytes(data, path)
}

// ParseBytes parses task file content. When path is non-empty it is
// recorded on the result and used as the base for include resolution;
// an empty path disables includes.
func ParseBytes(data []byte, path string) (*Ruskfile, error) {
	var rf Ruskfile
	if err := decodeDocument(data, &rf); err != nil {
		subject := path
		if subject == "" {
			subject = "<input>"
		}
		return nil, &ruskerr.ConfigError{Kind: ruskerr.ErrInvalidConfig, Subject: subject, Err: err}
	}
	if rf.Tasks == nil {
		rf.Tasks = make(map[string]*Task)
	}
	for name, t := range rf.Tasks {
		if t == nil {
			rf.Tasks[name] = &Task{}
		}
	}

	if path != "" {
		rf.FilePath = path
		if err := rf.resolveIncludes(); err != nil {
			return nil, err
		}
	}
	return &rf, nil
}

// resolveIncludes replaces every task that names an include file with the
// task decoded from that file.
func (f *Ruskfile) resolveIncludes() error {
	baseDir := f.Dir()
	for _, name := range f.TaskNames() {
		t := f.Tasks[name]
		if t.Include == "" {
			continue
		}
		full := filepath.Join(baseDir, filepath.FromSlash(t.Include))
		included, err := loadIncludedTask(full)
		if err != nil {
			return &ruskerr.ConfigError{Kind: ruskerr.ErrIncludeFile, Subject: full, Err: err}
		}
		f.Tasks[name] = included
	}
	return nil
}

func loadIncludedTask(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Task
	if err := decodeDocument(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// decodeDocument decodes a single YAML document. An empty document
// leaves out untouched.
func decodeDocument(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks every task's option types. Structural invariants are
// checked when tasks are built.
func (f *Ruskfile) Validate() error {
	for _, name := range f.TaskNames() {
		for _, optName := range sortedKeys(f.Tasks[name].Options) {
			opt := f.Tasks[name].Options[optName]
			if opt == nil || IsValidOptionType(opt.Type) {
				continue
			}
			return &ruskerr.ConfigError{
				Kind:    ruskerr.ErrInvalidConfig,
				Subject: fmt.Sprintf("task '%s', option '%s'", name, optName),
				Err:     fmt.Errorf("invalid option type: %s. Must be one of: string, bool, int, float", opt.Type),
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
