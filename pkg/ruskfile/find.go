// SPDX-License-Identifier: MPL-2.0

package ruskfile

import (
	"os"
	"path/filepath"

	"github.com/rusk-run/rusk/internal/ruskerr"
)

// Find looks for a task file in startDir and then in each parent directory
// up to the filesystem root, trying FileNames in order in each directory.
// When nothing is found the ErrNotFound error lists every path tried.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", &ruskerr.ConfigError{Kind: ruskerr.ErrInvalidConfig, Subject: startDir, Err: err}
	}

	var searched []string
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			searched = append(searched, candidate)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &ruskerr.ConfigError{Kind: ruskerr.ErrNotFound, Paths: searched}
		}
		dir = parent
	}
}

// Load finds and parses the task file for startDir. An explicit path, when
// non-empty, is parsed directly instead.
func Load(startDir, explicit string) (*Ruskfile, error) {
	path := explicit
	if path == "" {
		found, err := Find(startDir)
		if err != nil {
			return nil, err
		}
		path = found
	}

	rf, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if err := rf.Validate(); err != nil {
		return nil, err
	}
	return rf, nil
}
