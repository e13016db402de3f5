// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rusk-run/rusk/internal/task"
)

// defaultIgnores are never watched: VCS metadata, dependency caches and
// editor or OS litter.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

type matcher struct {
	patterns []string
	ignores  []string
}

func newMatcher(patterns, ignore []string) (*matcher, error) {
	if err := validatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(ignore, "ignore"); err != nil {
		return nil, err
	}
	return &matcher{
		patterns: slices.Clone(patterns),
		ignores:  append(slices.Clone(defaultIgnores), ignore...),
	}, nil
}

// matches reports whether a changed file should trigger a run.
func (m *matcher) matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	if matchAny(m.ignores, rel) {
		return false
	}
	return len(m.patterns) == 0 || matchAny(m.patterns, rel)
}

// ignoredDir reports whether a directory should be left out of the watch.
func (m *matcher) ignoredDir(rel string) bool {
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return false
	}
	return matchAny(m.ignores, rel) || matchAny(m.ignores, rel+"/")
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if pat == "" || !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// TaskPatterns collects the source globs of tasks, deduplicated and sorted.
// A pattern written with a leading "./" is normalized so it matches the
// relative paths reported to OnChange.
func TaskPatterns(tasks []*task.Task) []string {
	var out []string
	for _, t := range tasks {
		for _, src := range t.Source {
			src = strings.TrimPrefix(path.Clean(filepath.ToSlash(src)), "./")
			if !slices.Contains(out, src) {
				out = append(out, src)
			}
		}
	}
	slices.Sort(out)
	return out
}
