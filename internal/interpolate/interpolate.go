// SPDX-License-Identifier: MPL-2.0

// Package interpolate substitutes ${name} placeholders in task strings.
//
// A placeholder resolves, in order, to the value in the variable bag, to the
// environment variable of the same name, or is left literally in place.
// Substitution repeats until a pass changes nothing so that a value may
// itself reference another variable.
package interpolate

import (
	"os"
	"regexp"

	"github.com/rusk-run/rusk/internal/ruskerr"
)

// MaxSubstitutions is the number of distinct names a single call may look up
// before it is treated as runaway recursion.
const MaxSubstitutions = 100

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

type (
	// LookupFunc reports the value of an environment variable.
	LookupFunc func(name string) (string, bool)

	// Resolver expands placeholders against a variable bag and an
	// environment view. The zero value uses no variables and the process
	// environment.
	Resolver struct {
		Vars map[string]string
		Env  LookupFunc
	}
)

// Expand resolves placeholders in text using vars and the process environment.
func Expand(text string, vars map[string]string) (string, error) {
	return Resolver{Vars: vars}.Expand(text)
}

// ExpandStrict is Expand, but fails with ErrUndefinedVariable if a
// placeholder is left unresolved.
func ExpandStrict(text string, vars map[string]string) (string, error) {
	return Resolver{Vars: vars}.ExpandStrict(text)
}

// Expand resolves every ${name} placeholder in text.
//
// Each name is looked up at most once per call: a name that was already
// looked up is left untouched on later encounters. Looking up more than
// MaxSubstitutions distinct names fails with ErrRecursiveInterpolation.
func (r Resolver) Expand(text string) (string, error) {
	lookupEnv := r.Env
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	seen := make(map[string]struct{})
	result := text
	for {
		changed := false
		result = placeholder.ReplaceAllStringFunc(result, func(match string) string {
			name := match[2 : len(match)-1]
			if _, ok := seen[name]; ok {
				return match
			}
			seen[name] = struct{}{}

			if value, ok := r.Vars[name]; ok {
				changed = true
				return value
			}
			if value, ok := lookupEnv(name); ok {
				changed = true
				return value
			}
			return match
		})

		if !changed {
			return result, nil
		}
		if len(seen) > MaxSubstitutions {
			return "", &ruskerr.InterpolationError{Kind: ruskerr.ErrRecursiveInterpolation}
		}
	}
}

// ExpandStrict runs Expand and reports the first placeholder left in the
// result as ErrUndefinedVariable.
func (r Resolver) ExpandStrict(text string) (string, error) {
	result, err := r.Expand(text)
	if err != nil {
		return "", err
	}
	if m := placeholder.FindStringSubmatch(result); m != nil {
		return "", &ruskerr.InterpolationError{Kind: ruskerr.ErrUndefinedVariable, Subject: m[1]}
	}
	return result, nil
}

// ExpandMap expands every value of m.
func (r Resolver) ExpandMap(m map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		expanded, err := r.Expand(v)
		if err != nil {
			return nil, err
		}
		out[k] = expanded
	}
	return out, nil
}

// ExpandList expands every element of list, preserving order.
func (r Resolver) ExpandList(list []string) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, s := range list {
		expanded, err := r.Expand(s)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}

// Lenient expands text and falls back to the literal text on error.
func (r Resolver) Lenient(text string) string {
	result, err := r.Expand(text)
	if err != nil {
		return text
	}
	return result
}

// HasPlaceholder reports whether text contains a ${name} placeholder.
func HasPlaceholder(text string) bool {
	return placeholder.MatchString(text)
}
