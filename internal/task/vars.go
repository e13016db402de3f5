// SPDX-License-Identifier: MPL-2.0

package task

import (
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/rusk-run/rusk/internal/ruskerr"
)

// Inputs are the values supplied for one invocation of a task. A key that
// is present counts as provided, even with an empty value.
type Inputs struct {
	Args    map[string]string
	Options map[string]string
	// LookupEnv resolves option environment fallbacks. Nil means the
	// process environment.
	LookupEnv func(string) (string, bool)
}

// ResolveVars computes the variable bag of t for the given inputs.
//
// An arg takes the provided value, else its default. A bool option takes the
// provided value, else its default, else "false". Any other option takes the
// provided value, else its default, else its environment variable. A rewrite
// replaces whatever was found. Empty results are left out of the bag.
// Provided options that t does not declare are passed through unchanged.
func ResolveVars(t *Task, in Inputs) (map[string]string, error) {
	lookupEnv := in.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	vars := make(map[string]string, len(t.Args)+len(t.Options))

	for _, a := range t.SortedArgs() {
		value, ok := in.Args[a.Name]
		if !ok && a.Default != nil {
			value = *a.Default
		}
		if value == "" {
			if a.Required {
				return nil, &ruskerr.ExecutionError{Kind: ruskerr.ErrMissingOption, Subject: a.Name}
			}
			continue
		}
		vars[a.Name] = value
	}

	for _, o := range t.SortedOptions() {
		value, err := resolveOption(o, in.Options, lookupEnv)
		if err != nil {
			return nil, err
		}
		if value == "" {
			if o.Required {
				return nil, &ruskerr.ExecutionError{Kind: ruskerr.ErrMissingOption, Subject: o.Name}
			}
			continue
		}
		vars[o.Name] = value
	}

	for _, name := range slices.Sorted(maps.Keys(in.Options)) {
		if _, declared := t.Options[name]; declared {
			continue
		}
		if value := in.Options[name]; value != "" {
			vars[name] = value
		}
	}
	return vars, nil
}

func resolveOption(o Option, provided map[string]string, lookupEnv func(string) (string, bool)) (string, error) {
	value, ok := provided[o.Name]
	if !ok {
		switch {
		case o.Default != nil:
			value = *o.Default
		case o.Type == OptionBool:
			value = "false"
		case o.Environment != "":
			value, _ = lookupEnv(o.Environment)
		}
	}
	if o.Rewrite != nil {
		value = *o.Rewrite
	}
	if value == "" {
		return "", nil
	}
	if err := checkType(o.Type, value); err != nil {
		return "", &ruskerr.ExecutionError{Kind: ruskerr.ErrInvalidOption, Subject: o.Name, Err: err}
	}
	return value, nil
}

func checkType(t OptionType, value string) error {
	var err error
	switch t {
	case OptionBool:
		_, err = strconv.ParseBool(value)
	case OptionInteger:
		_, err = strconv.ParseInt(value, 10, 64)
	case OptionFloat:
		_, err = strconv.ParseFloat(value, 64)
	}
	return err
}
