// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnvFile reads a dotenv file and merges its entries into env.
// A relative path is resolved against baseDir. A path suffixed with '?'
// is optional: a missing optional file is not an error. Later calls
// override earlier values for the same keys.
func LoadEnvFile(env map[string]string, path, baseDir string) error {
	optional := strings.HasSuffix(path, "?")
	if optional {
		path = strings.TrimSuffix(path, "?")
	}

	fullPath := filepath.FromSlash(path)
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(baseDir, fullPath)
	}

	if _, err := os.Stat(fullPath); err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	values, err := godotenv.Read(fullPath)
	if err != nil {
		return fmt.Errorf("failed to parse env file '%s': %w", path, err)
	}
	maps.Copy(env, values)
	return nil
}

// LoadEnvFiles loads each path in order with LoadEnvFile.
func LoadEnvFiles(env map[string]string, paths []string, baseDir string) error {
	for _, p := range paths {
		if err := LoadEnvFile(env, p, baseDir); err != nil {
			return err
		}
	}
	return nil
}
