// Package pyproject reads, interprets, and rewrites a project's
// pyproject.toml dependency declarations.
package pyproject

import (
	"os"
	"path/filepath"

	"github.com/ruffyt/ruffyt/internal/errors"
)

// ManifestName is the manifest file looked up during project detection.
const ManifestName = "pyproject.toml"

// FindProjectRoot walks upward from dir until a directory containing
// pyproject.toml is found. This makes the tool independent of where inside
// the project it is invoked.
func FindProjectRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(abs, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			break
		}
		abs = parent
	}

	return "", errors.ManifestNotFound(dir)
}

// FindManifest returns the path to the manifest governing dir.
func FindManifest(dir string) (string, error) {
	root, err := FindProjectRoot(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ManifestName), nil
}
