package cargowatch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// DefaultManifestName marks the root of a Cargo project
const DefaultManifestName = "Cargo.toml"

// ErrRootNotFound is returned when no ancestor directory holds a manifest file
var ErrRootNotFound = errors.New("project root not found")

// FindProjectRoot walks up from the directory containing filePath and returns
// the nearest directory holding manifestName.
func FindProjectRoot(filePath, manifestName string) (string, error) {
	if manifestName == "" {
		manifestName = DefaultManifestName
	}
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", filePath, err)
	}
	dir := filepath.Dir(abs)
	for {
		ok, err := fileExists(filepath.Join(dir, manifestName))
		if err != nil {
			return "", err
		}
		if ok {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s above %s: %w", manifestName, abs, ErrRootNotFound)
		}
		dir = parent
	}
}

// fileExists reports whether path exists. A missing path is not an error.
func fileExists(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return true, nil
	} else if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
		return false, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	return false, nil
}
