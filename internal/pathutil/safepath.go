// Package pathutil resolves user-supplied storage paths.
//
// State files may be relocated through environment variables; this package
// keeps every such path inside the configured data directory, including after
// symlink resolution.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEscapesBase is returned when a path resolves outside its base directory.
var ErrEscapesBase = errors.New("path escapes base directory")

// ResolveSafePath resolves userPath relative to baseDir and verifies that the
// result stays within baseDir once symlinks are resolved.
//
// Relative paths are joined with baseDir. Absolute paths are accepted only if
// they already point inside baseDir. The target file need not exist yet: the
// deepest existing ancestor is resolved and the missing tail re-appended.
//
// Returns an error for empty or whitespace-only paths, paths containing NUL
// bytes, and paths that escape baseDir (wrapping ErrEscapesBase).
//
// Example:
//
//	p, err := ResolveSafePath("/home/me/.gift", "backups/state.json")
//	// p == "/home/me/.gift/backups/state.json"
func ResolveSafePath(baseDir, userPath string) (string, error) {
	if err := validateInput(userPath); err != nil {
		return "", err
	}

	candidate := userPath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(baseDir, candidate)
	}
	candidate = filepath.Clean(candidate)

	resolved, err := resolveTarget(candidate)
	if err != nil {
		return "", err
	}

	root, err := resolveExistingParent(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}

	if !within(root, resolved) {
		return "", fmt.Errorf("%w: %s", ErrEscapesBase, userPath)
	}

	return resolved, nil
}

// validateInput rejects paths that can never be valid.
func validateInput(userPath string) error {
	if strings.TrimSpace(userPath) == "" {
		return fmt.Errorf("path is empty or whitespace-only")
	}
	if strings.ContainsRune(userPath, 0) {
		return fmt.Errorf("path contains null byte")
	}
	return nil
}

// resolveTarget follows symlinks in candidate, tolerating a missing tail.
func resolveTarget(candidate string) (string, error) {
	resolved, err := filepath.EvalSymlinks(candidate)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	parent, err := resolveExistingParent(filepath.Dir(candidate))
	if err != nil {
		return "", fmt.Errorf("failed to resolve parent directory: %w", err)
	}
	return filepath.Join(parent, filepath.Base(candidate)), nil
}

// within reports whether target is root or a descendant of root.
func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolveExistingParent resolves the deepest existing ancestor of path and
// re-appends the components that do not exist yet.
func resolveExistingParent(path string) (string, error) {
	current := filepath.Clean(path)
	var missing []string

	for {
		if _, err := os.Stat(current); err == nil {
			resolved, err := filepath.EvalSymlinks(current)
			if err != nil {
				return "", fmt.Errorf("failed to resolve existing parent: %w", err)
			}
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return resolved, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing parent directory found")
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}
