package cache

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/text/cases"
)

// caseInsensitiveFS reports whether the host's default file system ignores
// case.
func caseInsensitiveFS() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}

// Normalize turns a user supplied archive path into a cache key for this
// host.
func Normalize(path string) (string, error) {
	return NormalizePath(path, caseInsensitiveFS())
}

// NormalizePath expands a leading ~, makes the path absolute and clean, uses
// forward slashes and, when foldCase is set, folds case.
func NormalizePath(path string, foldCase bool) (string, error) {
	if path == "" {
		return "", fmt.Errorf("normalizing archive path: empty path")
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("normalizing archive path %q: %w", path, err)
	}
	p, err = filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("normalizing archive path %q: %w", path, err)
	}
	p = filepath.ToSlash(filepath.Clean(p))
	if foldCase {
		p = cases.Fold().String(p)
	}
	return p, nil
}
