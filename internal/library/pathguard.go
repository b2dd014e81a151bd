package library

import (
	"os"
	"path/filepath"
	"strings"
)

// Contains reports whether candidate resolves to root itself or to a path
// nested under root. Both paths are canonicalized (absolute, symlinks
// resolved) before comparison; any path that cannot be resolved is treated
// as not contained.
func Contains(root, candidate string) bool {
	rootReal, err := canonicalize(root)
	if err != nil {
		return false
	}
	candReal, err := canonicalize(candidate)
	if err != nil {
		return false
	}
	return candReal == rootReal || strings.HasPrefix(candReal, rootReal+string(os.PathSeparator))
}

// HasTraversal reports whether a relative path contains dangerous traversal
// sequences: "..", "~", or any path segment starting with a dot.
func HasTraversal(relativePath string) bool {
	if strings.Contains(relativePath, "..") || strings.Contains(relativePath, "~") {
		return true
	}
	normalized := strings.ReplaceAll(relativePath, "\\", "/")
	for _, segment := range strings.Split(normalized, "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
