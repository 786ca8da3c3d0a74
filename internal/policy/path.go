package policy

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// IsSafePath reports whether path, taken relative to root, stays inside
// root once every symlink along the way is resolved.
func IsSafePath(path, root string) bool {
	_, ok := ResolveInRoot(path, root)
	return ok
}

// ResolveInRoot returns the canonical location of path under root. The
// returned path is the one callers must operate on; it is the exact
// string that passed the confinement check.
func ResolveInRoot(path, root string) (string, bool) {
	resolvedRoot, err := canonicalize(root)
	if err != nil {
		return "", false
	}

	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(resolvedRoot, candidate)
	}

	resolved, err := canonicalize(candidate)
	if err != nil {
		return "", false
	}

	if resolved != resolvedRoot && !strings.HasPrefix(resolved, withSeparator(resolvedRoot)) {
		return "", false
	}

	return resolved, true
}

// canonicalize resolves symlinks in the longest existing prefix of path
// and appends the missing tail, so targets that do not exist yet can
// still be checked.
func canonicalize(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	existing := absPath
	var missing []string
	for {
		_, err := os.Lstat(existing)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		missing = append([]string{filepath.Base(existing)}, missing...)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}

	return filepath.Join(append([]string{resolved}, missing...)...), nil
}

func withSeparator(path string) string {
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return path
	}

	return path + string(filepath.Separator)
}
