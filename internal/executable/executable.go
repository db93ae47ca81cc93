// Package executable probes filesystem entries for executable regular files.
package executable

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotExecutable indicates the path is a directory, a special file, or a
// regular file with no executable permission bit set.
var ErrNotExecutable = errors.New("not an executable file")

// Probe returns the base name of path if it is a regular file with at least
// one executable bit set for owner, group or other. It never follows up with
// side effects; failures to stat the path surface as-is.
func Probe(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotExecutable, path)
	}
	return filepath.Base(path), nil
}
