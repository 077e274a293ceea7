// Package filex has filesystem helpers used by the editor CLI.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrNotRegular = errors.New("not a regular file")

// EnsureParentDir makes sure the directory that will hold path exists and
// returns path made absolute.
func EnsureParentDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return abs, nil
}

// OpenRegular opens path for reading and returns its size. Directories and
// other non-regular files are rejected with ErrNotRegular.
func OpenRegular(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	return f, fi.Size(), nil
}
