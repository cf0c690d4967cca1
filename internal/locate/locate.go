// Package locate finds the directory that holds the scan files of an
// exported session by walking down its single-branch directory tree.
package locate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxDepth bounds the walk when Options.MaxDepth is zero.
const DefaultMaxDepth = 64

var (
	// ErrEmptyDirectory is returned when the walk reaches a directory with
	// no visible entries.
	ErrEmptyDirectory = errors.New("directory has no entries")
	// ErrTooDeep is returned when the walk descends past MaxDepth levels,
	// which also catches symlink loops.
	ErrTooDeep = errors.New("directory tree too deep")
)

// Options tunes the walk.
type Options struct {
	// MaxDepth is the number of directory levels the walk may descend.
	MaxDepth int
	// Ascend climbs this many parent levels from the found directory.
	Ascend int
	// IncludeHidden considers dot entries when picking the next step.
	IncludeHidden bool
}

// DataRoot walks from start, each step taking the last entry of the
// directory in name order, until that entry is not a directory. It returns
// the directory containing that leaf. The process working directory is
// never changed.
func DataRoot(start string, opts Options) (string, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	current := filepath.Clean(start)
	info, err := os.Stat(current)
	if err != nil {
		return "", fmt.Errorf("stat start directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("start %s is not a directory", current)
	}

	for depth := 0; ; depth++ {
		next, err := lastEntry(current, opts.IncludeHidden)
		if err != nil {
			return "", err
		}
		info, err := os.Stat(next)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", next, err)
		}
		if !info.IsDir() {
			break
		}
		if depth >= maxDepth {
			return "", fmt.Errorf("%w: more than %d levels below %s", ErrTooDeep, maxDepth, start)
		}
		current = next
	}

	for i := 0; i < opts.Ascend; i++ {
		current = filepath.Dir(current)
	}
	return current, nil
}

// lastEntry returns the path of the last visible entry of dir. os.ReadDir
// sorts by name.
func lastEntry(dir string, includeHidden bool) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", dir, err)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		name := entries[i].Name()
		if !includeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		return filepath.Join(dir, name), nil
	}
	return "", fmt.Errorf("%w: %s", ErrEmptyDirectory, dir)
}
