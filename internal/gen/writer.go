package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/renameio"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files next to the packages they belong to.
// Each file is replaced atomically, so an interrupted run never leaves a
// half-written file behind for the next analysis.
func WriteFiles(files []GeneratedFile) error {
	for _, file := range files {
		if err := os.MkdirAll(file.Dir, dirPerm); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		if err := renameio.WriteFile(file.Path(), file.Content, filePerm); err != nil {
			return fmt.Errorf("writing file %s: %w", file.Path(), err)
		}
	}

	return nil
}

// Stale reports whether the file on disk differs from the rendered content.
// A missing file is stale.
func Stale(file GeneratedFile) (bool, error) {
	current, err := os.ReadFile(file.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}

	if err != nil {
		return false, fmt.Errorf("reading %s: %w", file.Path(), err)
	}

	return !bytes.Equal(current, file.Content), nil
}

// RemoveFiles deletes earlier output that no longer has declarations to hold.
func RemoveFiles(paths []string) error {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}

	return nil
}
