package savestate

import (
	"errors"
	"os"
)

// FileSystem is the subset of filesystem access the slot manager needs.
type FileSystem interface {
	// Exists reports whether path names an existing regular file.
	Exists(path string) bool

	// Remove deletes path. Removing a missing file is not an error.
	Remove(path string) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error
}

// OSFileSystem implements FileSystem on the host filesystem.
type OSFileSystem struct{}

// Exists reports whether path exists and is a regular file.
func (OSFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Remove deletes path, ignoring a file that is already gone.
func (OSFileSystem) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MkdirAll creates path with 0755 permissions.
func (OSFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}
