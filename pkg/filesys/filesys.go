// Package filesys provides utility functions for managing the single
// backing file a cranedb database lives in: creation, opening for
// read/write positional access, existence checks and parent directory
// handling.
package filesys

import (
	"errors"
	"os"
	"path/filepath"
)

var (
	ErrIsNotDir = errors.New("path isn't a directory")
)

// CreateDir creates a directory at the specified path with the given permissions.
//
// If the directory already exists:
//   - If 'force' is true, it proceeds without error.
//   - If 'force' is false, it returns an error.
//
// It also returns an error if the existing path is a file (not a directory).
func CreateDir(dirPath string, permission os.FileMode, force bool) error {
	stat, err := os.Stat(dirPath)
	if !force {
		if err == nil {
			return os.ErrExist
		}
		if !os.IsNotExist(err) {
			return err
		}
	}

	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}

	return os.MkdirAll(dirPath, permission)
}

// CreateFile creates a new file at the specified path, creating parent
// directories as needed.
//
// If the file already exists:
//   - If 'force' is true, it truncates the existing file.
//   - If 'force' is false, it returns an error.
func CreateFile(filePath string, force bool) (*os.File, error) {
	if !force {
		if _, err := os.Stat(filePath); err == nil {
			return nil, os.ErrExist
		}
	}

	if dir := filepath.Dir(filePath); dir != "." {
		if err := CreateDir(dir, 0755, true); err != nil {
			return nil, err
		}
	}

	return os.Create(filePath)
}

// OpenFile opens an existing file for positional reads and writes. The
// returned handle satisfies io.ReaderAt and io.WriterAt, the capability the
// sector layer is built on.
func OpenFile(filePath string) (*os.File, error) {
	return os.OpenFile(filePath, os.O_RDWR, 0644)
}

// Exists checks if a file or directory at the given path exists.
// It returns true if the path exists, false if it does not, and an error
// if there's any other issue checking its status.
func Exists(file string) (bool, error) {
	_, err := os.Stat(file)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// DeleteFile deletes the file at the specified path.
func DeleteFile(filePath string) error {
	return os.Remove(filePath)
}
