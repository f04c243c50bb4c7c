package fsx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// renameFunc is swapped in tests to simulate EXDEV and similar failures.
var renameFunc = renameNoReplace

// CrossDeviceError reports a rename that failed because source and
// destination live on different filesystems. Moves are never turned into
// copy+delete.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cross-device move %q -> %q: source and target must share a filesystem: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is a CrossDeviceError.
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// DestinationExistsError reports that a move target is already occupied.
type DestinationExistsError struct {
	Path string
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("destination already exists: %q", e.Path)
}

// Is lets callers match with errors.Is(err, fs.ErrExist).
func (e *DestinationExistsError) Is(target error) bool {
	return target == fs.ErrExist
}

// IsDestinationExists reports whether err means the destination was occupied.
func IsDestinationExists(err error) bool {
	return errors.Is(err, fs.ErrExist)
}

// Rename moves src to dst without replacing an existing dst. EXDEV is
// reported as CrossDeviceError.
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// MoveFile creates the parent directory of dst when missing, then renames
// src to dst without overwriting.
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	return Rename(src, dst)
}

// Exists reports whether path names an existing entry of any type.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// renameChecked is the portable no-replace rename: check, then rename. It
// leaves a window between the two calls, which renameat2 closes on Linux.
func renameChecked(src, dst string) error {
	exists, err := Exists(dst)
	if err != nil {
		return err
	}
	if exists {
		return &DestinationExistsError{Path: dst}
	}
	return os.Rename(src, dst)
}
