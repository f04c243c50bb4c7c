// Package scan takes the read-only snapshots a run works from: supported
// media files directly under the source directory and the category
// directories directly under the target directory.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"animelibrarian/internal/media"
)

// SourceFiles lists regular, non-hidden files directly under dir, or symlinks
// to such files, whose extension is a supported video or subtitle extension.
// Subdirectories are not descended. Results are sorted by name.
func SourceFiles(dir string, exts media.ExtensionSet) ([]media.FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory %q: %w", dir, err)
	}

	files := make([]media.FileEntry, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if isHidden(name) {
			continue
		}
		file := media.NewFileEntry(name, exts)
		if file.Kind == media.KindUnsupported {
			continue
		}
		regular, err := isRegularFile(dir, entry)
		if err != nil {
			return nil, err
		}
		if regular {
			files = append(files, file)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Categories lists non-hidden directories directly under dir, sorted by name.
func Categories(dir string) ([]media.CategoryDirectory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read target directory %q: %w", dir, err)
	}

	dirs := make([]media.CategoryDirectory, 0, len(entries))
	for _, entry := range entries {
		if isHidden(entry.Name()) || !entry.IsDir() {
			continue
		}
		dirs = append(dirs, media.CategoryDirectory{Name: entry.Name()})
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	return dirs, nil
}

// isRegularFile follows symlinks so linked media files are picked up; the
// link itself is what gets moved. Dangling links are skipped.
func isRegularFile(dir string, entry fs.DirEntry) (bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type().IsRegular(), nil
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %q: %w", entry.Name(), err)
	}
	return info.Mode().IsRegular(), nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
