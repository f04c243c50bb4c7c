package scan_test

import (
	"os"
	"path/filepath"
	"testing"

	"animelibrarian/internal/media"
	"animelibrarian/internal/scan"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestSourceFilesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.srt", "A.MKV", "notes.txt", ".hidden.mkv", "nested/c.mkv"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "folder.mkv"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	exts := media.NewExtensionSet([]string{".mkv"}, []string{".srt"})
	files, err := scan.SourceFiles(dir, exts)
	if err != nil {
		t.Fatalf("SourceFiles: %v", err)
	}
	want := []media.FileEntry{
		{Name: "A.MKV", Kind: media.KindVideo},
		{Name: "b.srt", Kind: media.KindSubtitle},
	}
	if len(files) != len(want) {
		t.Fatalf("got %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("entry %d: got %v, want %v", i, files[i], want[i])
		}
	}
}

func TestSourceFilesFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	elsewhere := t.TempDir()
	touch(t, filepath.Join(elsewhere, "real.mkv"))
	links := map[string]string{
		"linked.mkv":   filepath.Join(elsewhere, "real.mkv"),
		"dangling.mkv": filepath.Join(elsewhere, "missing.mkv"),
		"dirlink.mkv":  elsewhere,
	}
	for name, target := range links {
		if err := os.Symlink(target, filepath.Join(dir, name)); err != nil {
			t.Fatalf("symlink %s: %v", name, err)
		}
	}

	files, err := scan.SourceFiles(dir, media.NewExtensionSet([]string{".mkv"}, nil))
	if err != nil {
		t.Fatalf("SourceFiles: %v", err)
	}
	if len(files) != 1 || files[0].Name != "linked.mkv" {
		t.Fatalf("expected only the link to a regular file, got %v", files)
	}
}

func TestCategoriesListsDirectories(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Show B", "Show A", ".trash", "Show A/Season 1"} {
		if err := os.MkdirAll(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	touch(t, filepath.Join(dir, "loose.mkv"))

	dirs, err := scan.Categories(dir)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	got := media.CategoryNames(dirs)
	if len(got) != 2 || got[0] != "Show A" || got[1] != "Show B" {
		t.Fatalf("unexpected categories %v", got)
	}
}

func TestMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	if _, err := scan.SourceFiles(missing, media.NewExtensionSet([]string{".mkv"}, nil)); err == nil {
		t.Fatal("expected error for missing source directory")
	}
	if _, err := scan.Categories(missing); err == nil {
		t.Fatal("expected error for missing target directory")
	}
}
