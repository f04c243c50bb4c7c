package media

import (
	"path/filepath"
	"strings"
)

// Kind classifies a file by its extension.
type Kind string

const (
	KindVideo       Kind = "video"
	KindSubtitle    Kind = "subtitle"
	KindUnsupported Kind = "unsupported"
)

// ExtensionSet holds the supported video and subtitle extensions. Lookups are
// case-insensitive; stored keys are lowercase with a leading dot.
type ExtensionSet struct {
	video    map[string]struct{}
	subtitle map[string]struct{}
}

// NewExtensionSet builds a set from raw extension lists. Entries are
// normalized with NormalizeExtension and blanks are dropped.
func NewExtensionSet(video, subtitle []string) ExtensionSet {
	return ExtensionSet{
		video:    toSet(video),
		subtitle: toSet(subtitle),
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		if ext := NormalizeExtension(value); ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

// NormalizeExtension lowercases ext and ensures a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// IsVideo reports whether ext is a supported video extension.
func (s ExtensionSet) IsVideo(ext string) bool {
	_, ok := s.video[NormalizeExtension(ext)]
	return ok
}

// IsSubtitle reports whether ext is a supported subtitle extension.
func (s ExtensionSet) IsSubtitle(ext string) bool {
	_, ok := s.subtitle[NormalizeExtension(ext)]
	return ok
}

// Classify returns the kind of the file name based on its extension.
func (s ExtensionSet) Classify(name string) Kind {
	ext := filepath.Ext(name)
	switch {
	case s.IsVideo(ext):
		return KindVideo
	case s.IsSubtitle(ext):
		return KindSubtitle
	default:
		return KindUnsupported
	}
}

// Supports reports whether name has a video or subtitle extension.
func (s ExtensionSet) Supports(name string) bool {
	return s.Classify(name) != KindUnsupported
}

// Empty reports whether the set has no extensions at all.
func (s ExtensionSet) Empty() bool {
	return len(s.video) == 0 && len(s.subtitle) == 0
}

// FileEntry is a file known to exist in the source directory.
type FileEntry struct {
	Name string
	Kind Kind
}

// NewFileEntry classifies name against the extension set.
func NewFileEntry(name string, exts ExtensionSet) FileEntry {
	return FileEntry{Name: name, Kind: exts.Classify(name)}
}

// CategoryDirectory is a series directory known to exist under the target root.
type CategoryDirectory struct {
	Name string
}

// Names returns the file names in entry order.
func Names(entries []FileEntry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Name)
	}
	return out
}

// CategoryNames returns the directory names in entry order.
func CategoryNames(dirs []CategoryDirectory) []string {
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		out = append(out, dir.Name)
	}
	return out
}
