package organizer_test

import (
	"errors"
	"path/filepath"
	"testing"

	"animelibrarian/internal/media"
	"animelibrarian/internal/organizer"
	"animelibrarian/internal/services"
)

var testExtensions = media.NewExtensionSet(
	[]string{".mp4", ".mkv", ".avi"},
	[]string{".srt", ".ass"},
)

func newMatcher(categories ...string) organizer.Matcher {
	dirs := make([]media.CategoryDirectory, 0, len(categories))
	for _, name := range categories {
		dirs = append(dirs, media.CategoryDirectory{Name: name})
	}
	return organizer.Matcher{
		SourceDir:  "/downloads",
		TargetDir:  "/library",
		Extensions: testExtensions,
		Categories: dirs,
	}
}

func knownFiles(names ...string) []media.FileEntry {
	files := make([]media.FileEntry, 0, len(names))
	for _, name := range names {
		files = append(files, media.NewFileEntry(name, testExtensions))
	}
	return files
}

func TestMatchResolvesPaths(t *testing.T) {
	m := newMatcher("Show")
	result := m.Match([]organizer.Proposal{
		{OriginalName: "Show [01].mkv", NewName: "Show/Show.S01E01.mkv"},
	}, knownFiles("Show [01].mkv"))

	if len(result.Unmatched) != 0 || len(result.Ignored) != 0 {
		t.Fatalf("unexpected rejects: %+v", result)
	}
	if len(result.Matched) != 1 {
		t.Fatalf("expected one match, got %d", len(result.Matched))
	}
	got := result.Matched[0]
	if got.SourcePath != filepath.Join("/downloads", "Show [01].mkv") {
		t.Errorf("source path = %q", got.SourcePath)
	}
	if got.DestinationPath != filepath.Join("/library", "Show", "Show.S01E01.mkv") {
		t.Errorf("destination path = %q", got.DestinationPath)
	}
	if got.Category != "Show" || got.FileName != "Show.S01E01.mkv" {
		t.Errorf("unexpected split %q / %q", got.Category, got.FileName)
	}
	if got.NewCategory {
		t.Error("existing category flagged as new")
	}
	if got.Kind != media.KindVideo {
		t.Errorf("kind = %q", got.Kind)
	}
}

func TestMatchUnknownSourceIsReported(t *testing.T) {
	m := newMatcher("Show")
	proposals := []organizer.Proposal{
		{OriginalName: "Ghost [02].mkv", NewName: "Show/Show.S01E02.mkv"},
		{OriginalName: "", NewName: "Show/Show.S01E03.mkv"},
		{OriginalName: "show [01].mkv", NewName: "Show/Show.S01E01.mkv"},
	}
	result := m.Match(proposals, knownFiles("Show [01].mkv"))

	if len(result.Matched) != 0 {
		t.Fatalf("unknown sources must never match: %+v", result.Matched)
	}
	if len(result.Unmatched) != len(proposals) {
		t.Fatalf("expected %d unmatched, got %d", len(proposals), len(result.Unmatched))
	}
	for i, rejected := range result.Unmatched {
		if rejected.Reason != organizer.ReasonUnknownSource {
			t.Errorf("proposal %d: reason = %q", i, rejected.Reason)
		}
		if rejected.Proposal != proposals[i] {
			t.Errorf("proposal %d not preserved: %+v", i, rejected.Proposal)
		}
		if !errors.Is(rejected, services.ErrValidation) {
			t.Errorf("proposal %d: expected ErrValidation marker", i)
		}
	}
}

func TestMatchRejectsMalformedDestinations(t *testing.T) {
	cases := []struct {
		name    string
		newName string
	}{
		{"no separator", "Show.S01E01.mkv"},
		{"empty category", "/Show.S01E01.mkv"},
		{"empty filename", "Show/"},
		{"whitespace category", "   /Show.S01E01.mkv"},
		{"whitespace filename", "Show/ \t"},
		{"nested path", "Show/Season 1/Show.S01E01.mkv"},
		{"parent escape", "../Show.S01E01.mkv"},
		{"dot filename", "Show/."},
		{"dot dot filename", "Show/.."},
		{"backslash", `Show\Show.S01E01.mkv`},
		{"nul byte", "Show/Show\x00.mkv"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newMatcher("Show")
			result := m.Match([]organizer.Proposal{
				{OriginalName: "Show [01].mkv", NewName: tc.newName},
			}, knownFiles("Show [01].mkv"))
			if len(result.Matched) != 0 {
				t.Fatalf("expected rejection, got %+v", result.Matched)
			}
			if len(result.Unmatched) != 1 {
				t.Fatalf("expected one unmatched, got %d", len(result.Unmatched))
			}
			err := result.Unmatched[0]
			if err.Reason != organizer.ReasonMalformedDestination {
				t.Fatalf("reason = %q", err.Reason)
			}
			var target *organizer.ValidationError
			if !errors.As(error(err), &target) || target.Detail == "" {
				t.Fatalf("expected structured validation error, got %v", err)
			}
		})
	}
}

func TestMatchIgnoresUnsupportedExtensions(t *testing.T) {
	m := newMatcher("Show")
	proposals := []organizer.Proposal{
		{OriginalName: "readme.txt", NewName: "Show/readme.txt"},
		{OriginalName: "cover.jpg", NewName: "broken"},
	}
	result := m.Match(proposals, knownFiles("Show [01].mkv"))
	if len(result.Matched) != 0 || len(result.Unmatched) != 0 {
		t.Fatalf("unsupported files must be excluded without error: %+v", result)
	}
	if len(result.Ignored) != 2 {
		t.Fatalf("expected two ignored proposals, got %d", len(result.Ignored))
	}
}

func TestMatchKeepsSuppliedNamesVerbatim(t *testing.T) {
	m := newMatcher()
	result := m.Match([]organizer.Proposal{
		{OriginalName: "EP01.MKV", NewName: "New Show/New Show - S01E01.MKV"},
		{OriginalName: "EP01.Ass", NewName: "New Show/New Show - S01E01.zh.Ass"},
	}, knownFiles("EP01.MKV", "EP01.Ass"))

	if len(result.Matched) != 2 {
		t.Fatalf("expected two matches, got %+v", result)
	}
	if result.Matched[0].FileName != "New Show - S01E01.MKV" {
		t.Errorf("video name altered: %q", result.Matched[0].FileName)
	}
	if result.Matched[1].FileName != "New Show - S01E01.zh.Ass" {
		t.Errorf("subtitle name altered: %q", result.Matched[1].FileName)
	}
	if result.Matched[1].Kind != media.KindSubtitle {
		t.Errorf("kind = %q", result.Matched[1].Kind)
	}
	for _, move := range result.Matched {
		if !move.NewCategory {
			t.Errorf("%s: expected new category flag", move.SourceName)
		}
	}
}

func TestMatchPartitionsEveryProposal(t *testing.T) {
	m := newMatcher("A")
	proposals := []organizer.Proposal{
		{OriginalName: "a.mkv", NewName: "A/a1.mkv"},
		{OriginalName: "b.mkv", NewName: "nope"},
		{OriginalName: "c.nfo", NewName: "A/c.nfo"},
		{OriginalName: "d.mkv", NewName: "A/d1.mkv"},
	}
	result := m.Match(proposals, knownFiles("a.mkv", "b.mkv"))
	total := len(result.Matched) + len(result.Unmatched) + len(result.Ignored)
	if total != len(proposals) {
		t.Fatalf("expected every proposal accounted for, got %d of %d", total, len(proposals))
	}
	if len(result.Matched) != 1 || len(result.Unmatched) != 2 || len(result.Ignored) != 1 {
		t.Fatalf("unexpected partition: %+v", result)
	}
}
