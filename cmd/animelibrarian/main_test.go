package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"animelibrarian/internal/organizer"
	"animelibrarian/internal/services"
	"animelibrarian/internal/testsupport"
)

var showAProposals = []organizer.Proposal{
	{OriginalName: "[Grp] Show A - 01.mkv", NewName: "Show A/Show A S01E01.mkv"},
	{OriginalName: "[Grp] Show A - 01.ass", NewName: "Show A/Show A S01E01.ass"},
}

func showAEnv(t *testing.T, proposals []organizer.Proposal) *cliTestEnv {
	t.Helper()
	return setupCLITestEnv(t, proposals,
		testsupport.WithSourceFiles("[Grp] Show A - 01.mkv", "[Grp] Show A - 01.ass"),
		testsupport.WithCategories("Show A"),
	)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "", "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "animelibrarian dev")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := showAEnv(t, nil)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireExists(t, target)

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestRunDryRunLeavesFilesInPlace(t *testing.T) {
	env := showAEnv(t, showAProposals)

	out, _, err := runCLI(t, []string{"--dry-run"}, env.configPath, "")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	requireContains(t, out, "Planned moves")
	requireContains(t, out, "Show A S01E01.mkv")
	requireContains(t, out, "Dry run complete")
	if strings.Contains(out, confirmPrompt) {
		t.Fatal("dry run must not prompt")
	}
	requireExists(t, filepath.Join(env.cfg.Paths.SourceDir, "[Grp] Show A - 01.mkv"))
	requireMissing(t, filepath.Join(env.cfg.Paths.TargetDir, "Show A", "Show A S01E01.mkv"))
}

func TestRunDeclinedPromptMovesNothing(t *testing.T) {
	env := showAEnv(t, showAProposals)

	out, _, err := runCLI(t, nil, env.configPath, "n\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, confirmPrompt)
	requireContains(t, out, "Cancelled")
	requireExists(t, filepath.Join(env.cfg.Paths.SourceDir, "[Grp] Show A - 01.mkv"))
}

func TestRunConfirmedPromptMovesFiles(t *testing.T) {
	env := showAEnv(t, showAProposals)

	out, _, err := runCLI(t, nil, env.configPath, "yes\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Summary")
	requireExists(t, filepath.Join(env.cfg.Paths.TargetDir, "Show A", "Show A S01E01.mkv"))
	requireExists(t, filepath.Join(env.cfg.Paths.TargetDir, "Show A", "Show A S01E01.ass"))
	requireMissing(t, filepath.Join(env.cfg.Paths.SourceDir, "[Grp] Show A - 01.mkv"))
}

func TestRunFailedMoveExitsWithError(t *testing.T) {
	env := showAEnv(t, showAProposals)
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.TargetDir, "Show A", "Show A S01E01.mkv"), 1)

	out, _, err := runCLI(t, []string{"--yes"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected error when a move fails")
	}
	requireContains(t, err.Error(), "1 of 2 move(s) failed")
	requireContains(t, out, "Failed moves")
	requireExists(t, filepath.Join(env.cfg.Paths.SourceDir, "[Grp] Show A - 01.mkv"))
	requireExists(t, filepath.Join(env.cfg.Paths.TargetDir, "Show A", "Show A S01E01.ass"))
}

func TestRunJSONOutput(t *testing.T) {
	env := showAEnv(t, append([]organizer.Proposal{
		{OriginalName: "ghost.mkv", NewName: "Show A/ghost.mkv"},
	}, showAProposals...))

	out, _, err := runCLI(t, []string{"--dry-run", "--format", "json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var view reportView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode json output: %v\n%s", err, out)
	}
	if view.Outcome != "dry_run" || !view.DryRun {
		t.Fatalf("unexpected outcome %q dry_run=%v", view.Outcome, view.DryRun)
	}
	if len(view.Moves) != 2 {
		t.Fatalf("expected two moves, got %d", len(view.Moves))
	}
	for _, move := range view.Moves {
		if move.Status != "skipped" {
			t.Fatalf("expected skipped status in dry run, got %q", move.Status)
		}
	}
	if len(view.Rejected) != 1 || view.Rejected[0].Reason != string(organizer.ReasonUnknownSource) {
		t.Fatalf("unexpected rejected list %+v", view.Rejected)
	}
	if view.Summary == nil || view.Summary.Skipped != 2 {
		t.Fatalf("unexpected summary %+v", view.Summary)
	}
}

func TestRunNDJSONOutput(t *testing.T) {
	env := showAEnv(t, showAProposals)

	out, stderr, err := runCLI(t, []string{"--format", "ndjson"}, env.configPath, "y\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, stderr, confirmPrompt)

	var events []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var event struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("decode line %q: %v", scanner.Text(), err)
		}
		events = append(events, event.Event)
	}
	want := []string{"move", "move", "result", "result", "outcome"}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected events %v, want %v", events, want)
	}
}

func TestRunConflictAbortsWithError(t *testing.T) {
	env := showAEnv(t, []organizer.Proposal{
		{OriginalName: "[Grp] Show A - 01.mkv", NewName: "Show A/Episode.mkv"},
		{OriginalName: "[Grp] Show A - 01.ass", NewName: "Show A/Episode.mkv"},
	})

	out, _, err := runCLI(t, []string{"--yes"}, env.configPath, "")
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	requireContains(t, out, "Conflicting proposals")
	requireContains(t, out, "No files were moved.")
	requireExists(t, filepath.Join(env.cfg.Paths.SourceDir, "[Grp] Show A - 01.mkv"))
}

func TestRunWithoutMediaFilesSkipsWorkflow(t *testing.T) {
	env := setupCLITestEnv(t, showAProposals,
		testsupport.WithSourceFiles("readme.txt"),
		testsupport.WithCategories("Show A"),
	)

	out, _, err := runCLI(t, nil, env.configPath, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "No media files found")
	if env.calls.Load() != 0 {
		t.Fatalf("expected no workflow calls, got %d", env.calls.Load())
	}
}

func TestRunPathFlagsOverrideConfig(t *testing.T) {
	env := showAEnv(t, showAProposals)
	other := testsupport.NewConfig(t,
		testsupport.WithSourceFiles("readme.txt"),
		testsupport.WithCategories("Elsewhere"),
	)

	out, _, err := runCLI(t, []string{"--source", other.Paths.SourceDir, "--target", other.Paths.TargetDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "No media files found in "+other.Paths.SourceDir)
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	env := showAEnv(t, showAProposals)

	_, _, err := runCLI(t, []string{"--format", "xml"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	requireContains(t, err.Error(), "unsupported --format")
}

func TestCheckCommand(t *testing.T) {
	env := showAEnv(t, nil)

	out, _, err := runCLI(t, []string{"check", "--offline"}, env.configPath, "")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "Source directory")
	requireContains(t, out, "[OK]")

	out, _, err = runCLI(t, []string{"check", "--offline", "--target", filepath.Join(t.TempDir(), "missing")}, env.configPath, "")
	if err == nil {
		t.Fatal("expected check to fail for a missing target")
	}
	requireContains(t, out, "does not exist")
}
