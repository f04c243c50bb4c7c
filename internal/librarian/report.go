package librarian

import (
	"animelibrarian/internal/media"
	"animelibrarian/internal/organizer"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeDryRun      Outcome = "dry_run"
	OutcomeCancelled   Outcome = "cancelled"
	OutcomeNothingToDo Outcome = "nothing_to_do"
)

// Report collects everything a run observed and did.
type Report struct {
	RunID      string
	SourceDir  string
	TargetDir  string
	DryRun     bool
	Files      []media.FileEntry
	Categories []media.CategoryDirectory
	Match      organizer.MatchResult
	Preview    organizer.Preview
	Results    []organizer.MoveResult
	Summary    organizer.Summary
	Outcome    Outcome
	// Reason explains an OutcomeNothingToDo.
	Reason string
}

// Failed reports whether any move failed.
func (r *Report) Failed() bool {
	return r != nil && r.Summary.HasFailures()
}
