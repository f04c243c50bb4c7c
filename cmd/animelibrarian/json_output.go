package main

import (
	"encoding/json"
	"errors"
	"io"

	"animelibrarian/internal/librarian"
	"animelibrarian/internal/organizer"
)

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type moveView struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Kind        string `json:"kind"`
	NewCategory bool   `json:"new_category"`
	Status      string `json:"status,omitempty"`
	Error       string `json:"error,omitempty"`
}

type rejectedView struct {
	OriginalName string `json:"original_name"`
	NewName      string `json:"new_name"`
	Reason       string `json:"reason"`
	Detail       string `json:"detail"`
}

type conflictView struct {
	Kind         string   `json:"kind"`
	Path         string   `json:"path"`
	Sources      []string `json:"sources"`
	Destinations []string `json:"destinations"`
}

type reportView struct {
	RunID                string               `json:"run_id,omitempty"`
	Outcome              string               `json:"outcome"`
	Reason               string               `json:"reason,omitempty"`
	Error                string               `json:"error,omitempty"`
	DryRun               bool                 `json:"dry_run"`
	SourceDir            string               `json:"source_dir,omitempty"`
	TargetDir            string               `json:"target_dir,omitempty"`
	Moves                []moveView           `json:"moves"`
	Rejected             []rejectedView       `json:"rejected"`
	Ignored              []organizer.Proposal `json:"ignored"`
	NewDirectories       []string             `json:"new_directories"`
	ExistingDestinations []string             `json:"existing_destinations"`
	Conflicts            []conflictView       `json:"conflicts,omitempty"`
	Summary              *organizer.Summary   `json:"summary,omitempty"`
}

const outcomeFailed = "failed"

func newMoveView(move organizer.ValidatedMove) moveView {
	return moveView{
		Source:      move.SourceName,
		Destination: move.Destination(),
		Kind:        string(move.Kind),
		NewCategory: move.NewCategory,
	}
}

func newResultView(result organizer.MoveResult) moveView {
	view := newMoveView(result.Move)
	view.Status = string(result.Status)
	view.Error = result.Reason()
	return view
}

func newRejectedView(rejected *organizer.ValidationError) rejectedView {
	return rejectedView{
		OriginalName: rejected.Proposal.OriginalName,
		NewName:      rejected.Proposal.NewName,
		Reason:       string(rejected.Reason),
		Detail:       rejected.Detail,
	}
}

func newConflictViews(err error) []conflictView {
	var conflictErr *organizer.PlanConflictError
	if !errors.As(err, &conflictErr) {
		return nil
	}
	views := make([]conflictView, 0, len(conflictErr.Conflicts))
	for _, c := range conflictErr.Conflicts {
		views = append(views, conflictView{
			Kind:         string(c.Kind),
			Path:         c.Path,
			Sources:      c.Sources,
			Destinations: c.Destinations,
		})
	}
	return views
}

// newReportView flattens a run report. Moves carry their status once the plan
// has been executed.
func newReportView(report *librarian.Report, runErr error) reportView {
	view := reportView{
		Moves:                []moveView{},
		Rejected:             []rejectedView{},
		Ignored:              []organizer.Proposal{},
		NewDirectories:       []string{},
		ExistingDestinations: []string{},
		Conflicts:            newConflictViews(runErr),
	}
	if runErr != nil {
		view.Outcome = outcomeFailed
		view.Error = runErr.Error()
	}
	if report == nil {
		return view
	}

	view.RunID = report.RunID
	view.DryRun = report.DryRun
	view.SourceDir = report.SourceDir
	view.TargetDir = report.TargetDir
	view.Reason = report.Reason
	if runErr == nil {
		view.Outcome = string(report.Outcome)
	}

	if len(report.Results) > 0 {
		for _, result := range report.Results {
			view.Moves = append(view.Moves, newResultView(result))
		}
		summary := report.Summary
		view.Summary = &summary
	} else {
		for _, move := range report.Preview.Plan.Moves {
			view.Moves = append(view.Moves, newMoveView(move))
		}
	}
	for _, rejected := range report.Match.Unmatched {
		view.Rejected = append(view.Rejected, newRejectedView(rejected))
	}
	view.Ignored = append(view.Ignored, report.Match.Ignored...)
	view.NewDirectories = append(view.NewDirectories, report.Preview.NewDirectories...)
	view.ExistingDestinations = append(view.ExistingDestinations, report.Preview.ExistingDestinations...)
	return view
}
