package main

import (
	"fmt"
	"strconv"

	"animelibrarian/internal/librarian"
	"animelibrarian/internal/organizer"
)

func moveNote(move organizer.ValidatedMove, existing map[string]struct{}) string {
	if _, ok := existing[move.DestinationPath]; ok {
		return "destination exists"
	}
	if move.NewCategory {
		return "new directory"
	}
	return ""
}

func existingSet(report *librarian.Report) map[string]struct{} {
	set := make(map[string]struct{}, len(report.Preview.ExistingDestinations))
	for _, path := range report.Preview.ExistingDestinations {
		set[path] = struct{}{}
	}
	return set
}

func renderPlanTable(report *librarian.Report, colorize bool) []string {
	var lines []string
	if moves := report.Preview.Plan.Moves; len(moves) > 0 {
		existing := existingSet(report)
		rows := make([][]string, 0, len(moves))
		for i, move := range moves {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				move.SourceName,
				move.Destination(),
				string(move.Kind),
				moveNote(move, existing),
			})
		}
		lines = append(lines, renderTable("Planned moves",
			[]string{"#", "Source", "Destination", "Kind", "Note"},
			rows,
			[]columnAlignment{alignRight},
		))
	}

	if rejected := report.Match.Unmatched; len(rejected) > 0 {
		rows := make([][]string, 0, len(rejected))
		for _, r := range rejected {
			rows = append(rows, []string{r.Proposal.OriginalName, r.Proposal.NewName, r.Detail})
		}
		lines = append(lines, "", renderTable("Rejected proposals",
			[]string{"Source", "Proposed", "Reason"}, rows, nil))
	}

	if ignored := report.Match.Ignored; len(ignored) > 0 {
		rows := make([][]string, 0, len(ignored))
		for _, proposal := range ignored {
			rows = append(rows, []string{proposal.OriginalName, proposal.NewName})
		}
		lines = append(lines, "", renderTable("Ignored (unsupported file type)",
			[]string{"Source", "Proposed"}, rows, nil))
	}

	if dirs := report.Preview.NewDirectories; len(dirs) > 0 {
		lines = append(lines, "")
		lines = append(lines, renderSectionHeader("Directories to create", colorize)...)
		for _, dir := range dirs {
			lines = append(lines, statusIndent+dir)
		}
	}

	if existing := report.Preview.ExistingDestinations; len(existing) > 0 {
		lines = append(lines, "")
		for _, dest := range existing {
			lines = append(lines, renderStatusLine("Destination exists", statusWarn, dest+" (move will fail)", colorize))
		}
	}

	if report.DryRun && !report.Preview.Plan.Empty() {
		lines = append(lines, "", "Dry run: no files will be moved.")
	}
	return lines
}

func renderPlanPlain(report *librarian.Report) []string {
	var lines []string
	for _, move := range report.Preview.Plan.Moves {
		line := fmt.Sprintf("move %s -> %s", move.SourceName, move.Destination())
		if move.NewCategory {
			line += " (new directory)"
		}
		lines = append(lines, line)
	}
	for _, r := range report.Match.Unmatched {
		lines = append(lines, fmt.Sprintf("rejected %s -> %s: %s", r.Proposal.OriginalName, r.Proposal.NewName, r.Detail))
	}
	for _, proposal := range report.Match.Ignored {
		lines = append(lines, fmt.Sprintf("ignored %s", proposal.OriginalName))
	}
	for _, dir := range report.Preview.NewDirectories {
		lines = append(lines, "mkdir "+dir)
	}
	for _, dest := range report.Preview.ExistingDestinations {
		lines = append(lines, "exists "+dest)
	}
	return lines
}

func renderResultLine(result organizer.MoveResult, colorize bool) string {
	line := fmt.Sprintf("%s %s -> %s", result.Status, result.Move.SourceName, result.Move.Destination())
	switch result.Status {
	case organizer.StatusMoved:
		return paint(line, ansiGreen, colorize)
	case organizer.StatusFailed:
		return paint(line+": "+result.Reason(), ansiRed, colorize)
	default:
		return line
	}
}

func renderConflictRows(runErr error) [][]string {
	views := newConflictViews(runErr)
	rows := make([][]string, 0, len(views))
	for _, c := range views {
		switch organizer.ConflictKind(c.Kind) {
		case organizer.ConflictDuplicateSource:
			for _, dest := range c.Destinations {
				rows = append(rows, []string{c.Kind, c.Sources[0], dest})
			}
		default:
			for _, src := range c.Sources {
				rows = append(rows, []string{c.Kind, src, c.Destinations[0]})
			}
		}
	}
	return rows
}

func renderFinishTable(report *librarian.Report, runErr error, colorize bool) []string {
	if rows := renderConflictRows(runErr); len(rows) > 0 {
		return []string{renderTable("Conflicting proposals",
			[]string{"Conflict", "Source", "Destination"}, rows, nil),
			"No files were moved."}
	}
	if report == nil || runErr != nil {
		return nil
	}

	switch report.Outcome {
	case librarian.OutcomeNothingToDo:
		return []string{report.Reason}
	case librarian.OutcomeCancelled:
		return []string{"Cancelled; no files were moved."}
	}

	s := report.Summary
	lines := []string{"", renderTable("Summary",
		[]string{"Total", "Moved", "Skipped", "Failed"},
		[][]string{{strconv.Itoa(s.Total), strconv.Itoa(s.Moved), strconv.Itoa(s.Skipped), strconv.Itoa(s.Failed)}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
	)}
	if s.HasFailures() {
		var rows [][]string
		for _, result := range report.Results {
			if result.Status == organizer.StatusFailed {
				rows = append(rows, []string{result.Move.SourceName, result.Move.Destination(), result.Reason()})
			}
		}
		lines = append(lines, renderTable("Failed moves", []string{"Source", "Destination", "Reason"}, rows, nil))
	}
	if report.Outcome == librarian.OutcomeDryRun {
		lines = append(lines, paint("Dry run complete; no files were moved.", ansiYellow, colorize))
	}
	return lines
}

func renderFinishPlain(report *librarian.Report, runErr error) []string {
	if rows := renderConflictRows(runErr); len(rows) > 0 {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, fmt.Sprintf("conflict %s: %s -> %s", row[0], row[1], row[2]))
		}
		return lines
	}
	if report == nil || runErr != nil {
		return nil
	}
	switch report.Outcome {
	case librarian.OutcomeNothingToDo:
		return []string{report.Reason}
	case librarian.OutcomeCancelled:
		return []string{"cancelled"}
	}
	s := report.Summary
	return []string{fmt.Sprintf("summary total=%d moved=%d skipped=%d failed=%d", s.Total, s.Moved, s.Skipped, s.Failed)}
}
