package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"animelibrarian/internal/librarian"
	"animelibrarian/internal/organizer"
)

const confirmPrompt = "Continue with the file moves? (y/n) "

// presenter renders a run in the selected output format and asks for
// confirmation on the prompt writer.
type presenter struct {
	out      io.Writer
	prompt   io.Writer
	in       *bufio.Reader
	format   outputFormat
	colorize bool
	events   *json.Encoder
	err      error
}

func newPresenter(out, errOut io.Writer, in io.Reader, format outputFormat, colorize bool) *presenter {
	p := &presenter{
		out:      out,
		prompt:   out,
		in:       bufio.NewReader(in),
		format:   format,
		colorize: colorize && !format.machineReadable(),
	}
	if format.machineReadable() {
		p.prompt = errOut
	}
	if format == formatNDJSON {
		p.events = json.NewEncoder(out)
	}
	return p
}

type ndjsonEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func (p *presenter) emit(event string, data any) {
	if p.err != nil {
		return
	}
	p.err = p.events.Encode(ndjsonEvent{Event: event, Data: data})
}

func (p *presenter) println(lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(p.out, line)
	}
}

// Plan shows what the run intends to do.
func (p *presenter) Plan(report *librarian.Report) {
	switch p.format {
	case formatJSON:
		return
	case formatNDJSON:
		for _, move := range report.Preview.Plan.Moves {
			p.emit("move", newMoveView(move))
		}
		for _, rejected := range report.Match.Unmatched {
			p.emit("rejected", newRejectedView(rejected))
		}
		for _, ignored := range report.Match.Ignored {
			p.emit("ignored", ignored)
		}
		for _, dir := range report.Preview.NewDirectories {
			p.emit("new_directory", dir)
		}
		for _, dest := range report.Preview.ExistingDestinations {
			p.emit("existing_destination", dest)
		}
	case formatPlain:
		p.println(renderPlanPlain(report)...)
	default:
		p.println(renderPlanTable(report, p.colorize)...)
	}
}

// Confirm reads one answer line; only y or yes proceeds.
func (p *presenter) Confirm(ctx context.Context) (bool, error) {
	fmt.Fprint(p.prompt, confirmPrompt)

	type answer struct {
		line string
		err  error
	}
	answers := make(chan answer, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		answers <- answer{line: line, err: err}
	}()

	// On cancellation the reader goroutine stays blocked on stdin; the process
	// exits right after, so it is not drained.
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.prompt)
		return false, ctx.Err()
	case a := <-answers:
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return false, a.err
		}
		if errors.Is(a.err, io.EOF) {
			fmt.Fprintln(p.prompt)
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// MoveDone reports one executed entry. Dry-run skips are left to the summary.
func (p *presenter) MoveDone(result organizer.MoveResult) {
	switch p.format {
	case formatJSON:
	case formatNDJSON:
		p.emit("result", newResultView(result))
	default:
		if result.Status == organizer.StatusSkipped {
			return
		}
		p.println(renderResultLine(result, p.colorize))
	}
}

// Finish writes the closing output for the run and returns any write error.
func (p *presenter) Finish(report *librarian.Report, runErr error) error {
	switch p.format {
	case formatJSON:
		return writeJSON(p.out, newReportView(report, runErr))
	case formatNDJSON:
		for _, conflict := range newConflictViews(runErr) {
			p.emit("conflict", conflict)
		}
		view := newReportView(report, runErr)
		p.emit("outcome", struct {
			RunID   string             `json:"run_id,omitempty"`
			Outcome string             `json:"outcome"`
			Reason  string             `json:"reason,omitempty"`
			Error   string             `json:"error,omitempty"`
			Summary *organizer.Summary `json:"summary,omitempty"`
		}{view.RunID, view.Outcome, view.Reason, view.Error, view.Summary})
		return p.err
	case formatPlain:
		p.println(renderFinishPlain(report, runErr)...)
	default:
		p.println(renderFinishTable(report, runErr, p.colorize)...)
	}
	return p.err
}
