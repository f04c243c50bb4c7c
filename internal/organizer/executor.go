package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"animelibrarian/internal/fsx"
	"animelibrarian/internal/logging"
	"animelibrarian/internal/services"
)

// MoveStatus is the state of one plan entry. Entries start pending and reach
// exactly one terminal state.
type MoveStatus string

const (
	StatusPending MoveStatus = "pending"
	StatusMoved   MoveStatus = "moved"
	StatusSkipped MoveStatus = "skipped"
	StatusFailed  MoveStatus = "failed"
)

// MoveError is the per-entry failure recorded by the executor.
type MoveError struct {
	Source      string
	Destination string
	Err         error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %q -> %q: %v", e.Source, e.Destination, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

func (e *MoveError) Is(target error) bool {
	return target == services.ErrMove
}

// MoveResult is the outcome of one plan entry.
type MoveResult struct {
	Move   ValidatedMove
	Status MoveStatus
	Err    error
}

// Reason returns the failure text, or "" when the entry did not fail.
func (r MoveResult) Reason() string {
	if r.Err == nil {
		return ""
	}
	var moveErr *MoveError
	if errors.As(r.Err, &moveErr) && moveErr.Err != nil {
		return moveErr.Err.Error()
	}
	return r.Err.Error()
}

// Options controls one execution.
type Options struct {
	DryRun bool
	// OnResult, when set, is called with each terminal result in plan order.
	OnResult func(MoveResult)
}

// Executor applies move plans to the filesystem.
type Executor struct {
	logger *slog.Logger
	move   func(src, dst string) error
}

// NewExecutor returns an executor that moves with fsx.MoveFile.
func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{
		logger: logging.NewComponentLogger(logger, "executor"),
		move:   fsx.MoveFile,
	}
}

// Execute applies plan in order and returns one result per entry. A failed
// entry never stops the remaining entries, and earlier moves are not undone.
func (e *Executor) Execute(ctx context.Context, plan MovePlan, opts Options) []MoveResult {
	results := make([]MoveResult, 0, plan.Len())
	if plan.Empty() {
		return results
	}
	logger := logging.WithContext(services.WithStage(ctx, "move"), e.logger)

	for _, move := range plan.Moves {
		result := MoveResult{Move: move, Status: StatusPending}
		switch {
		case opts.DryRun:
			result.Status = StatusSkipped
			logger.Debug("dry run; move skipped",
				logging.String(logging.FieldSource, move.SourceName),
				logging.String(logging.FieldDestination, move.Destination()),
			)
		default:
			if err := e.move(move.SourcePath, move.DestinationPath); err != nil {
				result.Status = StatusFailed
				result.Err = &MoveError{Source: move.SourcePath, Destination: move.DestinationPath, Err: err}
				logger.Warn("move failed",
					logging.String(logging.FieldSource, move.SourceName),
					logging.String(logging.FieldDestination, move.Destination()),
					logging.Bool("cross_device", fsx.IsCrossDevice(err)),
					logging.Error(err),
				)
			} else {
				result.Status = StatusMoved
				logger.Info("moved",
					logging.String(logging.FieldSource, move.SourceName),
					logging.String(logging.FieldDestination, move.Destination()),
				)
			}
		}
		results = append(results, result)
		if opts.OnResult != nil {
			opts.OnResult(result)
		}
	}
	return results
}

// Summary counts terminal states of an execution.
type Summary struct {
	Total   int `json:"total"`
	Moved   int `json:"moved"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// HasFailures reports whether any entry failed.
func (s Summary) HasFailures() bool { return s.Failed > 0 }

// Summarize tallies results.
func Summarize(results []MoveResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusMoved:
			s.Moved++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}
