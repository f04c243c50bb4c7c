package librarian

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"animelibrarian/internal/config"
	"animelibrarian/internal/logging"
	"animelibrarian/internal/media"
	"animelibrarian/internal/organizer"
	"animelibrarian/internal/preflight"
	"animelibrarian/internal/scan"
	"animelibrarian/internal/services"
)

// Proposer returns rename proposals for the scanned names.
type Proposer interface {
	Propose(ctx context.Context, files, directories []string) ([]organizer.Proposal, error)
}

// Presenter shows a run to the user.
type Presenter interface {
	// Plan is called once the plan is known, before confirmation.
	Plan(report *Report)
	// Confirm asks whether to apply the plan.
	Confirm(ctx context.Context) (bool, error)
	// MoveDone is called for each move result as it happens.
	MoveDone(result organizer.MoveResult)
}

// Options controls one run.
type Options struct {
	DryRun bool
	// AssumeYes skips the confirmation prompt.
	AssumeYes bool
}

// ErrLocked is returned when another run holds the lock.
var ErrLocked = errors.New("another animelibrarian run is in progress")

// Librarian wires the run stages together.
type Librarian struct {
	cfg       *config.Config
	proposer  Proposer
	presenter Presenter
	executor  *organizer.Executor
	logger    *slog.Logger
	newRunID  func() string
}

// New constructs a librarian. A nil presenter renders nothing and declines
// confirmation, so only dry runs and AssumeYes runs move files.
func New(cfg *config.Config, proposer Proposer, presenter Presenter, logger *slog.Logger) *Librarian {
	if presenter == nil {
		presenter = nopPresenter{}
	}
	return &Librarian{
		cfg:       cfg,
		proposer:  proposer,
		presenter: presenter,
		executor:  organizer.NewExecutor(logger),
		logger:    logging.NewComponentLogger(logger, "librarian"),
		newRunID:  uuid.NewString,
	}
}

// Run performs one organize pass. The returned report is non-nil whenever
// scanning started, including when an error aborts planning.
func (l *Librarian) Run(ctx context.Context, opts Options) (*Report, error) {
	if l.cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "start", "configuration unavailable", nil)
	}
	if l.proposer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "start", "workflow client unavailable", nil)
	}
	if err := l.cfg.ValidateRunPaths(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "paths", "", err)
	}

	unlock, err := l.acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	runID := l.newRunID()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, l.logger)

	if failed := preflight.Failed(preflight.RunAll(ctx, l.cfg, false)); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, r := range failed {
			details = append(details, r.Name+": "+r.Detail)
		}
		return nil, services.Wrap(services.ErrConfiguration, "preflight", "check", strings.Join(details, "; "), nil)
	}

	report := &Report{
		RunID:     runID,
		SourceDir: l.cfg.Paths.SourceDir,
		TargetDir: l.cfg.Paths.TargetDir,
		DryRun:    opts.DryRun,
	}
	logger.Info("run started",
		logging.String("source_dir", report.SourceDir),
		logging.String("target_dir", report.TargetDir),
		logging.Bool("dry_run", opts.DryRun),
	)

	if err := l.scan(ctx, report); err != nil {
		return report, err
	}
	if report.Outcome == OutcomeNothingToDo {
		logger.Info("nothing to do", logging.String("reason", report.Reason))
		return report, nil
	}

	plan, err := l.plan(ctx, report)
	if err != nil {
		return report, err
	}
	if plan.Empty() {
		report.Outcome = OutcomeNothingToDo
		report.Reason = "No valid moves were proposed"
		l.presenter.Plan(report)
		return report, nil
	}

	preview, err := organizer.NewPreview(plan)
	if err != nil {
		return report, services.Wrap(services.ErrTransient, "plan", "preview", "probe destinations", err)
	}
	report.Preview = preview
	l.presenter.Plan(report)

	if !opts.DryRun && !opts.AssumeYes {
		ok, err := l.presenter.Confirm(ctx)
		if err != nil {
			return report, services.Wrap(services.ErrTransient, "confirm", "read answer", "", err)
		}
		if !ok {
			report.Outcome = OutcomeCancelled
			logger.Info("run cancelled by user")
			return report, nil
		}
	}

	report.Results = l.executor.Execute(ctx, plan, organizer.Options{
		DryRun:   opts.DryRun,
		OnResult: l.presenter.MoveDone,
	})
	report.Summary = organizer.Summarize(report.Results)
	report.Outcome = OutcomeCompleted
	if opts.DryRun {
		report.Outcome = OutcomeDryRun
	}
	logger.Info("run finished",
		logging.Int("moved", report.Summary.Moved),
		logging.Int("skipped", report.Summary.Skipped),
		logging.Int("failed", report.Summary.Failed),
	)
	return report, nil
}

func (l *Librarian) acquireLock() (func(), error) {
	if err := l.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "prepare directories", "", err)
	}
	lock := flock.New(l.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "run", "acquire lock", lock.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, lock.Path())
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			l.logger.Warn("failed to release run lock", logging.String("lock", lock.Path()), logging.Error(err))
		}
	}, nil
}

func (l *Librarian) scan(ctx context.Context, report *Report) error {
	logger := logging.WithContext(services.WithStage(ctx, "scan"), l.logger)

	files, err := scan.SourceFiles(report.SourceDir, l.cfg.Extensions())
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "scan", "read source directory", "", err)
	}
	categories, err := scan.Categories(report.TargetDir)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "scan", "read target directory", "", err)
	}
	report.Files = files
	report.Categories = categories
	logger.Debug("scan complete",
		logging.Int("files", len(files)),
		logging.Int("categories", len(categories)),
	)

	switch {
	case len(files) == 0:
		report.Outcome = OutcomeNothingToDo
		report.Reason = "No media files found in " + report.SourceDir
	case len(categories) == 0:
		report.Outcome = OutcomeNothingToDo
		report.Reason = "No target directories found in " + report.TargetDir
	}
	return nil
}

func (l *Librarian) plan(ctx context.Context, report *Report) (organizer.MovePlan, error) {
	proposeCtx := services.WithStage(ctx, "propose")
	proposals, err := l.proposer.Propose(proposeCtx, media.Names(report.Files), media.CategoryNames(report.Categories))
	if err != nil {
		marker := services.ErrExternalTool
		if isTimeout(err) {
			marker = services.ErrTimeout
		}
		return organizer.MovePlan{}, services.Wrap(marker, "propose", "workflow run", "", err)
	}

	logger := logging.WithContext(services.WithStage(ctx, "plan"), l.logger)
	matcher := organizer.Matcher{
		SourceDir:  report.SourceDir,
		TargetDir:  report.TargetDir,
		Extensions: l.cfg.Extensions(),
		Categories: report.Categories,
	}
	report.Match = matcher.Match(proposals, report.Files)
	for _, rejected := range report.Match.Unmatched {
		logger.Warn("proposal rejected",
			logging.String(logging.FieldSource, rejected.Proposal.OriginalName),
			logging.String(logging.FieldDestination, rejected.Proposal.NewName),
			logging.String("reason", string(rejected.Reason)),
			logging.String("detail", rejected.Detail),
		)
	}
	logger.Debug("proposals matched",
		logging.Int("proposals", len(proposals)),
		logging.Int("matched", len(report.Match.Matched)),
		logging.Int("unmatched", len(report.Match.Unmatched)),
		logging.Int("ignored", len(report.Match.Ignored)),
	)

	plan, err := organizer.Build(report.Match.Matched)
	if err != nil {
		logger.Error("move plan rejected", logging.Error(err))
		return organizer.MovePlan{}, err
	}
	return plan, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type nopPresenter struct{}

func (nopPresenter) Plan(*Report)                          {}
func (nopPresenter) Confirm(context.Context) (bool, error) { return false, nil }
func (nopPresenter) MoveDone(organizer.MoveResult)         {}
