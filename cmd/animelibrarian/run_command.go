package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"animelibrarian/internal/config"
	"animelibrarian/internal/librarian"
	"animelibrarian/internal/logging"
	"animelibrarian/internal/services/workflow"
)

func runOrganize(cmd *cobra.Command, ctx *commandContext) error {
	format, err := parseOutputFormat(ctx.flags.format)
	if err != nil {
		return err
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg, ctx.flags.verbose, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Close()

	client := workflow.NewClient(workflow.Config{
		Endpoint:       cfg.Workflow.Endpoint,
		APIKey:         cfg.Workflow.APIKey,
		User:           cfg.Workflow.User,
		TimeoutSeconds: cfg.Workflow.TimeoutSeconds,
	}, workflow.WithRetryMaxAttempts(cfg.Workflow.RetryAttempts))

	out := cmd.OutOrStdout()
	p := newPresenter(out, cmd.ErrOrStderr(), cmd.InOrStdin(), format, shouldColorize(out))
	lib := librarian.New(cfg, client, p, logger.Logger)

	report, runErr := lib.Run(cmd.Context(), librarian.Options{
		DryRun:    ctx.flags.dryRun,
		AssumeYes: ctx.flags.yes,
	})
	if err := p.Finish(report, runErr); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if runErr != nil {
		if workflow.IsUnauthorized(runErr) {
			return fmt.Errorf("%w (check workflow.api_key or %s)", runErr, config.EnvWorkflowAPIKey)
		}
		return runErr
	}
	if report.Failed() {
		return fmt.Errorf("%d of %d move(s) failed", report.Summary.Failed, report.Summary.Total)
	}
	return nil
}
