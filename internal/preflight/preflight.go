package preflight

import (
	"context"

	"animelibrarian/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the preflight checks for the given config. The network
// probe of the workflow API only runs when online is set and a key exists.
func RunAll(ctx context.Context, cfg *config.Config, online bool) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Source directory", cfg.Paths.SourceDir),
		CheckDirectoryAccess("Target directory", cfg.Paths.TargetDir),
	}

	credentials := CheckWorkflowConfig(cfg)
	results = append(results, credentials)
	if online && credentials.Passed {
		results = append(results, CheckWorkflow(ctx, cfg.Workflow.Endpoint, cfg.Workflow.APIKey))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
