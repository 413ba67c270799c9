package preflight

import (
	"context"

	"istoki/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Optional results never block a build.
	Optional bool
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckInput(cfg.Paths.Input),
		CheckDirectoryAccess("Dist directory", cfg.Paths.DistDir),
		CheckDirectoryAccess("Docs directory", cfg.Paths.DocsDir),
	}

	if cfg.Publish.History {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}

	if cfg.Notifications.NtfyTopic != "" {
		ntfy := CheckNtfy(ctx, cfg.Notifications.NtfyTopic)
		ntfy.Optional = true
		results = append(results, ntfy)
	}

	return results
}

// Blocking reports whether any required check failed.
func Blocking(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}
