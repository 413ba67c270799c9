package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"istoki/internal/config"
	"istoki/internal/preflight"
	"istoki/internal/publish"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the build environment and show the published catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			colorize := shouldColorize(w)

			results := preflight.RunAll(cmd.Context(), cfg)
			printLines(w, renderSectionHeader("Environment", colorize)...)
			for _, r := range results {
				printLines(w, preflightStatusLine(r, colorize))
			}

			fmt.Fprintln(w)
			printLines(w, renderSectionHeader("Catalog", colorize)...)
			printLines(w, publishedStatusLine(cfg, colorize))
			printLines(w, lastBuildStatusLine(cmd, ctx, colorize))

			if preflight.Blocking(results) {
				return errors.New("environment checks failed")
			}
			return nil
		},
	}
}

func preflightStatusLine(r preflight.Result, colorize bool) string {
	switch {
	case r.Passed:
		return renderStatusLine(r.Name, statusOK, r.Detail, colorize)
	case r.Optional:
		return renderStatusLine(r.Name, statusWarn, r.Detail, colorize)
	default:
		return renderStatusLine(r.Name, statusError, r.Detail, colorize)
	}
}

func publishedStatusLine(cfg *config.Config, colorize bool) string {
	manifest, err := publish.ReadManifest(filepath.Join(cfg.Paths.DocsDir, cfg.Publish.ManifestFile))
	switch {
	case err != nil:
		return renderStatusLine("Published", statusError, err.Error(), colorize)
	case manifest == nil:
		return renderStatusLine("Published", statusInfo, "Nothing published yet", colorize)
	default:
		return renderStatusLine("Published", statusOK,
			fmt.Sprintf("v%d at %s", manifest.CatalogVersion, manifest.PublishedAt), colorize)
	}
}

func lastBuildStatusLine(cmd *cobra.Command, ctx *commandContext, colorize bool) string {
	store, err := ctx.openHistory()
	if err != nil {
		return renderStatusLine("Last publish", statusWarn, err.Error(), colorize)
	}
	if store == nil {
		return renderStatusLine("Last publish", statusInfo, "History disabled", colorize)
	}
	defer store.Close()

	entry, err := store.LastPublished(cmd.Context())
	if err != nil {
		return renderStatusLine("Last publish", statusWarn, err.Error(), colorize)
	}
	if entry == nil {
		return renderStatusLine("Last publish", statusInfo, "No builds recorded", colorize)
	}
	return renderStatusLine("Last publish", statusOK,
		fmt.Sprintf("build %s, %d songs, %s", shortID(entry.BuildID), entry.SongCount, entry.FinishedAt.Local().Format("2006-01-02 15:04")), colorize)
}
