package main

import (
	"fmt"
	"io"
	"strconv"

	"istoki/internal/catalog"
	"istoki/internal/pipeline"
	"istoki/internal/stage"
)

const ruleColumnWidth = 60

func renderFailures(w io.Writer, failures catalog.Failures, colorize bool) {
	title := fmt.Sprintf("Validation failed: %d problem(s)", len(failures))
	printLines(w, renderSectionHeader(title, colorize)...)

	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		row := "-"
		if f.Row > 0 {
			row = strconv.Itoa(f.Row)
		}
		rows = append(rows, []string{f.Table, row, string(f.Kind), f.Field, f.Key, f.Rule})
	}
	fmt.Fprintln(w, renderTable(tableSpec{
		headers:   []string{"Table", "Row", "Kind", "Field", "Key", "Rule"},
		rows:      rows,
		aligns:    []columnAlignment{alignLeft, alignRight},
		maxWidths: []int{0, 0, 0, 0, 0, ruleColumnWidth},
	}))
}

func renderWarnings(w io.Writer, warnings []catalog.Warning, colorize bool) {
	for _, warning := range warnings {
		fmt.Fprintln(w, renderStatusLine(warning.Kind, statusWarn, fmt.Sprintf("%q %s", warning.Key, warning.Detail), colorize))
	}
}

func renderCatalogLines(w io.Writer, summary *pipeline.Summary, colorize bool) {
	fmt.Fprintln(w, renderStatusLine("Build", statusInfo, summary.BuildID, colorize))
	fmt.Fprintln(w, renderStatusLine("Input", statusInfo, summary.Input, colorize))
	if summary.Catalog == nil {
		return
	}
	meta := summary.Catalog.Meta
	fmt.Fprintln(w, renderStatusLine("Catalog version", statusInfo, strconv.Itoa(meta.CatalogVersion), colorize))
	fmt.Fprintln(w, renderStatusLine("Songs", statusOK, strconv.Itoa(summary.Catalog.SongCount()), colorize))
	if meta.BaseMediaURL == "" {
		fmt.Fprintln(w, renderStatusLine("Base media URL", statusWarn, "empty in meta sheet", colorize))
	} else {
		fmt.Fprintln(w, renderStatusLine("Base media URL", statusInfo, meta.BaseMediaURL, colorize))
	}
}

func renderBuildSummary(w io.Writer, summary *pipeline.Summary, colorize bool) {
	printLines(w, renderSectionHeader("Catalog build", colorize)...)
	renderCatalogLines(w, summary, colorize)
	renderWarnings(w, summary.Warnings, colorize)

	result := summary.Publish
	if result == nil {
		return
	}
	fmt.Fprintln(w, renderStatusLine("Published at", statusInfo, result.Manifest.PublishedAt, colorize))
	fmt.Fprintln(w, renderStatusLine("Status", statusOK, statusMessage(summary.Status), colorize))

	rows := make([][]string, 0, len(result.Artifacts))
	for _, artifact := range result.Artifacts {
		target := artifact.DocsPath
		if result.DryRun {
			target += " (not written)"
		}
		rows = append(rows, []string{artifact.Name, strconv.Itoa(artifact.Size), target})
	}
	fmt.Fprintln(w, renderTable(tableSpec{
		headers: []string{"File", "Bytes", "Path"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignRight, alignLeft},
	}))
}

func statusMessage(status stage.Status) string {
	switch status {
	case stage.StatusPublished:
		return "published"
	case stage.StatusUnchanged:
		return "unchanged since last publish"
	case stage.StatusDryRun:
		return "dry run, nothing written"
	default:
		return string(status)
	}
}
