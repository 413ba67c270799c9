package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"istoki/internal/history"
)

type historyJSON struct {
	BuildID        string `json:"buildId"`
	Status         string `json:"status"`
	Input          string `json:"input"`
	CatalogVersion int    `json:"catalogVersion,omitempty"`
	Songs          int    `json:"songs"`
	Warnings       int    `json:"warnings"`
	Failures       int    `json:"failures"`
	SongsSHA256    string `json:"songsSha256,omitempty"`
	PublishedAt    string `json:"publishedAt,omitempty"`
	StartedAt      string `json:"startedAt"`
	DurationMillis int64  `json:"durationMs"`
	Message        string `json:"message,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent catalog builds",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("build history is disabled (publish.history = false)")
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				out := make([]historyJSON, 0, len(entries))
				for _, e := range entries {
					out = append(out, toHistoryJSON(e))
				}
				return writeJSON(cmd, out)
			}

			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(w, "No builds recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.StartedAt.Local().Format("2006-01-02 15:04:05"),
					shortID(e.BuildID),
					string(e.Status),
					intOrDash(e.CatalogVersion),
					strconv.Itoa(e.SongCount),
					strconv.Itoa(e.WarningCount),
					strconv.Itoa(e.FailureCount),
					timeOrDash(e.PublishedAt),
				})
			}
			fmt.Fprintln(w, renderTable(tableSpec{
				headers: []string{"Started", "Build", "Status", "Version", "Songs", "Warnings", "Failures", "Published"},
				rows:    rows,
				aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
			}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "Number of builds to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the history as JSON")
	return cmd
}

func toHistoryJSON(e history.Entry) historyJSON {
	out := historyJSON{
		BuildID:        e.BuildID,
		Status:         string(e.Status),
		Input:          e.InputPath,
		CatalogVersion: e.CatalogVersion,
		Songs:          e.SongCount,
		Warnings:       e.WarningCount,
		Failures:       e.FailureCount,
		SongsSHA256:    e.SongsSHA256,
		StartedAt:      e.StartedAt.UTC().Format(time.RFC3339),
		DurationMillis: e.Duration().Milliseconds(),
		Message:        e.Message,
	}
	if !e.PublishedAt.IsZero() {
		out.PublishedAt = e.PublishedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func intOrDash(v int) string {
	if v == 0 {
		return "-"
	}
	return strconv.Itoa(v)
}

func timeOrDash(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
