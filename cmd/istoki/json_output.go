package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"istoki/internal/catalog"
	"istoki/internal/pipeline"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type failureJSON struct {
	Kind  string `json:"kind"`
	Table string `json:"table"`
	Row   int    `json:"row,omitempty"`
	Key   string `json:"key,omitempty"`
	Field string `json:"field,omitempty"`
	Rule  string `json:"rule"`
}

type warningJSON struct {
	Kind   string `json:"kind"`
	Key    string `json:"key"`
	Detail string `json:"detail"`
}

type validationJSON struct {
	Input          string        `json:"input"`
	Valid          bool          `json:"valid"`
	CatalogVersion int           `json:"catalogVersion,omitempty"`
	Songs          int           `json:"songs"`
	Failures       []failureJSON `json:"failures"`
	Warnings       []warningJSON `json:"warnings"`
	Error          string        `json:"error,omitempty"`
}

func newValidationJSON(summary *pipeline.Summary, err error) validationJSON {
	out := validationJSON{
		Valid:    err == nil,
		Failures: []failureJSON{},
		Warnings: []warningJSON{},
	}
	if summary != nil {
		out.Input = summary.Input
		if summary.Catalog != nil {
			out.CatalogVersion = summary.Catalog.Meta.CatalogVersion
			out.Songs = summary.Catalog.SongCount()
		}
		for _, w := range summary.Warnings {
			out.Warnings = append(out.Warnings, warningJSON{Kind: w.Kind, Key: w.Key, Detail: w.Detail})
		}
	}
	if failures, ok := catalog.AsFailures(err); ok {
		for _, f := range failures {
			out.Failures = append(out.Failures, failureJSON{
				Kind:  string(f.Kind),
				Table: f.Table,
				Row:   f.Row,
				Key:   f.Key,
				Field: f.Field,
				Rule:  f.Rule,
			})
		}
	} else if err != nil {
		out.Error = err.Error()
	}
	return out
}
