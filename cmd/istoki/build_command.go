package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"istoki/internal/catalog"
	"istoki/internal/pipeline"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate the workbook and publish songs.json, latest.json and index.html",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(cmd, true, func(runner *pipeline.Runner) error {
				summary, err := runner.Build(cmd.Context(), opts)
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				if failures, ok := catalog.AsFailures(err); ok {
					renderFailures(out, failures, colorize)
					return fmt.Errorf("build rejected: %d validation failure(s)", len(failures))
				}
				if err != nil {
					return err
				}
				renderBuildSummary(out, summary, colorize)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Workbook (.xlsx) or CSV directory; overrides paths.input")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Fail when content changed without a catalogVersion bump")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Run every check but write no files")
	return cmd
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var opts pipeline.Options
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the workbook without publishing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(cmd, false, func(runner *pipeline.Runner) error {
				summary, err := runner.Validate(cmd.Context(), opts)
				failures, invalid := catalog.AsFailures(err)

				if jsonOutput {
					if writeErr := writeJSON(cmd, newValidationJSON(summary, err)); writeErr != nil {
						return writeErr
					}
					if invalid {
						return fmt.Errorf("validation failed: %d failure(s)", len(failures))
					}
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				if invalid {
					renderFailures(out, failures, colorize)
					return fmt.Errorf("validation failed: %d failure(s)", len(failures))
				}
				if err != nil {
					return err
				}
				printLines(out, renderSectionHeader("Workbook valid", colorize)...)
				renderCatalogLines(out, summary, colorize)
				renderWarnings(out, summary.Warnings, colorize)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Workbook (.xlsx) or CSV directory; overrides paths.input")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the report as JSON")
	return cmd
}
