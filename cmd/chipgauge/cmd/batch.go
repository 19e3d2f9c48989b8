package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/chipgauge/internal/batch"
)

// newBatchCmd builds the batch command.
func newBatchCmd() *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch <path>...",
		Short: "Measure chip packages in many images",
		Long: `Measure every supported image under the given files or directories.

Examples:
  chipgauge batch ./scans --mm-per-pixel 0.05
  chipgauge batch ./scans --recursive --workers 8 --format csv --output results.csv
  chipgauge batch ./scans --annotated-dir ./annotated --continue-on-error`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE:         runBatch,
	}

	batchCmd.Flags().String("format", "", "output format (text, json, csv)")
	batchCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	batchCmd.Flags().Int("workers", 0, "number of parallel workers")
	batchCmd.Flags().Bool("continue-on-error", false, "keep going when individual images fail")
	batchCmd.Flags().BoolP("recursive", "r", false, "recurse into subdirectories")
	batchCmd.Flags().StringSlice("include", nil, "glob patterns of files to include")
	batchCmd.Flags().StringSlice("exclude", nil, "glob patterns of files to exclude")
	batchCmd.Flags().String("annotated-dir", "", "save annotated PNGs into this directory")
	batchCmd.Flags().BoolP("quiet", "q", false, "suppress progress output")
	batchCmd.Flags().Bool("stats", false, "print processing statistics")

	return batchCmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no input paths provided")
	}

	cfg := GetConfig()

	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}
	validFormats := []string{"text", "json", "csv"}
	valid := false
	for _, f := range validFormats {
		if format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)",
			format, strings.Join(validFormats, ", "))
	}

	workers := cfg.Batch.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}

	continueOnError := cfg.Batch.ContinueOnError
	if cmd.Flags().Changed("continue-on-error") {
		continueOnError, _ = cmd.Flags().GetBool("continue-on-error")
	}

	outputFile := cfg.Output.File
	if cmd.Flags().Changed("output") {
		outputFile, _ = cmd.Flags().GetString("output")
	}

	annotatedDir := cfg.Output.AnnotatedDir
	if cmd.Flags().Changed("annotated-dir") {
		annotatedDir, _ = cmd.Flags().GetString("annotated-dir")
	}

	recursive, _ := cmd.Flags().GetBool("recursive")
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	quiet, _ := cmd.Flags().GetBool("quiet")
	showStats, _ := cmd.Flags().GetBool("stats")

	opts := cfg.Measure
	opts.Visualize = annotatedDir != ""

	batchConfig := &batch.Config{
		Calibration:     cfg.Calibration.ToModel(),
		Options:         opts,
		Workers:         workers,
		ContinueOnError: continueOnError,
		Recursive:       recursive,
		IncludePatterns: include,
		ExcludePatterns: exclude,
		AnnotatedDir:    annotatedDir,
	}

	result, err := batch.ProcessBatch(args, batchConfig)
	if err != nil {
		return err
	}

	if err := result.SaveResults(format, outputFile, quiet); err != nil {
		return err
	}

	if showStats {
		result.PrintStats(quiet)
	}
	return nil
}
