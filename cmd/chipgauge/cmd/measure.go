package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/chipgauge/internal/measure"
	"github.com/MeKo-Tech/chipgauge/internal/utils"
)

const (
	outputFormatJSON = "json"
	outputFormatText = "text"
)

// newMeasureCmd builds the measure command.
func newMeasureCmd() *cobra.Command {
	measureCmd := &cobra.Command{
		Use:   "measure <image>",
		Short: "Measure a chip package in a single image",
		Long: `Measure the package body dimensions and pin locations in one image.

Supported formats: JPEG, PNG, BMP

Examples:
  chipgauge measure chip.png --mm-per-pixel 0.05
  chipgauge measure chip.png --focal-length 4 --sensor-height 6 --camera-height 200
  chipgauge measure chip.png --format json --output result.json
  chipgauge measure chip.png --annotated out.png`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runMeasure,
	}

	measureCmd.Flags().String("format", "", "output format (text, json)")
	measureCmd.Flags().StringP("output", "o", "", "write result to file instead of stdout")
	measureCmd.Flags().String("annotated", "", "save annotated PNG to this path")
	measureCmd.Flags().Bool("pins", true, "locate pins along the package edges")

	return measureCmd
}

func runMeasure(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}
	validFormats := []string{outputFormatText, outputFormatJSON}
	if format != outputFormatText && format != outputFormatJSON {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)",
			format, strings.Join(validFormats, ", "))
	}

	outputFile := cfg.Output.File
	if cmd.Flags().Changed("output") {
		outputFile, _ = cmd.Flags().GetString("output")
	}

	annotatedPath, _ := cmd.Flags().GetString("annotated")

	opts := cfg.Measure
	if cmd.Flags().Changed("pins") {
		opts.LocatePins, _ = cmd.Flags().GetBool("pins")
	}
	opts.Visualize = annotatedPath != ""

	res, err := measure.MeasureFile(args[0], cfg.Calibration.ToModel(), opts)
	if err != nil {
		return err
	}

	if annotatedPath != "" {
		if err := utils.SavePNG(annotatedPath, res.Visualization); err != nil {
			return fmt.Errorf("failed to save annotated image: %w", err)
		}
	}

	var rendered string
	if format == outputFormatJSON {
		data, err := res.MarshalIndent()
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		rendered = string(data) + "\n"
	} else {
		rendered = formatMeasureText(args[0], res)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(rendered), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
	return err
}

// formatMeasureText renders a human-readable measurement summary.
func formatMeasureText(path string, res *measure.Result) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s\n", path))
	b.WriteString(fmt.Sprintf("width: %.3f mm (%.1f px)\n", res.WidthMM, res.WidthPx))
	b.WriteString(fmt.Sprintf("height: %.3f mm (%.1f px)\n", res.HeightMM, res.HeightPx))
	b.WriteString(fmt.Sprintf("area: %.3f mm2\n", res.AreaMM2))
	b.WriteString(fmt.Sprintf("angle: %.1f deg\n", res.Angle))
	b.WriteString(fmt.Sprintf("center: (%.1f, %.1f)\n", res.Center.X, res.Center.Y))
	b.WriteString(fmt.Sprintf("strategy: %s\n", res.Strategy))
	b.WriteString(fmt.Sprintf("confidence: %s\n", res.Confidence))
	b.WriteString(fmt.Sprintf("pins: %d (estimated total %d, best side %s)\n",
		len(res.Pins), res.PinEstimate.TotalPins, res.PinEstimate.BestSide))
	for _, pin := range res.Pins {
		b.WriteString(fmt.Sprintf("  pin %d: (%.1f, %.1f) %s\n", pin.Index, pin.X, pin.Y, pin.Side))
	}
	return b.String()
}
