package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/chipgauge/internal/measure"
)

// FormatResults formats the batch processing results in the specified format.
func (r *Result) FormatResults(format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(r.Items)
	case "csv":
		return formatCSV(r.Items)
	default: // text
		return formatText(r.Items)
	}
}

// formatJSON formats results as JSON.
func formatJSON(items []ItemResult) (string, error) {
	type fileEntry struct {
		File        string              `json:"file"`
		Measurement *measure.ResultJSON `json:"measurement,omitempty"`
		Error       string              `json:"error,omitempty"`
	}

	out := struct {
		Images []fileEntry `json:"images"`
	}{Images: make([]fileEntry, len(items))}

	for i, item := range items {
		entry := fileEntry{File: item.Path}
		if item.Err != nil {
			entry.Error = item.Err.Error()
		} else if item.Result != nil {
			m := item.Result.ToJSON()
			entry.Measurement = &m
		}
		out.Images[i] = entry
	}

	bts, err := json.MarshalIndent(out, "", "  ")
	return string(bts), err
}

// formatCSV formats results as CSV.
func formatCSV(items []ItemResult) (string, error) {
	csvData := [][]string{{
		"file", "width_mm", "height_mm", "area_mm2", "angle_degrees",
		"pin_count", "strategy", "confidence", "error",
	}}

	for _, item := range items {
		if item.Err != nil {
			csvData = append(csvData, []string{
				item.Path, "0", "0", "0", "0", "0", "", "", item.Err.Error(),
			})
			continue
		}
		res := item.Result
		csvData = append(csvData, []string{
			item.Path,
			fmt.Sprintf("%.3f", res.WidthMM),
			fmt.Sprintf("%.3f", res.HeightMM),
			fmt.Sprintf("%.3f", res.AreaMM2),
			fmt.Sprintf("%.1f", res.Angle),
			strconv.Itoa(len(res.Pins)),
			res.Strategy,
			string(res.Confidence),
			"",
		})
	}

	var output strings.Builder
	writer := csv.NewWriter(&output)
	for _, row := range csvData {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), nil
}

// formatText formats results as plain text.
func formatText(items []ItemResult) (string, error) {
	var output strings.Builder
	for i, item := range items {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(fmt.Sprintf("# %s\n", item.Path))
		if item.Err != nil {
			output.WriteString(fmt.Sprintf("error: %v\n", item.Err))
			continue
		}
		res := item.Result
		output.WriteString(fmt.Sprintf("width: %.3f mm\n", res.WidthMM))
		output.WriteString(fmt.Sprintf("height: %.3f mm\n", res.HeightMM))
		output.WriteString(fmt.Sprintf("angle: %.1f deg\n", res.Angle))
		output.WriteString(fmt.Sprintf("pins: %d\n", len(res.Pins)))
		output.WriteString(fmt.Sprintf("confidence: %s\n", res.Confidence))
	}
	return output.String(), nil
}
