// Package batch measures whole directories of chip images with a worker
// pool, shared by the CLI batch command and the server.
package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/MeKo-Tech/chipgauge/internal/calibrate"
	"github.com/MeKo-Tech/chipgauge/internal/measure"
	"github.com/MeKo-Tech/chipgauge/internal/utils"
)

// Config holds all configuration for batch processing.
type Config struct {
	Calibration calibrate.Model
	Options     measure.Options

	// Parallel processing settings
	Workers         int
	ContinueOnError bool

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Output settings
	AnnotatedDir string
	Format       string
	OutputFile   string
	Quiet        bool
}

// ItemResult is the outcome for one image in a batch.
type ItemResult struct {
	Path     string
	Result   *measure.Result
	Err      error
	Duration time.Duration
}

// Result holds the result of batch processing.
type Result struct {
	Items       []ItemResult
	Duration    time.Duration
	WorkerCount int
}

// Failed counts the items that did not produce a measurement.
func (r *Result) Failed() int {
	n := 0
	for _, item := range r.Items {
		if item.Err != nil {
			n++
		}
	}
	return n
}

// ProcessBatch measures all images found under the given paths.
func ProcessBatch(paths []string, config *Config) (*Result, error) {
	filter := fileFilter{include: config.IncludePatterns, exclude: config.ExcludePatterns}
	files, err := discoverImageFiles(paths, config.Recursive, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to discover image files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}

	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	start := time.Now()
	items := processFilesParallel(files, config, workers)
	result := &Result{
		Items:       items,
		Duration:    time.Since(start),
		WorkerCount: workers,
	}

	if !config.ContinueOnError {
		for _, item := range items {
			if item.Err != nil {
				return nil, fmt.Errorf("batch processing failed on %s: %w", item.Path, item.Err)
			}
		}
	}

	return result, nil
}

// processFilesParallel measures the files with a fixed-size worker pool,
// keeping results in input order.
func processFilesParallel(files []string, config *Config, workers int) []ItemResult {
	items := make([]ItemResult, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				items[i] = processSingleImage(files[i], config)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return items
}

// processSingleImage measures one file and optionally saves its annotated
// rendering.
func processSingleImage(path string, config *Config) ItemResult {
	item := ItemResult{Path: path}
	start := time.Now()
	defer func() { item.Duration = time.Since(start) }()

	res, err := measure.MeasureFile(path, config.Calibration, config.Options)
	if err != nil {
		slog.Warn("measurement failed", "file", path, "error", err)
		item.Err = err
		return item
	}
	item.Result = res

	if config.AnnotatedDir != "" && res.Visualization != nil {
		base := filepath.Base(path)
		outPath := filepath.Join(config.AnnotatedDir,
			strings.TrimSuffix(base, filepath.Ext(base))+"_annotated.png")
		if err := utils.SavePNG(outPath, res.Visualization); err != nil {
			slog.Warn("failed to save annotated image", "file", outPath, "error", err)
		}
	}

	return item
}

// SaveResults saves the formatted results to a file or stdout.
func (r *Result) SaveResults(format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
		}
	} else {
		_, _ = fmt.Fprint(os.Stdout, output)
	}

	return nil
}

// PrintStats prints processing statistics.
func (r *Result) PrintStats(quiet bool) {
	if quiet {
		return
	}
	failed := r.Failed()
	_, _ = fmt.Fprintf(os.Stdout, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(os.Stdout, "  Total images: %d\n", len(r.Items))
	_, _ = fmt.Fprintf(os.Stdout, "  Processed: %d\n", len(r.Items)-failed)
	_, _ = fmt.Fprintf(os.Stdout, "  Failed: %d\n", failed)
	_, _ = fmt.Fprintf(os.Stdout, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(os.Stdout, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	if len(r.Items) > 0 {
		avg := r.Duration / time.Duration(len(r.Items))
		_, _ = fmt.Fprintf(os.Stdout, "  Avg per image: %v\n", avg.Round(time.Millisecond))
		_, _ = fmt.Fprintf(os.Stdout, "  Throughput: %.1f images/sec\n",
			float64(len(r.Items))/r.Duration.Seconds())
	}
}
