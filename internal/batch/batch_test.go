package batch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/chipgauge/internal/calibrate"
	"github.com/MeKo-Tech/chipgauge/internal/measure"
	"github.com/MeKo-Tech/chipgauge/internal/testutil"
	"github.com/MeKo-Tech/chipgauge/internal/utils"
)

func testConfig() *Config {
	opts := measure.DefaultOptions()
	opts.LocatePins = false
	opts.Visualize = false
	return &Config{
		Calibration: calibrate.Explicit(0.1),
		Options:     opts,
		Workers:     2,
	}
}

func writeChip(t *testing.T, dir, name string) string {
	t.Helper()
	cfg := testutil.DefaultChipConfig()
	cfg.PinsPerSide = 0
	path := filepath.Join(dir, name)
	require.NoError(t, utils.SavePNG(path, testutil.DrawChip(cfg)))
	return path
}

func TestProcessBatch_NoImageFiles(t *testing.T) {
	result, err := ProcessBatch([]string{}, testConfig())
	require.Error(t, err)
	require.Nil(t, result)
	require.Contains(t, err.Error(), "no image files found")
}

func TestProcessBatch_InvalidImagePath(t *testing.T) {
	result, err := ProcessBatch([]string{"/nonexistent/file.png"}, testConfig())
	require.Error(t, err)
	require.Nil(t, result)
	require.Contains(t, err.Error(), "cannot access")
}

func TestProcessBatch_Directory(t *testing.T) {
	dir := t.TempDir()
	writeChip(t, dir, "a.png")
	writeChip(t, dir, "b.png")
	writeChip(t, dir, "c.png")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o600))

	result, err := ProcessBatch([]string{dir}, testConfig())
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	require.Equal(t, 0, result.Failed())
	require.Equal(t, 2, result.WorkerCount)
	require.Greater(t, result.Duration, time.Duration(0))

	for _, item := range result.Items {
		require.NoError(t, item.Err)
		require.InDelta(t, 40.0, item.Result.WidthMM, 0.2)
		require.InDelta(t, 20.0, item.Result.HeightMM, 0.2)
	}
}

func TestProcessBatch_ContinueOnError(t *testing.T) {
	dir := t.TempDir()
	writeChip(t, dir, "good.png")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.png"), []byte("not a png"), 0o600))

	cfg := testConfig()
	cfg.ContinueOnError = true
	result, err := ProcessBatch([]string{dir}, cfg)
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.Equal(t, 1, result.Failed())

	cfg.ContinueOnError = false
	_, err = ProcessBatch([]string{dir}, cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "junk.png")
}

func TestProcessBatch_AnnotatedOutput(t *testing.T) {
	dir := t.TempDir()
	writeChip(t, dir, "chip.png")

	cfg := testConfig()
	cfg.Options.Visualize = true
	cfg.AnnotatedDir = filepath.Join(dir, "annotated")

	_, err := ProcessBatch([]string{dir}, cfg)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(cfg.AnnotatedDir, "chip_annotated.png"))
}

func TestResultFailedCount(t *testing.T) {
	r := &Result{Items: []ItemResult{
		{Path: "a", Result: &measure.Result{}},
		{Path: "b", Err: errors.New("boom")},
	}}
	require.Equal(t, 1, r.Failed())
}
