// Command generate-test-data renders synthetic chip-package images for
// manual testing and fixtures.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/chipgauge/internal/testutil"
	"github.com/MeKo-Tech/chipgauge/internal/utils"
)

// scene is one named fixture variant.
type scene struct {
	Name   string              `json:"name"`
	Config testutil.ChipConfig `json:"config"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		outDir = flag.String("out", "testdata/chips", "Output directory for generated images")
		help   = flag.Bool("h", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate synthetic chip images for chipgauge testing.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	slog.Info("generating synthetic chip images", "dir", *outDir)

	scenes := buildScenes()
	manifest := make([]scene, 0, len(scenes))
	for _, sc := range scenes {
		img := testutil.DrawChip(sc.Config)
		path := filepath.Join(*outDir, sc.Name+".png")
		if err := utils.SavePNG(path, img); err != nil {
			slog.Error("failed to save image", "file", path, "error", err)
			os.Exit(1)
		}
		manifest = append(manifest, sc)
		slog.Info("generated", "file", path)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		slog.Error("failed to encode manifest", "error", err)
		os.Exit(1)
	}
	manifestPath := filepath.Join(*outDir, "manifest.json")
	if err := os.WriteFile(manifestPath, data, 0o600); err != nil {
		slog.Error("failed to write manifest", "file", manifestPath, "error", err)
		os.Exit(1)
	}

	slog.Info("done", "images", len(manifest), "manifest", manifestPath)
}

// buildScenes enumerates the fixture variants: axis-aligned and rotated
// bodies, different sizes, a low-contrast case, and a pinless part.
func buildScenes() []scene {
	base := testutil.DefaultChipConfig()

	rotated45 := base
	rotated45.AngleDeg = 45

	axisAligned := base
	axisAligned.AngleDeg = 0

	small := base
	small.BodyWidth = 160
	small.BodyHeight = 120
	small.PinsPerSide = 2

	lowContrast := base
	lowContrast.BodyColor = color.RGBA{R: 190, G: 190, B: 190, A: 255}

	noPins := base
	noPins.PinsPerSide = 0

	return []scene{
		{Name: "chip_default", Config: base},
		{Name: "chip_rotated45", Config: rotated45},
		{Name: "chip_axis_aligned", Config: axisAligned},
		{Name: "chip_small", Config: small},
		{Name: "chip_low_contrast", Config: lowContrast},
		{Name: "chip_no_pins", Config: noPins},
	}
}
