// Package measure is the call-level entry point of the dimension engine:
// it runs the detection cascade, fits the body rectangle, applies
// calibration, locates pins and assembles the final measurement result.
package measure

import (
	"image"
	"log/slog"

	"github.com/MeKo-Tech/chipgauge/internal/calibrate"
	"github.com/MeKo-Tech/chipgauge/internal/common"
	"github.com/MeKo-Tech/chipgauge/internal/detector"
	"github.com/MeKo-Tech/chipgauge/internal/geometry"
	"github.com/MeKo-Tech/chipgauge/internal/pins"
	"github.com/MeKo-Tech/chipgauge/internal/preprocess"
	"github.com/MeKo-Tech/chipgauge/internal/utils"
)

// Confidence grades how much trust a measurement deserves.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Options configures a measurement invocation. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	Preprocess      preprocess.Config `mapstructure:"preprocess"       yaml:"preprocess"       json:"preprocess"`
	Pins            pins.Config       `mapstructure:"pins"             yaml:"pins"             json:"pins"`
	LocatePins      bool              `mapstructure:"locate_pins"      yaml:"locate_pins"      json:"locate_pins"`
	RegularityFloor float64           `mapstructure:"regularity_floor" yaml:"regularity_floor" json:"regularity_floor"`
	Visualize       bool              `mapstructure:"visualize"        yaml:"visualize"        json:"visualize"`
}

// DefaultOptions returns the default measurement options.
func DefaultOptions() Options {
	return Options{
		Preprocess:      preprocess.DefaultConfig(),
		Pins:            pins.DefaultConfig(),
		LocatePins:      true,
		RegularityFloor: 1.5,
		Visualize:       true,
	}
}

// Result is the outcome of one measurement invocation. It is immutable and
// has no lifecycle beyond the call that produced it.
type Result struct {
	WidthMM       float64
	HeightMM      float64
	AreaMM2       float64
	WidthPx       float64
	HeightPx      float64
	MMPerPixel    float64
	Angle         float64
	Center        utils.Point
	Strategy      string
	Confidence    Confidence
	LowPinSignal  bool
	Pins          []pins.Pin
	PinEstimate   pins.Estimate
	Visualization *image.RGBA
	ElapsedNS     int64
}

// Measure runs the full measurement pipeline over a decoded image.
// Calibration is resolved first so configuration bugs surface before any
// pixel work; detection failures come back as *detector.NoBodyDetectedError.
func Measure(img image.Image, cal calibrate.Model, opts Options) (*Result, error) {
	timer := common.NewNamedTimer("measure")

	mmPerPx, err := cal.Resolve(img.Bounds().Dy())
	if err != nil {
		return nil, err
	}

	body, err := detector.DetectBody(img, opts.Preprocess)
	if err != nil {
		return nil, err
	}

	rect := geometry.FitRotatedRect(body.Contour)
	widthPx := rect.WidthPx - 2*body.EdgePadding
	heightPx := rect.HeightPx - 2*body.EdgePadding
	if widthPx < 0 {
		widthPx = 0
	}
	if heightPx < 0 {
		heightPx = 0
	}
	res := &Result{
		WidthMM:    widthPx * mmPerPx,
		HeightMM:   heightPx * mmPerPx,
		AreaMM2:    widthPx * heightPx * mmPerPx * mmPerPx,
		WidthPx:    widthPx,
		HeightPx:   heightPx,
		MMPerPixel: mmPerPx,
		Angle:      rect.Angle,
		Center:     rect.Center,
		Strategy:   body.Strategy,
	}

	if opts.LocatePins {
		res.Pins, res.PinEstimate = pins.Locate(img, rect.Center, opts.Pins)
		res.LowPinSignal = res.PinEstimate.TotalPins == 0 ||
			res.PinEstimate.Regularity < opts.RegularityFloor
	}
	res.Confidence = grade(body.Strategy, opts.LocatePins, res.LowPinSignal)

	if opts.Visualize {
		res.Visualization = renderAnnotations(img, body, rect, res.Pins)
	}

	res.ElapsedNS = timer.Stop().Nanoseconds()
	slog.Info("measurement complete",
		"width_mm", res.WidthMM,
		"height_mm", res.HeightMM,
		"strategy", res.Strategy,
		"confidence", res.Confidence,
		"pins", len(res.Pins),
		"elapsed", timer.String())
	return res, nil
}

// MeasureFile loads an image from disk and measures it. Load or decode
// failures surface as *ImageLoadError.
func MeasureFile(path string, cal calibrate.Model, opts Options) (*Result, error) {
	img, meta, err := utils.LoadImage(path)
	if err != nil {
		return nil, &ImageLoadError{Path: path, Err: err}
	}
	slog.Debug("image loaded", "path", meta.Path, "format", meta.Format,
		"width", meta.Width, "height", meta.Height)
	return Measure(img, cal, opts)
}

// grade maps the winning cascade strategy to a confidence label. Stronger
// geometric evidence earns a stronger label; a missing or irregular pin
// signal caps the label at low.
func grade(strategy string, pinsChecked, lowPinSignal bool) Confidence {
	if pinsChecked && lowPinSignal {
		return ConfidenceLow
	}
	switch strategy {
	case detector.StrategyStandard:
		return ConfidenceHigh
	case detector.StrategyEnhanced:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
