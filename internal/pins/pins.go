// Package pins detects slender peripheral lead contours around a chip body,
// orders them clockwise, classifies them by side and estimates the total
// pin count from the most regular side's spacing.
package pins

import (
	"image"
	"log/slog"
	"math"
	"sort"

	"github.com/MeKo-Tech/chipgauge/internal/detector"
	"github.com/MeKo-Tech/chipgauge/internal/mempool"
	"github.com/MeKo-Tech/chipgauge/internal/preprocess"
	"github.com/MeKo-Tech/chipgauge/internal/utils"
)

// Side labels the package edge a pin belongs to.
type Side string

const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// Pin is one detected lead: centroid and bounding-box area in pixel
// coordinates of the full image, plus its clockwise index and side.
type Pin struct {
	Index  int         `json:"index"`
	Center utils.Point `json:"-"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Area   float64     `json:"area"`
	Side   Side        `json:"side"`
}

// TieBreak selects the reference side when estimating the total count.
type TieBreak string

const (
	// TieBreakPreferLeft picks the left side whenever it has pins. This
	// mirrors long-standing scan-station behavior; see DESIGN.md.
	TieBreakPreferLeft TieBreak = "prefer-left"
	// TieBreakMaxCount always picks the side with the most pins.
	TieBreakMaxCount TieBreak = "max-count"
)

// Config holds pin-detection parameters.
type Config struct {
	Threshold     uint8    `mapstructure:"threshold"      yaml:"threshold"      json:"threshold"`
	CloseKernel   int      `mapstructure:"close_kernel"   yaml:"close_kernel"   json:"close_kernel"`
	MinArea       float64  `mapstructure:"min_area"       yaml:"min_area"       json:"min_area"`
	MaxArea       float64  `mapstructure:"max_area"       yaml:"max_area"       json:"max_area"`
	MinAspect     float64  `mapstructure:"min_aspect"     yaml:"min_aspect"     json:"min_aspect"`
	MaxAspect     float64  `mapstructure:"max_aspect"     yaml:"max_aspect"     json:"max_aspect"`
	ExclusionFrac float64  `mapstructure:"exclusion_frac" yaml:"exclusion_frac" json:"exclusion_frac"`
	MinSeparation float64  `mapstructure:"min_separation" yaml:"min_separation" json:"min_separation"`
	ReferenceSize int      `mapstructure:"reference_size" yaml:"reference_size" json:"reference_size"`
	TieBreak      TieBreak `mapstructure:"tie_break"      yaml:"tie_break"      json:"tie_break"`
}

// DefaultConfig returns the default pin-detection parameters.
func DefaultConfig() Config {
	return Config{
		Threshold:     80,
		CloseKernel:   3,
		MinArea:       20,
		MaxArea:       2000,
		MinAspect:     1.5,
		MaxAspect:     10.0,
		ExclusionFrac: 0.35,
		MinSeparation: 8,
		ReferenceSize: 600,
		TieBreak:      TieBreakPreferLeft,
	}
}

// Estimate summarizes the pin-count guess derived from side regularity.
type Estimate struct {
	TotalPins  int           `json:"total_pins"`
	BySide     map[Side]int  `json:"by_side"`
	BestSide   Side          `json:"best_side,omitempty"`
	Regularity float64       `json:"regularity"`
}

// Locate finds candidate pin leads in the original (unmasked) image around
// the given body center. An empty result is not an error; it only lowers
// measurement confidence.
func Locate(img image.Image, center utils.Point, cfg Config) ([]Pin, Estimate) {
	gray := preprocess.ToGray(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, Estimate{BySide: map[Side]int{}}
	}

	// Bright metallic leads against a darker background: low fixed
	// threshold, then dilate->erode to fill small gaps without merging
	// distinct leads.
	mask := detector.BinarizeGray(gray.Pix, gray.Stride, w, h, cfg.Threshold)
	defer mempool.PutBool(mask)
	closed := detector.DilateMask(mask, w, h, cfg.CloseKernel)
	closed = detector.ErodeMask(closed, w, h, cfg.CloseKernel)

	contours := detector.ExtractContours(closed, w, h)
	candidates := filterCandidates(contours, center, w, h, cfg)

	sortClockwise(candidates, center)
	kept := deduplicate(candidates, minSeparation(cfg, w, h))

	for i := range kept {
		kept[i].Index = i
		kept[i].Side = classifySide(center, kept[i].Center)
	}
	est := estimateTotal(kept, cfg.TieBreak)
	slog.Debug("pin location complete",
		"candidates", len(candidates),
		"kept", len(kept),
		"estimated_total", est.TotalPins,
		"best_side", est.BestSide)
	return kept, est
}

// filterCandidates keeps slender contours in the allowed area window whose
// centroid lies outside the central exclusion zone. Interior bright blobs
// near the center are silkscreen or markings, not leads.
func filterCandidates(contours []detector.Contour, center utils.Point, w, h int, cfg Config) []Pin {
	exclusion := cfg.ExclusionFrac * math.Min(float64(w), float64(h))
	out := make([]Pin, 0, len(contours))
	for _, c := range contours {
		area := c.Box.Area()
		if area < cfg.MinArea || area > cfg.MaxArea {
			continue
		}
		ar := slenderness(c)
		if ar < cfg.MinAspect || ar > cfg.MaxAspect {
			continue
		}
		centroid := c.Box.Center()
		if centroid.Dist(center) < exclusion {
			continue
		}
		out = append(out, Pin{
			Center: centroid,
			X:      centroid.X,
			Y:      centroid.Y,
			Area:   area,
		})
	}
	return out
}

// slenderness is the long/short side ratio of the candidate's minimum-area
// rectangle. The axis-aligned box understates how slender a rotated lead is:
// an 8x18 lead tilted with the package body has a nearly square bounding
// box, so the ratio must come from the oriented fit.
func slenderness(c detector.Contour) float64 {
	mar := utils.MinimumAreaRect(c.Points)
	long, short := mar.Side1, mar.Side2
	if short > long {
		long, short = short, long
	}
	if short <= 0 {
		return math.Inf(1)
	}
	return long / short
}

// sortClockwise orders candidates by clockwise angle around center,
// starting at 12 o'clock.
func sortClockwise(pins []Pin, center utils.Point) {
	sort.Slice(pins, func(i, j int) bool {
		ai := utils.ClockwiseAngle(center, pins[i].Center)
		aj := utils.ClockwiseAngle(center, pins[j].Center)
		if ai != aj {
			return ai < aj
		}
		return pins[i].Center.Dist(center) < pins[j].Center.Dist(center)
	})
}

// minSeparation scales the configured separation distance from the
// reference resolution to the actual image size.
func minSeparation(cfg Config, w, h int) float64 {
	if cfg.ReferenceSize <= 0 {
		return cfg.MinSeparation
	}
	scale := math.Min(float64(w), float64(h)) / float64(cfg.ReferenceSize)
	if scale < 1 {
		scale = 1
	}
	return cfg.MinSeparation * scale
}

// deduplicate walks the angularly sorted list and keeps a candidate only if
// it is farther than minSep from every previously kept one.
func deduplicate(pins []Pin, minSep float64) []Pin {
	kept := make([]Pin, 0, len(pins))
	for _, p := range pins {
		tooClose := false
		for _, k := range kept {
			if p.Center.Dist(k.Center) < minSep {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, p)
		}
	}
	return kept
}

// classifySide assigns the pin to the package edge along its dominant axis
// offset from center.
func classifySide(center, p utils.Point) Side {
	dx := p.X - center.X
	dy := p.Y - center.Y
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return SideRight
		}
		return SideLeft
	}
	if dy > 0 {
		return SideBottom
	}
	return SideTop
}
