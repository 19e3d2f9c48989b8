// Package testutil builds synthetic chip-package photographs for tests and
// fixture generation: a dark rotated body on a light background with
// optional bright lead marks along the long edges.
package testutil

import (
	"image"
	"image/color"
	"math"
)

// ChipConfig describes one synthetic chip image.
type ChipConfig struct {
	Width      int     // image width in pixels
	Height     int     // image height in pixels
	BodyWidth  float64 // body long side in pixels
	BodyHeight float64 // body short side in pixels
	AngleDeg   float64 // body rotation, degrees counterclockwise
	Background color.Color
	BodyColor  color.Color

	// Lead marks drawn just inside each long edge of the body, spread over
	// PinSpanFrac of the body width around its center.
	PinsPerSide int
	PinSpanFrac float64
	PinWidth    float64
	PinHeight   float64
	PinColor    color.Color
}

// DefaultChipConfig mirrors the canonical scan-station test scene: an
// 800x600 light frame with a 400x200 body at 15 degrees and four leads
// along each long edge.
func DefaultChipConfig() ChipConfig {
	return ChipConfig{
		Width:       800,
		Height:      600,
		BodyWidth:   400,
		BodyHeight:  200,
		AngleDeg:    15,
		Background:  color.RGBA{R: 245, G: 245, B: 245, A: 255},
		BodyColor:   color.RGBA{R: 20, G: 20, B: 20, A: 255},
		PinsPerSide: 4,
		PinSpanFrac: 0.4,
		PinWidth:    8,
		PinHeight:   18,
		PinColor:    color.RGBA{R: 250, G: 250, B: 250, A: 255},
	}
}

// DrawChip renders the configured chip scene.
func DrawChip(cfg ChipConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			img.Set(x, y, cfg.Background)
		}
	}

	cx := float64(cfg.Width) / 2
	cy := float64(cfg.Height) / 2
	rad := cfg.AngleDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	// Rasterize the rotated body by testing each pixel in body-local
	// coordinates.
	halfW, halfH := cfg.BodyWidth/2, cfg.BodyHeight/2
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			lx, ly := toLocal(float64(x)-cx, float64(y)-cy, cos, sin)
			if math.Abs(lx) <= halfW && math.Abs(ly) <= halfH {
				img.Set(x, y, cfg.BodyColor)
			}
		}
	}

	drawLeads(img, cfg, cx, cy, cos, sin)
	return img
}

// drawLeads places PinsPerSide bright marks just inside each long edge.
func drawLeads(img *image.RGBA, cfg ChipConfig, cx, cy, cos, sin float64) {
	if cfg.PinsPerSide <= 0 {
		return
	}
	span := cfg.BodyWidth * cfg.PinSpanFrac
	step := span / float64(cfg.PinsPerSide-1)
	if cfg.PinsPerSide == 1 {
		step = 0
	}
	edgeOffset := cfg.BodyHeight/2 - cfg.PinHeight/2 - 4
	for i := 0; i < cfg.PinsPerSide; i++ {
		lx := -span/2 + float64(i)*step
		for _, ly := range []float64{-edgeOffset, edgeOffset} {
			drawLocalRect(img, cfg, cx, cy, cos, sin, lx, ly)
		}
	}
}

// drawLocalRect fills a pin-sized rectangle centered at body-local (lx, ly).
func drawLocalRect(img *image.RGBA, cfg ChipConfig, cx, cy, cos, sin, lx, ly float64) {
	hw, hh := cfg.PinWidth/2, cfg.PinHeight/2
	// Conservative pixel sweep over the mark's world-space bounding area.
	r := math.Hypot(hw, hh) + 1
	wx := cx + lx*cos - ly*sin
	wy := cy + lx*sin + ly*cos
	for y := int(wy - r); y <= int(wy+r); y++ {
		for x := int(wx - r); x <= int(wx+r); x++ {
			if x < 0 || y < 0 || x >= cfg.Width || y >= cfg.Height {
				continue
			}
			px, py := toLocal(float64(x)-cx, float64(y)-cy, cos, sin)
			if math.Abs(px-lx) <= hw && math.Abs(py-ly) <= hh {
				img.Set(x, y, cfg.PinColor)
			}
		}
	}
}

// toLocal rotates world-relative coordinates into body-local space.
func toLocal(dx, dy, cos, sin float64) (float64, float64) {
	return dx*cos + dy*sin, -dx*sin + dy*cos
}
