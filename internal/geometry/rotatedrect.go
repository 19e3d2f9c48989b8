// Package geometry fits oriented bounding rectangles to detected contours.
package geometry

import (
	"github.com/MeKo-Tech/chipgauge/internal/utils"
)

// RotatedRect is the minimum-area enclosing rectangle of a contour,
// canonicalized so WidthPx >= HeightPx. Angle is the orientation of the
// long side in degrees, normalized to (-90, 90]; because of the canonical
// swap it is only meaningful modulo 90.
type RotatedRect struct {
	Center   utils.Point
	WidthPx  float64
	HeightPx float64
	Angle    float64
	Corners  [4]utils.Point
}

// AreaPx returns the rectangle area in square pixels.
func (r RotatedRect) AreaPx() float64 { return r.WidthPx * r.HeightPx }

// FitRotatedRect computes the minimum-area rotated rectangle enclosing the
// contour. Contours with fewer than 3 points yield a degenerate zero-area
// rectangle; the detector's area filter prevents that from occurring in the
// pipeline.
func FitRotatedRect(contour []utils.Point) RotatedRect {
	mar := utils.MinimumAreaRect(contour)
	r := RotatedRect{
		Center:   utils.Centroid(mar.Corners[:]),
		WidthPx:  mar.Side1,
		HeightPx: mar.Side2,
		Angle:    mar.AngleS1,
		Corners:  mar.Corners,
	}
	if r.HeightPx > r.WidthPx {
		// Swap so the longer side is always reported as width; the angle
		// convention rotates with it.
		r.WidthPx, r.HeightPx = r.HeightPx, r.WidthPx
		r.Angle = normalizeAngle(r.Angle + 90)
	}
	return r
}

// normalizeAngle maps degrees into (-90, 90].
func normalizeAngle(deg float64) float64 {
	for deg > 90 {
		deg -= 180
	}
	for deg <= -90 {
		deg += 180
	}
	return deg
}
