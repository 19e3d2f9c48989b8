package measure

import (
	"fmt"
	"image"
	"image/color"

	"github.com/MeKo-Tech/chipgauge/internal/detector"
	"github.com/MeKo-Tech/chipgauge/internal/geometry"
	"github.com/MeKo-Tech/chipgauge/internal/pins"
	"github.com/MeKo-Tech/chipgauge/internal/utils"
)

var (
	contourColor = color.RGBA{G: 200, A: 255}
	boxColor     = color.RGBA{R: 230, A: 255}
	centerColor  = color.RGBA{R: 230, G: 230, A: 255}

	// Rotating palette for pin markers and index labels.
	pinPalette = [4]color.RGBA{
		{R: 255, G: 80, B: 80, A: 255},
		{R: 80, G: 180, B: 255, A: 255},
		{R: 255, G: 210, B: 60, A: 255},
		{R: 170, G: 100, B: 255, A: 255},
	}
)

// renderAnnotations draws the detected contour, the fitted rotated box, the
// body center and numbered pin markers over a copy of the input image.
func renderAnnotations(img image.Image, body *detector.Body, rect geometry.RotatedRect, found []pins.Pin) *image.RGBA {
	dst := utils.CloneRGBA(img)

	utils.DrawPolygon(dst, body.Contour, contourColor, 1)
	utils.DrawPolygon(dst, rect.Corners[:], boxColor, 2)
	utils.DrawCross(dst, rect.Center, 8, centerColor, 1)

	for _, p := range found {
		col := pinPalette[p.Index%len(pinPalette)]
		utils.DrawCircle(dst, p.Center, 5, col, 2)
		utils.DrawLabel(dst, fmt.Sprintf("%d", p.Index+1),
			utils.Point{X: p.Center.X + 7, Y: p.Center.Y - 7}, col)
	}
	return dst
}
