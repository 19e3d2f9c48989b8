package detector

import (
	"testing"

	"github.com/MeKo-Tech/chipgauge/internal/utils"
	"github.com/stretchr/testify/require"
)

func maskWithRect(w, h int, x0, y0, x1, y1 int) []bool {
	mask := make([]bool, w*h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			mask[y*w+x] = true
		}
	}
	return mask
}

func TestExtractContours_SingleRect(t *testing.T) {
	mask := maskWithRect(50, 40, 10, 5, 30, 25)
	cs := ExtractContours(mask, 50, 40)
	require.Len(t, cs, 1)

	c := cs[0]
	require.Equal(t, 20*20, c.PixelArea)
	require.Equal(t, utils.NewBox(10, 5, 30, 25), c.Box)

	// The traced boundary of an axis-aligned rectangle collapses to its
	// corners (pixel-center coordinates).
	hull := utils.ConvexHull(c.Points)
	require.Len(t, hull, 4)
	require.InDelta(t, 19*19, utils.PolygonArea(hull), 1)
}

func TestExtractContours_MultipleComponents(t *testing.T) {
	mask := maskWithRect(60, 60, 2, 2, 12, 12)
	for y := 40; y < 50; y++ {
		for x := 40; x < 55; x++ {
			mask[y*60+x] = true
		}
	}
	cs := ExtractContours(mask, 60, 60)
	require.Len(t, cs, 2)
}

func TestExtractContours_IgnoresTinySpecks(t *testing.T) {
	mask := make([]bool, 30*30)
	mask[15*30+15] = true // single pixel: boundary degenerates below 3 points
	cs := ExtractContours(mask, 30, 30)
	require.Empty(t, cs)
}

func TestExtractContours_EmptyAndInvalid(t *testing.T) {
	require.Empty(t, ExtractContours(nil, 10, 10))
	require.Empty(t, ExtractContours(make([]bool, 100), 10, 10))
}

func TestLabelComponents_EightConnectivity(t *testing.T) {
	// Two pixels touching only diagonally belong to one component.
	mask := make([]bool, 16)
	mask[0*4+0] = true
	mask[1*4+1] = true
	comps, _ := labelComponents(mask, 4, 4)
	require.Len(t, comps, 1)
	require.Equal(t, 2, comps[0].count)
}
