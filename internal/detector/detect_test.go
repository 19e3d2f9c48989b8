package detector

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/MeKo-Tech/chipgauge/internal/preprocess"
	"github.com/MeKo-Tech/chipgauge/internal/utils"
	"github.com/stretchr/testify/require"
)

// chipImage draws a dark axis-aligned rectangle on a light background.
func chipImage(w, h int, body image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 235, G: 235, B: 235, A: 255}
			if image.Pt(x, y).In(body) {
				c = color.RGBA{R: 25, G: 25, B: 25, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDetectBody_FindsRectangularBody(t *testing.T) {
	img := chipImage(400, 300, image.Rect(100, 75, 300, 225))
	body, err := DetectBody(img, preprocess.DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, body)
	require.NotEmpty(t, body.Contour)
	require.GreaterOrEqual(t, len(body.Hull), 3)

	// The hull must cover roughly the drawn body (200x150 = 30000 px).
	require.InDelta(t, 30000, body.HullArea, 6000)
	c := body.Center()
	require.InDelta(t, 200, c.X, 10)
	require.InDelta(t, 150, c.Y, 10)
}

func TestDetectBody_ExhaustsCascadeOnBlankImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	body, err := DetectBody(img, preprocess.DefaultConfig())
	require.Nil(t, body)

	var nbErr *NoBodyDetectedError
	require.ErrorAs(t, err, &nbErr)
	require.Equal(t, []string{StrategyStandard, StrategyEnhanced, StrategyAggressive}, nbErr.Tried)
}

func TestStrategies_OrderedStrictToRelaxed(t *testing.T) {
	ss := Strategies()
	require.Len(t, ss, 3)
	require.Equal(t, StrategyStandard, ss[0].Name)
	require.Equal(t, StrategyEnhanced, ss[1].Name)
	require.Equal(t, StrategyAggressive, ss[2].Name)

	for i := 1; i < len(ss); i++ {
		prev, cur := ss[i-1].Params, ss[i].Params
		require.Less(t, cur.CannyLow, prev.CannyLow)
		require.Less(t, cur.CannyHigh, prev.CannyHigh)
		require.Greater(t, cur.CloseKernel, prev.CloseKernel)
		require.Less(t, cur.MinAreaFrac, prev.MinAreaFrac)
		require.Less(t, cur.ExtentMin, prev.ExtentMin)
		require.Greater(t, cur.AspectMax, prev.AspectMax)
	}
}

// A ragged candidate with extent ~0.32 is weak evidence: only the
// aggressive parameter set may accept it.
func TestEvaluateCandidate_RelaxedAcceptsWeakerEvidence(t *testing.T) {
	// Diamond-ish hull inside a 100x100 box has extent well below 0.40.
	contour := []utils.Point{
		{X: 50, Y: 0}, {X: 68, Y: 50}, {X: 50, Y: 100}, {X: 32, Y: 50},
	}
	c := Contour{
		Points: contour,
		Box:    utils.NewBox(0, 0, 100, 100),
	}
	imgArea := 200.0 * 200.0 // hull area 1800 => 4.5% of image

	ss := Strategies()
	_, okStrict := evaluateCandidate(c, imgArea, ss[0].Params)
	require.False(t, okStrict, "standard params must reject extent ~0.18")

	relaxed := ss[2].Params
	relaxed.ExtentMin = 0.15
	body, okRelaxed := evaluateCandidate(c, imgArea, relaxed)
	require.True(t, okRelaxed)
	require.InDelta(t, 1800, body.HullArea, 1)
}

func TestEvaluateCandidate_AreaWindow(t *testing.T) {
	square := Contour{
		Points: []utils.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		Box:    utils.NewBox(0, 0, 10, 10),
	}
	p := Strategies()[0].Params

	// 100 px hull on a large image is below the minimum fraction.
	_, ok := evaluateCandidate(square, 1e6, p)
	require.False(t, ok)

	// Same hull on a small image sits inside the window.
	_, ok = evaluateCandidate(square, 1000, p)
	require.True(t, ok)

	// Nearly the whole frame exceeds the fixed 0.9 ceiling.
	_, ok = evaluateCandidate(square, 105, p)
	require.False(t, ok)
}

func TestEvaluateCandidate_RejectsThinBars(t *testing.T) {
	bar := Contour{
		Points: []utils.Point{{X: 0, Y: 0}, {X: 300, Y: 0}, {X: 300, Y: 20}, {X: 0, Y: 20}},
		Box:    utils.NewBox(0, 0, 300, 20),
	}
	for _, s := range Strategies() {
		_, ok := evaluateCandidate(bar, 100000, s.Params)
		require.False(t, ok, "aspect 15 bar must be rejected by %s", s.Name)
	}
}

func TestNoBodyDetectedErrorMessage(t *testing.T) {
	err := error(&NoBodyDetectedError{Tried: []string{"standard"}})
	require.Contains(t, err.Error(), "no chip body detected")
	require.False(t, errors.Is(err, errors.New("x")))
}
