package preprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func gradientImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / (w - 1))})
		}
	}
	return img
}

func TestToGray(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	g := ToGray(src)
	require.Equal(t, 10, g.Bounds().Dx())
	require.Equal(t, 10, g.Bounds().Dy())
	// Uniform input stays uniform.
	require.Equal(t, g.Pix[0], g.Pix[len(g.Pix)-1])
}

func TestCLAHEStretchesLowContrast(t *testing.T) {
	// Low-contrast image: values confined to [100, 140].
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(100 + (x*40)/63)})
		}
	}
	out := CLAHE(img, 4.0, 4)

	minIn, maxIn := rangeOf(img)
	minOut, maxOut := rangeOf(out)
	require.Greater(t, int(maxOut)-int(minOut), int(maxIn)-int(minIn),
		"CLAHE should widen the dynamic range of a low-contrast image")
}

func TestCLAHEIsDeterministic(t *testing.T) {
	img := gradientImage(32, 32)
	a := CLAHE(img, 2.5, 8)
	b := CLAHE(img, 2.5, 8)
	require.Equal(t, a.Pix, b.Pix)
}

func rangeOf(img *image.Gray) (uint8, uint8) {
	minV, maxV := uint8(255), uint8(0)
	for _, v := range img.Pix {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return minV, maxV
}

func TestBilateralPreservesStrongEdge(t *testing.T) {
	// Hard step edge down the middle.
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			v := uint8(30)
			if x >= 20 {
				v = 220
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	out := Bilateral(img, 7, 50, 50)
	// Pixels well inside each side keep near their original values.
	require.InDelta(t, 30, float64(out.GrayAt(5, 20).Y), 10)
	require.InDelta(t, 220, float64(out.GrayAt(35, 20).Y), 10)
	// The step itself stays steep.
	left := int(out.GrayAt(18, 20).Y)
	right := int(out.GrayAt(21, 20).Y)
	require.Greater(t, right-left, 150)
}

func TestMedianRemovesSaltNoise(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 21, 21))
	for i := range img.Pix {
		img.Pix[i] = 50
	}
	img.SetGray(10, 10, color.Gray{Y: 255}) // lone outlier
	out := Median(img, 3)
	require.Equal(t, uint8(50), out.GrayAt(10, 10).Y)
}

func TestMorphGradientHighlightsEdges(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			v := uint8(0)
			if x >= 15 {
				v = 200
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	grad := MorphGradient(img, 3)
	require.Equal(t, uint8(200), grad.GrayAt(15, 15).Y)
	require.Zero(t, grad.GrayAt(2, 15).Y)
}

func TestStandardAndEnhancedShapes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 48, 36))
	cfg := DefaultConfig()
	std := Standard(src, cfg)
	enh := Enhanced(src, cfg)
	require.Equal(t, 48, std.Bounds().Dx())
	require.Equal(t, 36, std.Bounds().Dy())
	require.Equal(t, 48, enh.Bounds().Dx())
	require.Equal(t, 36, enh.Bounds().Dy())
}

func TestBlendWeights(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 4, 4))
	b := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range a.Pix {
		a.Pix[i] = 200
		b.Pix[i] = 100
	}
	out := Blend(a, b, 0.6)
	require.Equal(t, uint8(160), out.Pix[0])
}
