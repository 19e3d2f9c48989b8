package testutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDrawChipBasics(t *testing.T) {
	cfg := DefaultChipConfig()
	img := DrawChip(cfg)
	require.Equal(t, 800, img.Bounds().Dx())
	require.Equal(t, 600, img.Bounds().Dy())

	// Center pixel is body-colored, a corner is background.
	r, g, b, _ := img.At(400, 300).RGBA()
	require.Less(t, r>>8, uint32(50))
	require.Less(t, g>>8, uint32(50))
	require.Less(t, b>>8, uint32(50))

	r, _, _, _ = img.At(5, 5).RGBA()
	require.Greater(t, r>>8, uint32(200))
}

func TestDrawChipNoPins(t *testing.T) {
	cfg := DefaultChipConfig()
	cfg.PinsPerSide = 0
	cfg.AngleDeg = 0
	cfg.BodyColor = color.RGBA{A: 255}
	img := DrawChip(cfg)

	// Without leads nothing bright exists inside the body.
	for y := 250; y < 350; y++ {
		for x := 250; x < 550; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			require.Less(t, r>>8, uint32(50))
		}
	}
}
