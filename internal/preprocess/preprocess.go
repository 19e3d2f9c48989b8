// Package preprocess prepares chip photographs for body detection. It
// produces grayscale, denoised, contrast-normalized variants of the input:
// a standard variant for well-lit leaded packages and an enhanced variant
// that recovers the faint edges of recessed no-lead (QFN/LQFN) bodies.
package preprocess

import (
	"image"

	"github.com/disintegration/imaging"
)

// Config holds preprocessing parameters for both variants.
type Config struct {
	ClipLimit         float64 `mapstructure:"clip_limit"          yaml:"clip_limit"          json:"clip_limit"`
	TileSize          int     `mapstructure:"tile_size"           yaml:"tile_size"           json:"tile_size"`
	EnhancedClipLimit float64 `mapstructure:"enhanced_clip_limit" yaml:"enhanced_clip_limit" json:"enhanced_clip_limit"`
	EnhancedTileSize  int     `mapstructure:"enhanced_tile_size"  yaml:"enhanced_tile_size"  json:"enhanced_tile_size"`
	BilateralDiameter int     `mapstructure:"bilateral_diameter"  yaml:"bilateral_diameter"  json:"bilateral_diameter"`
	BilateralSigma    float64 `mapstructure:"bilateral_sigma"     yaml:"bilateral_sigma"     json:"bilateral_sigma"`
	MedianKernel      int     `mapstructure:"median_kernel"       yaml:"median_kernel"       json:"median_kernel"`
	GradientKernel    int     `mapstructure:"gradient_kernel"     yaml:"gradient_kernel"     json:"gradient_kernel"`
	BlendWeight       float64 `mapstructure:"blend_weight"        yaml:"blend_weight"        json:"blend_weight"`
}

// DefaultConfig returns default preprocessing parameters.
func DefaultConfig() Config {
	return Config{
		ClipLimit:         2.5,
		TileSize:          8,
		EnhancedClipLimit: 4.0,
		EnhancedTileSize:  4,
		BilateralDiameter: 7,
		BilateralSigma:    50,
		MedianKernel:      3,
		GradientKernel:    3,
		BlendWeight:       0.6,
	}
}

// ToGray converts an arbitrary image to an 8-bit grayscale plane anchored
// at the origin.
func ToGray(img image.Image) *image.Gray {
	nrgba := imaging.Grayscale(img)
	b := nrgba.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[x*4] // R==G==B after Grayscale
		}
	}
	return out
}

// Standard runs the standard preprocessing path:
// grayscale -> CLAHE -> bilateral filter -> median blur.
func Standard(img image.Image, cfg Config) *image.Gray {
	gray := ToGray(img)
	eq := CLAHE(gray, cfg.ClipLimit, cfg.TileSize)
	den := Bilateral(eq, cfg.BilateralDiameter, cfg.BilateralSigma, cfg.BilateralSigma)
	return Median(den, cfg.MedianKernel)
}

// Enhanced runs the aggressive path for hard-to-segment packages: a stronger
// CLAHE pass blended with a morphological gradient image (which highlights
// subtle edges plain contrast stretching misses), sharpened with an unsharp
// mask and lightly median-blurred.
func Enhanced(img image.Image, cfg Config) *image.Gray {
	gray := ToGray(img)
	eq := CLAHE(gray, cfg.EnhancedClipLimit, cfg.EnhancedTileSize)
	den := Bilateral(eq, cfg.BilateralDiameter, cfg.BilateralSigma, cfg.BilateralSigma)
	grad := MorphGradient(eq, cfg.GradientKernel)
	blended := Blend(den, grad, cfg.BlendWeight)
	sharp := Unsharp(blended)
	return Median(sharp, cfg.MedianKernel)
}

// Blend mixes two equally sized gray planes: alpha*a + (1-alpha)*b.
func Blend(a, b *image.Gray, alpha float64) *image.Gray {
	w, h := a.Bounds().Dx(), a.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if b.Bounds().Dx() != w || b.Bounds().Dy() != h {
		copy(out.Pix, a.Pix)
		return out
	}
	for y := 0; y < h; y++ {
		pa := a.Pix[y*a.Stride:]
		pb := b.Pix[y*b.Stride:]
		po := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			v := alpha*float64(pa[x]) + (1-alpha)*float64(pb[x])
			if v > 255 {
				v = 255
			}
			po[x] = uint8(v + 0.5)
		}
	}
	return out
}
