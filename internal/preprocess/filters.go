package preprocess

import (
	"image"
	"math"

	"github.com/MeKo-Tech/chipgauge/internal/mempool"
)

// Bilateral applies an edge-preserving bilateral filter with the given
// neighborhood diameter and sigmas for the range (intensity) and spatial
// weights. Pixels across strong intensity steps contribute little, so edges
// survive the smoothing.
func Bilateral(gray *image.Gray, diameter int, sigmaColor, sigmaSpace float64) *image.Gray {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if diameter < 3 {
		copy(out.Pix, gray.Pix)
		return out
	}
	r := diameter / 2

	// Precompute spatial weights and the range-weight LUT.
	spatial := make([]float64, diameter*diameter)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+r)*diameter+(dx+r)] = math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))
		}
	}
	var rangeLUT [256]float64
	for i := range rangeLUT {
		d := float64(i)
		rangeLUT[i] = math.Exp(-d * d / (2 * sigmaColor * sigmaColor))
	}

	for y := 0; y < h; y++ {
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			center := gray.Pix[y*gray.Stride+x]
			var sum, wsum float64
			for dy := -r; dy <= r; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				row := gray.Pix[ny*gray.Stride:]
				for dx := -r; dx <= r; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					v := row[nx]
					diff := int(v) - int(center)
					if diff < 0 {
						diff = -diff
					}
					wt := spatial[(dy+r)*diameter+(dx+r)] * rangeLUT[diff]
					sum += wt * float64(v)
					wsum += wt
				}
			}
			if wsum > 0 {
				dst[x] = uint8(sum/wsum + 0.5)
			} else {
				dst[x] = center
			}
		}
	}
	return out
}

// Median applies a k x k median blur. Even kernel sizes are rounded up to
// the next odd size.
func Median(gray *image.Gray, k int) *image.Gray {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if k < 3 {
		copy(out.Pix, gray.Pix)
		return out
	}
	if k%2 == 0 {
		k++
	}
	r := k / 2
	var hist [256]int
	for y := 0; y < h; y++ {
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			for i := range hist {
				hist[i] = 0
			}
			count := 0
			for dy := -r; dy <= r; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				row := gray.Pix[ny*gray.Stride:]
				for dx := -r; dx <= r; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					hist[row[nx]]++
					count++
				}
			}
			half := count / 2
			acc := 0
			for v := 0; v < 256; v++ {
				acc += hist[v]
				if acc > half {
					dst[x] = uint8(v)
					break
				}
			}
		}
	}
	return out
}

// Unsharp sharpens the image with the standard 3x3 kernel
// (center 5, cross -1).
func Unsharp(gray *image.Gray) *image.Gray {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	at := func(x, y int) int {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return int(gray.Pix[y*gray.Stride+x])
	}
	for y := 0; y < h; y++ {
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			v := 5*at(x, y) - at(x-1, y) - at(x+1, y) - at(x, y-1) - at(x, y+1)
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			dst[x] = uint8(v)
		}
	}
	return out
}

// MorphGradient returns dilate(gray) - erode(gray) with a k x k kernel,
// a cheap edge highlighter that responds to subtle intensity steps.
func MorphGradient(gray *image.Gray, k int) *image.Gray {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if k < 2 {
		return out
	}
	r := k / 2

	dil := mempool.GetUint8(w * h)
	ero := mempool.GetUint8(w * h)
	defer mempool.PutUint8(dil)
	defer mempool.PutUint8(ero)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			maxV := uint8(0)
			minV := uint8(255)
			for dy := -r; dy <= r; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				row := gray.Pix[ny*gray.Stride:]
				for dx := -r; dx <= r; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					v := row[nx]
					if v > maxV {
						maxV = v
					}
					if v < minV {
						minV = v
					}
				}
			}
			dil[y*w+x] = maxV
			ero[y*w+x] = minV
		}
	}
	for y := 0; y < h; y++ {
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			dst[x] = dil[y*w+x] - ero[y*w+x]
		}
	}
	return out
}
