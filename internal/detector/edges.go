package detector

import (
	"container/list"
	"image"
	"math"

	"github.com/MeKo-Tech/chipgauge/internal/mempool"
)

// edgeMap computes a binary edge mask from a grayscale image using Sobel
// gradient magnitude followed by two-threshold hysteresis: pixels at or
// above high seed the mask, pixels at or above low join it only when
// 8-connected to a seed.
func edgeMap(gray *image.Gray, low, high uint8) []bool {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	mag := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(mag)
	sobelMagnitude(gray, mag, w, h)

	edges := make([]bool, w*h)
	lo, hi := float32(low), float32(high)
	q := list.New()
	for i, m := range mag {
		if m >= hi {
			edges[i] = true
			q.PushBack(i)
		}
	}

	// Grow weak edges connected to strong seeds.
	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%w, ci/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := cx+dx, cy+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				ni := ny*w + nx
				if !edges[ni] && mag[ni] >= lo {
					edges[ni] = true
					q.PushBack(ni)
				}
			}
		}
	}
	return edges
}

// sobelMagnitude fills mag with the Sobel gradient magnitude scaled back to
// the 0..255 intensity range.
func sobelMagnitude(gray *image.Gray, mag []float32, w, h int) {
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
		for x := 0; x < w; x++ {
			gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			m := math.Hypot(float64(gx), float64(gy)) / 4
			if m > 255 {
				m = 255
			}
			mag[y*w+x] = float32(m)
		}
	}
}
