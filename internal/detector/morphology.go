package detector

import "github.com/MeKo-Tech/chipgauge/internal/mempool"

// CloseMask applies morphological closing (dilate xN then erode xN) with a
// kernel x kernel structuring element, followed by one extra dilation pass
// to strengthen weak boundaries. The input mask is not modified.
func CloseMask(mask []bool, w, h, kernel, iterations int) []bool {
	out := make([]bool, len(mask))
	copy(out, mask)
	if kernel <= 1 || iterations <= 0 {
		return out
	}
	for range iterations {
		out = DilateMask(out, w, h, kernel)
	}
	for range iterations {
		out = ErodeMask(out, w, h, kernel)
	}
	return DilateMask(out, w, h, kernel)
}

// DilateMask expands set regions by the kernel radius.
func DilateMask(mask []bool, w, h, kernel int) []bool {
	r := kernel / 2
	out := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if dilateHit(mask, w, h, x, y, r) {
				out[y*w+x] = true
			}
		}
	}
	return out
}

func dilateHit(mask []bool, w, h, x, y, r int) bool {
	for dy := -r; dy <= r; dy++ {
		ny := y + dy
		if ny < 0 || ny >= h {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			nx := x + dx
			if nx < 0 || nx >= w {
				continue
			}
			if mask[ny*w+nx] {
				return true
			}
		}
	}
	return false
}

// ErodeMask shrinks set regions by the kernel radius. Pixels whose kernel
// window leaves the image are treated as unset outside the border.
func ErodeMask(mask []bool, w, h, kernel int) []bool {
	r := kernel / 2
	out := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = erodeHit(mask, w, h, x, y, r)
		}
	}
	return out
}

func erodeHit(mask []bool, w, h, x, y, r int) bool {
	for dy := -r; dy <= r; dy++ {
		ny := y + dy
		for dx := -r; dx <= r; dx++ {
			nx := x + dx
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				return false
			}
			if !mask[ny*w+nx] {
				return false
			}
		}
	}
	return true
}

// BinarizeGray thresholds a pixel plane at t into a pooled bool mask. The
// caller must release the mask via mempool.PutBool.
func BinarizeGray(pix []uint8, stride, w, h int, t uint8) []bool {
	mask := mempool.GetBool(w * h)
	for y := 0; y < h; y++ {
		row := pix[y*stride:]
		for x := 0; x < w; x++ {
			if row[x] >= t {
				mask[y*w+x] = true
			}
		}
	}
	return mask
}
