package preprocess

import "image"

// CLAHE applies contrast-limited adaptive histogram equalization over a
// grid of tiles x tiles regions. Per-tile histograms are clipped at
// clipLimit times the uniform bin height, the excess redistributed evenly,
// and the resulting per-tile mappings bilinearly interpolated per pixel to
// avoid tile seams.
func CLAHE(gray *image.Gray, clipLimit float64, tiles int) *image.Gray {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}
	if tiles < 1 {
		tiles = 1
	}
	if clipLimit < 1 {
		clipLimit = 1
	}

	maps := buildTileMappings(gray, w, h, tiles, clipLimit)

	tileW := float64(w) / float64(tiles)
	tileH := float64(h) / float64(tiles)
	for y := 0; y < h; y++ {
		src := gray.Pix[y*gray.Stride:]
		dst := out.Pix[y*out.Stride:]
		// Continuous tile coordinate of this row's center.
		ty := (float64(y)+0.5)/tileH - 0.5
		ty0, fy := splitTileCoord(ty, tiles)
		for x := 0; x < w; x++ {
			tx := (float64(x)+0.5)/tileW - 0.5
			tx0, fx := splitTileCoord(tx, tiles)
			v := src[x]
			v00 := float64(maps[ty0*tiles+tx0][v])
			v01 := float64(maps[ty0*tiles+minInt(tx0+1, tiles-1)][v])
			v10 := float64(maps[minInt(ty0+1, tiles-1)*tiles+tx0][v])
			v11 := float64(maps[minInt(ty0+1, tiles-1)*tiles+minInt(tx0+1, tiles-1)][v])
			top := v00*(1-fx) + v01*fx
			bot := v10*(1-fx) + v11*fx
			dst[x] = uint8(top*(1-fy) + bot*fy + 0.5)
		}
	}
	return out
}

// buildTileMappings computes the clipped-equalization LUT for every tile.
func buildTileMappings(gray *image.Gray, w, h, tiles int, clipLimit float64) [][256]uint8 {
	maps := make([][256]uint8, tiles*tiles)
	for ty := 0; ty < tiles; ty++ {
		y0 := ty * h / tiles
		y1 := (ty + 1) * h / tiles
		for tx := 0; tx < tiles; tx++ {
			x0 := tx * w / tiles
			x1 := (tx + 1) * w / tiles
			maps[ty*tiles+tx] = clippedEqualization(gray, x0, y0, x1, y1, clipLimit)
		}
	}
	return maps
}

func clippedEqualization(gray *image.Gray, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]int
	n := 0
	for y := y0; y < y1; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := x0; x < x1; x++ {
			hist[row[x]]++
			n++
		}
	}
	var lut [256]uint8
	if n == 0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	// Clip histogram and redistribute the excess uniformly.
	clip := int(clipLimit * float64(n) / 256)
	if clip < 1 {
		clip = 1
	}
	excess := 0
	for i, c := range hist {
		if c > clip {
			excess += c - clip
			hist[i] = clip
		}
	}
	share := excess / 256
	rem := excess % 256
	for i := range hist {
		hist[i] += share
		if i < rem {
			hist[i]++
		}
	}

	// Cumulative mapping scaled to [0, 255].
	cum := 0
	for i, c := range hist {
		cum += c
		lut[i] = uint8((cum*255 + n/2) / n)
	}
	return lut
}

// splitTileCoord splits a continuous tile coordinate into the lower tile
// index and the interpolation fraction, clamped to the grid.
func splitTileCoord(t float64, tiles int) (int, float64) {
	if t < 0 {
		return 0, 0
	}
	i := int(t)
	if i >= tiles-1 {
		return tiles - 1, 0
	}
	return i, t - float64(i)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
