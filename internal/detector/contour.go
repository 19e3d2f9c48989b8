package detector

import (
	"container/list"

	"github.com/MeKo-Tech/chipgauge/internal/utils"
)

// Contour is the traced outer boundary of one connected region in a binary
// mask, with its pixel count and axis-aligned bounding box.
type Contour struct {
	Points    []utils.Point
	Box       utils.Box
	PixelArea int
}

// compStats tracks the extent of one connected component during labeling.
type compStats struct {
	count                  int
	minX, minY, maxX, maxY int
}

// ExtractContours labels 8-connected components of the mask and traces the
// external boundary polygon of each one with Moore-neighbor tracing.
// Components whose boundary degenerates to fewer than 3 points are dropped.
func ExtractContours(mask []bool, w, h int) []Contour {
	if len(mask) != w*h || w == 0 || h == 0 {
		return nil
	}
	comps, labels := labelComponents(mask, w, h)
	out := make([]Contour, 0, len(comps))
	for i, st := range comps {
		pts := traceBoundary(labels, w, h, i+1, st)
		if len(pts) < 3 {
			continue
		}
		out = append(out, Contour{
			Points: pts,
			Box: utils.NewBox(float64(st.minX), float64(st.minY),
				float64(st.maxX+1), float64(st.maxY+1)),
			PixelArea: st.count,
		})
	}
	return out
}

// labelComponents assigns a positive label to every 8-connected region.
func labelComponents(mask []bool, w, h int) ([]compStats, []int) {
	labels := make([]int, w*h)
	var comps []compStats
	next := 1
	for y := range h {
		for x := range w {
			idx := y*w + x
			if mask[idx] && labels[idx] == 0 {
				comps = append(comps, floodLabel(mask, labels, w, h, x, y, next))
				next++
			}
		}
	}
	return comps, labels
}

func floodLabel(mask []bool, labels []int, w, h, sx, sy, label int) compStats {
	st := compStats{minX: sx, minY: sy, maxX: sx, maxY: sy}
	q := list.New()
	start := sy*w + sx
	labels[start] = label
	q.PushBack(start)
	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%w, ci/w
		st.count++
		if cx < st.minX {
			st.minX = cx
		}
		if cy < st.minY {
			st.minY = cy
		}
		if cx > st.maxX {
			st.maxX = cx
		}
		if cy > st.maxY {
			st.maxY = cy
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := cx+dx, cy+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				ni := ny*w + nx
				if mask[ni] && labels[ni] == 0 {
					labels[ni] = label
					q.PushBack(ni)
				}
			}
		}
	}
	return st
}

// traceBoundary walks the outer boundary of the labeled component using
// Moore-neighbor tracing, collapsing collinear runs as it goes. Returned
// points are pixel-center coordinates.
func traceBoundary(labels []int, w, h, label int, st compStats) []utils.Point {
	sx, sy := boundaryStart(labels, w, h, label, st)
	if sx == -1 {
		return nil
	}

	pts := make([]utils.Point, 0, 64)
	push := func(x, y int) {
		p := utils.Point{X: float64(x), Y: float64(y)}
		if n := len(pts); n >= 2 {
			a, b := pts[n-2], pts[n-1]
			// Drop b when a, b, p are collinear.
			if (b.X-a.X)*(p.Y-b.Y)-(b.Y-a.Y)*(p.X-b.X) == 0 {
				pts = pts[:n-1]
			}
		}
		pts = append(pts, p)
	}
	push(sx, sy)

	cx, cy := sx, sy
	bx, by := sx-1, sy // backtrack starts to the left of the start pixel
	maxSteps := 4*w*h + 8
	for range maxSteps {
		nx, ny, nbx, nby, found := nextBoundary(labels, w, h, label, cx, cy, bx, by)
		if !found {
			break
		}
		bx, by = nbx, nby
		cx, cy = nx, ny
		if len(pts) == 0 || pts[len(pts)-1].X != float64(cx) || pts[len(pts)-1].Y != float64(cy) {
			push(cx, cy)
		}
		if cx == sx && cy == sy && bx == sx-1 && by == sy {
			break
		}
	}

	// Drop a duplicated closing point.
	if n := len(pts); n >= 2 && pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	return pts
}

func boundaryStart(labels []int, w, h, label int, st compStats) (int, int) {
	for y := st.minY; y <= st.maxY; y++ {
		for x := st.minX; x <= st.maxX; x++ {
			if labels[y*w+x] == label {
				return x, y // leftmost pixel of the top row is a boundary pixel
			}
		}
	}
	return -1, -1
}

// Moore neighborhood in clockwise order: E, SE, S, SW, W, NW, N, NE.
var (
	mooreDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	mooreDY = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

func nextBoundary(labels []int, w, h, label, cx, cy, bx, by int) (int, int, int, int, bool) {
	isLabel := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return labels[y*w+x] == label
	}
	start := 0
	for i := range 8 {
		if cx+mooreDX[i] == bx && cy+mooreDY[i] == by {
			start = (i + 1) % 8
			break
		}
	}
	for k := range 8 {
		i := (start + k) % 8
		tx, ty := cx+mooreDX[i], cy+mooreDY[i]
		if isLabel(tx, ty) {
			return tx, ty, cx, cy, true
		}
		bx, by = tx, ty
	}
	return 0, 0, bx, by, false
}
