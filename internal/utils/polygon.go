package utils

import (
	"math"
	"sort"
)

// ConvexHull computes the convex hull of a set of points using the monotone
// chain algorithm. Returns the hull in CCW order without duplicating the
// first point at the end.
func ConvexHull(pts []Point) []Point {
	n := len(pts)
	if n <= 1 {
		return append([]Point(nil), pts...)
	}
	p := make([]Point, n)
	copy(p, pts)
	sort.Slice(p, func(i, j int) bool {
		if p[i].X != p[j].X {
			return p[i].X < p[j].X
		}
		return p[i].Y < p[j].Y
	})
	p = dedupeSorted(p)
	n = len(p)
	if n <= 2 {
		return append([]Point(nil), p...)
	}

	lower := make([]Point, 0, n)
	for _, pt := range p {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], pt) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, pt)
	}
	upper := make([]Point, 0, n)
	for i := n - 1; i >= 0; i-- {
		pt := p[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], pt) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, pt)
	}

	hull := make([]Point, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)
	return hull
}

func dedupeSorted(p []Point) []Point {
	q := p[:0]
	for i, pt := range p {
		if i == 0 || pt.X != p[i-1].X || pt.Y != p[i-1].Y {
			q = append(q, pt)
		}
	}
	return q
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// MinAreaRect holds a minimum-area enclosing rectangle as four corners plus
// its side lengths and the orientation of the long side in degrees.
type MinAreaRect struct {
	Corners [4]Point
	Side1   float64 // extent along the rectangle's first axis
	Side2   float64 // extent along the perpendicular axis
	AngleS1 float64 // orientation of the first axis, degrees in (-90, 90]
}

// MinimumAreaRect computes the minimum-area enclosing rectangle of the point
// set using rotating calipers over the convex hull. Degenerate inputs
// (fewer than 3 distinct points) yield a zero-area rectangle anchored at
// the points.
func MinimumAreaRect(pts []Point) MinAreaRect {
	hull := ConvexHull(pts)
	switch len(hull) {
	case 0:
		return MinAreaRect{}
	case 1:
		p := hull[0]
		return MinAreaRect{Corners: [4]Point{p, p, p, p}}
	case 2:
		a, b := hull[0], hull[1]
		return MinAreaRect{
			Corners: [4]Point{a, b, b, a},
			Side1:   a.Dist(b),
			AngleS1: degNorm(math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi),
		}
	}

	best := MinAreaRect{}
	bestArea := math.Inf(1)
	for i := range hull {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		ex, ey := b.X-a.X, b.Y-a.Y
		l := math.Hypot(ex, ey)
		if l == 0 {
			continue
		}
		ux, uy := ex/l, ey/l // edge direction
		vx, vy := -uy, ux    // perpendicular

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := p.X*ux + p.Y*uy
			v := p.X*vx + p.Y*vy
			minU = math.Min(minU, u)
			maxU = math.Max(maxU, u)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
		area := (maxU - minU) * (maxV - minV)
		if area >= bestArea {
			continue
		}
		bestArea = area
		best = MinAreaRect{
			Corners: [4]Point{
				{X: ux*minU + vx*minV, Y: uy*minU + vy*minV},
				{X: ux*maxU + vx*minV, Y: uy*maxU + vy*minV},
				{X: ux*maxU + vx*maxV, Y: uy*maxU + vy*maxV},
				{X: ux*minU + vx*maxV, Y: uy*minU + vy*maxV},
			},
			Side1:   maxU - minU,
			Side2:   maxV - minV,
			AngleS1: degNorm(math.Atan2(uy, ux) * 180 / math.Pi),
		}
	}
	return best
}

// degNorm normalizes an angle in degrees to the interval (-90, 90].
func degNorm(deg float64) float64 {
	for deg > 90 {
		deg -= 180
	}
	for deg <= -90 {
		deg += 180
	}
	return deg
}
