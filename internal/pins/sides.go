package pins

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// sideOrder fixes the (count, name) tie-break ordering for side selection.
var sideOrder = []Side{SideBottom, SideLeft, SideRight, SideTop}

// estimateTotal derives a best-guess total pin count from the most regular
// side's spacing and multiplies by four. The four-fold symmetry assumption
// only holds for quad packages; dual packages will be over-estimated.
func estimateTotal(pins []Pin, tb TieBreak) Estimate {
	bySide := make(map[Side][]Pin, 4)
	counts := make(map[Side]int, 4)
	for _, p := range pins {
		bySide[p.Side] = append(bySide[p.Side], p)
		counts[p.Side] = len(bySide[p.Side])
	}
	if len(pins) == 0 {
		return Estimate{BySide: counts}
	}

	best := pickSide(bySide, tb)
	reg := sideRegularity(bySide[best], best)
	return Estimate{
		TotalPins:  4 * len(bySide[best]),
		BySide:     counts,
		BestSide:   best,
		Regularity: reg,
	}
}

// pickSide selects the reference side. The default preserves the historical
// "prefer left when present" rule; otherwise the side with the highest
// (count, name) pair wins.
func pickSide(bySide map[Side][]Pin, tb TieBreak) Side {
	if tb == "" {
		tb = TieBreakPreferLeft
	}
	if tb == TieBreakPreferLeft && len(bySide[SideLeft]) > 0 {
		return SideLeft
	}
	best := Side("")
	bestCount := -1
	for _, s := range sideOrder {
		n := len(bySide[s])
		if n > bestCount || (n == bestCount && s > best) {
			best = s
			bestCount = n
		}
	}
	return best
}

// sideRegularity scores how evenly the side's pins are spaced along its
// dominant axis: count / (1 + coefficient of variation of consecutive
// spacing). Sides with fewer than 3 pins have no spacing variance and score
// their bare count.
func sideRegularity(pins []Pin, side Side) float64 {
	n := len(pins)
	if n == 0 {
		return 0
	}
	if n < 3 {
		return float64(n)
	}

	pos := make([]float64, n)
	for i, p := range pins {
		if side == SideTop || side == SideBottom {
			pos[i] = p.Center.X
		} else {
			pos[i] = p.Center.Y
		}
	}
	sort.Float64s(pos)

	gaps := make([]float64, n-1)
	for i := 1; i < n; i++ {
		gaps[i-1] = pos[i] - pos[i-1]
	}
	mean := stat.Mean(gaps, nil)
	if mean <= 0 {
		return float64(n)
	}
	cv := stat.StdDev(gaps, nil) / mean
	return float64(n) / (1 + cv)
}
