package detector

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func sparseMask(w, h int) []bool {
	mask := make([]bool, w*h)
	for i := range mask {
		if i%(w+1) == 0 {
			mask[i] = true
		}
	}
	return mask
}

// TestDilateMask_Superset verifies dilation never clears a set pixel.
func TestDilateMask_Superset(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("dilation output is a superset of the input", prop.ForAll(
		func(w, h int) bool {
			mask := sparseMask(w, h)
			dilated := DilateMask(mask, w, h, 3)

			if len(dilated) != len(mask) {
				return false
			}
			grew := 0
			for i := range mask {
				if mask[i] && !dilated[i] {
					return false
				}
				if !mask[i] && dilated[i] {
					grew++
				}
			}
			return grew > 0
		},
		gen.IntRange(5, 30),
		gen.IntRange(5, 30),
	))

	properties.TestingRun(t)
}

// TestErodeMask_Subset verifies erosion never sets a cleared pixel.
func TestErodeMask_Subset(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("erosion output is a subset of the input", prop.ForAll(
		func(w, h int) bool {
			mask := make([]bool, w*h)
			for i := range mask {
				mask[i] = true
			}
			// Punch holes so erosion has edges to eat into.
			for i := 0; i < len(mask); i += w + 1 {
				mask[i] = false
			}

			eroded := ErodeMask(mask, w, h, 3)

			if len(eroded) != len(mask) {
				return false
			}
			shrunk := 0
			for i := range mask {
				if !mask[i] && eroded[i] {
					return false
				}
				if mask[i] && !eroded[i] {
					shrunk++
				}
			}
			return shrunk > 0
		},
		gen.IntRange(5, 30),
		gen.IntRange(5, 30),
	))

	properties.TestingRun(t)
}

// TestCloseMask_InteriorSuperset verifies closing never clears a set pixel
// away from the image border. Erosion treats out-of-bounds pixels as unset,
// so extensivity only holds for pixels the border rule cannot reach.
func TestCloseMask_InteriorSuperset(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("closing preserves set pixels in the interior", prop.ForAll(
		func(w, h, iterations int) bool {
			mask := sparseMask(w, h)
			closed := CloseMask(mask, w, h, 3, iterations)

			if len(closed) != len(mask) {
				return false
			}
			margin := iterations + 1
			for y := margin; y < h-margin; y++ {
				for x := margin; x < w-margin; x++ {
					i := y*w + x
					if mask[i] && !closed[i] {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(10, 30),
		gen.IntRange(10, 30),
		gen.IntRange(1, 3),
	))

	properties.TestingRun(t)
}

// TestDilateMask_KernelMonotonicity verifies a larger kernel dilates at
// least as much as a smaller one.
func TestDilateMask_KernelMonotonicity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("larger kernel dilates at least as much", prop.ForAll(
		func(w, h int) bool {
			mask := make([]bool, w*h)
			mask[(h/2)*w+w/2] = true

			d3 := DilateMask(mask, w, h, 3)
			d5 := DilateMask(mask, w, h, 5)

			count3, count5 := 0, 0
			for i := range d3 {
				if d3[i] {
					count3++
				}
				if d5[i] {
					count5++
				}
			}
			return count5 >= count3
		},
		gen.IntRange(7, 30),
		gen.IntRange(7, 30),
	))

	properties.TestingRun(t)
}

// TestDilateErode_KernelOneIsIdentity verifies a 1x1 kernel changes nothing.
func TestDilateErode_KernelOneIsIdentity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("kernel size 1 is the identity", prop.ForAll(
		func(w, h int) bool {
			mask := sparseMask(w, h)

			dilated := DilateMask(mask, w, h, 1)
			eroded := ErodeMask(mask, w, h, 1)

			for i := range mask {
				if dilated[i] != mask[i] || eroded[i] != mask[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(5, 30),
		gen.IntRange(5, 30),
	))

	properties.TestingRun(t)
}
