package geometry

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/MeKo-Tech/chipgauge/internal/utils"
)

func genContour(size int) gopter.Gen {
	return gen.SliceOfN(size, gopter.CombineGens(
		gen.Float64Range(0, 800),
		gen.Float64Range(0, 600),
	).Map(func(vals []interface{}) utils.Point {
		return utils.Point{X: vals[0].(float64), Y: vals[1].(float64)}
	}))
}

// TestFitRotatedRect_CanonicalForm verifies width >= height and the angle
// stays inside (-90, 90].
func TestFitRotatedRect_CanonicalForm(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("fitted rectangle is canonical", prop.ForAll(
		func(contour []utils.Point) bool {
			r := FitRotatedRect(contour)

			if r.WidthPx < r.HeightPx {
				return false
			}
			return r.Angle > -90 && r.Angle <= 90
		},
		genContour(12),
	))

	properties.TestingRun(t)
}

// TestFitRotatedRect_AreaBounded verifies the fitted area never exceeds the
// axis-aligned bounding box area of the contour.
func TestFitRotatedRect_AreaBounded(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("fitted area <= axis-aligned bounding box area", prop.ForAll(
		func(contour []utils.Point) bool {
			if len(contour) < 3 {
				return true
			}

			r := FitRotatedRect(contour)
			aabb := utils.BoundingBox(contour)

			return r.AreaPx() <= aabb.Area()+1e-6
		},
		genContour(12),
	))

	properties.TestingRun(t)
}

// TestFitRotatedRect_CenterInsideBounds verifies the center falls within the
// contour's axis-aligned bounding box.
func TestFitRotatedRect_CenterInsideBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("center lies inside the contour bounding box", prop.ForAll(
		func(contour []utils.Point) bool {
			if len(contour) < 3 {
				return true
			}

			r := FitRotatedRect(contour)
			aabb := utils.BoundingBox(contour)

			return r.Center.X >= aabb.MinX-1e-6 && r.Center.X <= aabb.MaxX+1e-6 &&
				r.Center.Y >= aabb.MinY-1e-6 && r.Center.Y <= aabb.MaxY+1e-6
		},
		genContour(12),
	))

	properties.TestingRun(t)
}
