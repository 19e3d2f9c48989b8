package detector

import (
	"image"
	"log/slog"

	"github.com/MeKo-Tech/chipgauge/internal/preprocess"
	"github.com/MeKo-Tech/chipgauge/internal/utils"
)

// Body is the accepted chip silhouette: its traced contour, convex hull and
// derived shape statistics, plus the cascade strategy that produced it.
type Body struct {
	Contour  []utils.Point
	Hull     []utils.Point
	HullArea float64
	Box      utils.Box
	Strategy string

	// EdgePadding is the per-side growth of the traced contour relative to
	// the true silhouette: the closing pass nets one dilation (kernel/2)
	// and the hysteresis edge straddles the boundary by about half a pixel
	// on each side. Callers subtract it when reporting dimensions.
	EdgePadding float64
}

// Center returns the centroid of the body's convex hull.
func (b *Body) Center() utils.Point { return utils.Centroid(b.Hull) }

// NoBodyDetectedError reports that every cascade strategy was exhausted
// without finding a plausible chip silhouette. Callers should treat it as
// "rescan requested" rather than a crash.
type NoBodyDetectedError struct {
	Tried []string
}

func (e *NoBodyDetectedError) Error() string {
	return "no chip body detected after exhausting detection strategies"
}

// Detect runs a single body-detection pass over a preprocessed grayscale
// image with the given parameters and reports the best candidate, if any.
func Detect(gray *image.Gray, p Params) (*Body, bool) {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, false
	}

	edges := edgeMap(gray, p.CannyLow, p.CannyHigh)
	closed := CloseMask(edges, w, h, p.CloseKernel, p.CloseIterations)
	contours := ExtractContours(closed, w, h)

	imgArea := float64(w * h)
	var best *Body
	for _, c := range contours {
		b, ok := evaluateCandidate(c, imgArea, p)
		if !ok {
			continue
		}
		if best == nil || b.HullArea > best.HullArea {
			best = b
		}
	}
	if best != nil {
		best.EdgePadding = float64(p.CloseKernel/2) + 1
	}
	return best, best != nil
}

// evaluateCandidate applies the shape filter from the parameter set.
// Extent favors convex rectangle-like blobs over ragged clutter; the aspect
// limit rejects thin bars and label strips.
func evaluateCandidate(c Contour, imgArea float64, p Params) (*Body, bool) {
	hull := utils.ConvexHull(c.Points)
	if len(hull) < 3 {
		return nil, false
	}
	hullArea := utils.PolygonArea(hull)
	if hullArea < p.MinAreaFrac*imgArea || hullArea > p.MaxAreaFrac*imgArea {
		return nil, false
	}
	boxArea := c.Box.Area()
	if boxArea <= 0 {
		return nil, false
	}
	if hullArea/boxArea <= p.ExtentMin {
		return nil, false
	}
	if ar := c.Box.AspectRatio(); ar == 0 || ar >= p.AspectMax {
		return nil, false
	}
	return &Body{
		Contour:  c.Points,
		Hull:     hull,
		HullArea: hullArea,
		Box:      c.Box,
	}, true
}

// DetectBody runs the strategy cascade over the input image, preprocessing
// variants lazily, and returns the first accepted body. The cascade halts
// at the first success and never merges evidence across strategies.
func DetectBody(img image.Image, pcfg preprocess.Config) (*Body, error) {
	var standard, enhanced *image.Gray
	variant := func(v Variant) *image.Gray {
		if v == VariantEnhanced {
			if enhanced == nil {
				enhanced = preprocess.Enhanced(img, pcfg)
			}
			return enhanced
		}
		if standard == nil {
			standard = preprocess.Standard(img, pcfg)
		}
		return standard
	}

	tried := make([]string, 0, 3)
	for _, s := range Strategies() {
		gray := variant(s.Params.Variant)
		body, ok := Detect(gray, s.Params)
		tried = append(tried, s.Name)
		if ok {
			body.Strategy = s.Name
			slog.Debug("body detected",
				"strategy", s.Name,
				"hull_area", body.HullArea,
				"contour_points", len(body.Contour))
			return body, nil
		}
		slog.Debug("detection strategy failed", "strategy", s.Name)
	}
	return nil, &NoBodyDetectedError{Tried: tried}
}
