// Package detector isolates the IC body silhouette from a preprocessed
// photograph: edge extraction, morphological closing, contour tracing and
// shape filtering, wrapped in a strict-to-relaxed strategy cascade for
// low-contrast packages.
package detector

// Variant selects which preprocessed image a strategy operates on.
type Variant int

const (
	VariantStandard Variant = iota
	VariantEnhanced
)

func (v Variant) String() string {
	if v == VariantEnhanced {
		return "enhanced"
	}
	return "standard"
}

// Params is the complete parameter set for one body-detection pass.
// All fields are value-typed; a Params is immutable once constructed.
type Params struct {
	Variant         Variant
	CannyLow        uint8   // hysteresis low threshold
	CannyHigh       uint8   // hysteresis high threshold
	CloseKernel     int     // closing kernel size (k x k)
	CloseIterations int     // closing iteration count
	MinAreaFrac     float64 // minimum hull area as a fraction of image area
	MaxAreaFrac     float64 // maximum hull area as a fraction of image area
	ExtentMin       float64 // reject hulls with extent <= this
	AspectMax       float64 // reject boxes with aspect ratio >= this
}

// Strategy names one pass of the detection cascade.
type Strategy struct {
	Name   string
	Params Params
}

// Well-known strategy names, ordered strict to relaxed.
const (
	StrategyStandard   = "standard"
	StrategyEnhanced   = "enhanced"
	StrategyAggressive = "aggressive"
)

// Strategies returns the fixed detection cascade, ordered strict-to-relaxed.
// Later entries trade precision for recall: they accept weaker geometric
// evidence, which is what recessed no-lead packages leave behind.
func Strategies() []Strategy {
	return []Strategy{
		{
			Name: StrategyStandard,
			Params: Params{
				Variant:         VariantStandard,
				CannyLow:        50,
				CannyHigh:       150,
				CloseKernel:     5,
				CloseIterations: 2,
				MinAreaFrac:     0.005,
				MaxAreaFrac:     0.9,
				ExtentMin:       0.40,
				AspectMax:       5,
			},
		},
		{
			Name: StrategyEnhanced,
			Params: Params{
				Variant:         VariantEnhanced,
				CannyLow:        30,
				CannyHigh:       100,
				CloseKernel:     7,
				CloseIterations: 3,
				MinAreaFrac:     0.003,
				MaxAreaFrac:     0.9,
				ExtentMin:       0.35,
				AspectMax:       6,
			},
		},
		{
			Name: StrategyAggressive,
			Params: Params{
				Variant:         VariantEnhanced,
				CannyLow:        20,
				CannyHigh:       80,
				CloseKernel:     9,
				CloseIterations: 4,
				MinAreaFrac:     0.002,
				MaxAreaFrac:     0.9,
				ExtentMin:       0.30,
				AspectMax:       7,
			},
		},
	}
}
