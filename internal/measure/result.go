package measure

import (
	"encoding/json"

	"github.com/MeKo-Tech/chipgauge/internal/pins"
)

// ResultJSON is the serializable representation of a measurement, shared by
// the CLI and the HTTP server.
type ResultJSON struct {
	WidthMM      float64       `json:"width_mm"`
	HeightMM     float64       `json:"height_mm"`
	AreaMM2      float64       `json:"area_mm2"`
	WidthPx      float64       `json:"width_px"`
	HeightPx     float64       `json:"height_px"`
	MMPerPixel   float64       `json:"mm_per_pixel"`
	AngleDegrees float64       `json:"angle_degrees"`
	CenterX      float64       `json:"center_x"`
	CenterY      float64       `json:"center_y"`
	Strategy     string        `json:"strategy"`
	Confidence   string        `json:"confidence"`
	LowPinSignal bool          `json:"low_pin_signal"`
	PinCount     int           `json:"pin_count"`
	PinEstimate  pins.Estimate `json:"pin_estimate"`
	Pins         []pins.Pin    `json:"pins,omitempty"`
}

// ToJSON converts a result to its serializable form.
func (r *Result) ToJSON() ResultJSON {
	return ResultJSON{
		WidthMM:      r.WidthMM,
		HeightMM:     r.HeightMM,
		AreaMM2:      r.AreaMM2,
		WidthPx:      r.WidthPx,
		HeightPx:     r.HeightPx,
		MMPerPixel:   r.MMPerPixel,
		AngleDegrees: r.Angle,
		CenterX:      r.Center.X,
		CenterY:      r.Center.Y,
		Strategy:     r.Strategy,
		Confidence:   string(r.Confidence),
		LowPinSignal: r.LowPinSignal,
		PinCount:     len(r.Pins),
		PinEstimate:  r.PinEstimate,
		Pins:         r.Pins,
	}
}

// MarshalIndent renders the result as indented JSON.
func (r *Result) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(r.ToJSON(), "", "  ")
}
