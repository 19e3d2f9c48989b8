// Package calibrate converts pixel measurements to millimeters, either from
// an explicit scale factor or from a pinhole-camera model.
//
// The pinhole model assumes the object plane is parallel to the sensor and
// centered on the optical axis; no perspective or lens-distortion correction
// is applied. That is a documented accuracy limitation, not a bug.
package calibrate

import "fmt"

// Camera holds the pinhole projection parameters. All values are in
// millimeters except the image height, which is supplied at resolve time.
type Camera struct {
	FocalLengthMM  float64 `mapstructure:"focal_length_mm"  yaml:"focal_length_mm"  json:"focal_length_mm"`
	SensorHeightMM float64 `mapstructure:"sensor_height_mm" yaml:"sensor_height_mm" json:"sensor_height_mm"`
	CameraHeightMM float64 `mapstructure:"camera_height_mm" yaml:"camera_height_mm" json:"camera_height_mm"`
}

// Model resolves a millimeters-per-pixel scale. Exactly one source is used:
// an explicit MMPerPixel when positive (caller-supplied ground truth, e.g.
// from a calibration target in frame), otherwise the camera parameters.
// A Model must stay fixed for the lifetime of a single measurement call.
type Model struct {
	MMPerPixel float64 `mapstructure:"mm_per_pixel" yaml:"mm_per_pixel" json:"mm_per_pixel"`
	Camera     Camera  `mapstructure:"camera"       yaml:"camera"       json:"camera"`
}

// InvalidCalibrationError reports non-positive calibration input. It is a
// configuration bug on the caller's side, not a per-image condition.
type InvalidCalibrationError struct {
	Param string
	Value float64
}

func (e *InvalidCalibrationError) Error() string {
	return fmt.Sprintf("invalid calibration: %s must be positive, got %g", e.Param, e.Value)
}

// Explicit returns a model with a literal scale factor.
func Explicit(mmPerPixel float64) Model {
	return Model{MMPerPixel: mmPerPixel}
}

// FromCamera returns a model derived from pinhole parameters.
func FromCamera(c Camera) Model {
	return Model{Camera: c}
}

// Resolve computes the millimeters-per-pixel scale for an image of the
// given pixel height. Pure function; identical inputs always produce the
// identical scale.
func (m Model) Resolve(imageHeightPx int) (float64, error) {
	if m.MMPerPixel != 0 {
		if m.MMPerPixel < 0 {
			return 0, &InvalidCalibrationError{Param: "mm_per_pixel", Value: m.MMPerPixel}
		}
		return m.MMPerPixel, nil
	}
	c := m.Camera
	switch {
	case c.FocalLengthMM <= 0:
		return 0, &InvalidCalibrationError{Param: "focal_length_mm", Value: c.FocalLengthMM}
	case c.SensorHeightMM <= 0:
		return 0, &InvalidCalibrationError{Param: "sensor_height_mm", Value: c.SensorHeightMM}
	case c.CameraHeightMM <= 0:
		return 0, &InvalidCalibrationError{Param: "camera_height_mm", Value: c.CameraHeightMM}
	case imageHeightPx <= 0:
		return 0, &InvalidCalibrationError{Param: "image_height_px", Value: float64(imageHeightPx)}
	}
	// Similar triangles: the sensor sees sensorH*cameraH/focal millimeters
	// of object plane over imageHeightPx pixels.
	return c.SensorHeightMM * c.CameraHeightMM / (c.FocalLengthMM * float64(imageHeightPx)), nil
}
