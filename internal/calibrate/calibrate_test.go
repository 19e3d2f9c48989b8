package calibrate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve_ExplicitScale(t *testing.T) {
	m := Explicit(0.05)
	s, err := m.Resolve(600)
	require.NoError(t, err)
	require.Equal(t, 0.05, s)
}

func TestResolve_CameraModel(t *testing.T) {
	m := FromCamera(Camera{
		FocalLengthMM:  4.0,
		SensorHeightMM: 6.0,
		CameraHeightMM: 200.0,
	})
	s, err := m.Resolve(600)
	require.NoError(t, err)
	// 6 * 200 / (4 * 600) = 0.5 mm/px
	require.InDelta(t, 0.5, s, 1e-12)
}

func TestResolve_RoundTripIdempotent(t *testing.T) {
	m := FromCamera(Camera{FocalLengthMM: 4, SensorHeightMM: 6, CameraHeightMM: 200})
	s1, err := m.Resolve(600)
	require.NoError(t, err)
	s2, err := m.Resolve(600)
	require.NoError(t, err)
	require.Equal(t, s1, s2)

	widthPx := 400.0
	require.Equal(t, widthPx*s1, widthPx*s2)
}

func TestResolve_LinearInCameraHeight(t *testing.T) {
	base := Camera{FocalLengthMM: 4, SensorHeightMM: 6, CameraHeightMM: 100}
	s1, err := FromCamera(base).Resolve(800)
	require.NoError(t, err)

	base.CameraHeightMM = 300
	s3, err := FromCamera(base).Resolve(800)
	require.NoError(t, err)
	require.InDelta(t, 3.0, s3/s1, 1e-12)
}

func TestResolve_InvalidInputs(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		hPx   int
		param string
	}{
		{"negative explicit", Explicit(-1), 600, "mm_per_pixel"},
		{"zero focal", FromCamera(Camera{SensorHeightMM: 6, CameraHeightMM: 200}), 600, "focal_length_mm"},
		{"zero sensor", FromCamera(Camera{FocalLengthMM: 4, CameraHeightMM: 200}), 600, "sensor_height_mm"},
		{"zero camera height", FromCamera(Camera{FocalLengthMM: 4, SensorHeightMM: 6}), 600, "camera_height_mm"},
		{
			"zero image height",
			FromCamera(Camera{FocalLengthMM: 4, SensorHeightMM: 6, CameraHeightMM: 200}),
			0,
			"image_height_px",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.model.Resolve(tt.hPx)
			var calErr *InvalidCalibrationError
			require.ErrorAs(t, err, &calErr)
			require.Equal(t, tt.param, calErr.Param)
		})
	}
}
