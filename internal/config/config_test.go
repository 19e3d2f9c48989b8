package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"output format", func(c *Config) { c.Output.Format = "xml" }, "invalid output format"},
		{"server port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"upload size", func(c *Config) { c.Server.MaxUploadMB = -1 }, "invalid max upload"},
		{"timeout", func(c *Config) { c.Server.TimeoutSec = 0 }, "invalid timeout"},
		{"batch workers", func(c *Config) { c.Batch.Workers = 0 }, "invalid batch workers"},
		{"tile size", func(c *Config) { c.Measure.Preprocess.TileSize = 0 }, "invalid tile size"},
		{"pin area window", func(c *Config) { c.Measure.Pins.MaxArea = 1 }, "invalid pin area window"},
		{"calibration", func(c *Config) { c.Calibration = CalibrationConfig{} }, "invalid calibration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCalibrationToModelExplicitWins(t *testing.T) {
	cal := CalibrationConfig{
		MMPerPixel:     0.1,
		FocalLengthMM:  4,
		SensorHeightMM: 6,
		CameraHeightMM: 200,
	}
	mmPerPx, err := cal.ToModel().Resolve(600)
	require.NoError(t, err)
	require.InDelta(t, 0.1, mmPerPx, 1e-12)
}

func TestCalibrationToModelFromCamera(t *testing.T) {
	cal := CalibrationConfig{
		FocalLengthMM:  4,
		SensorHeightMM: 6,
		CameraHeightMM: 200,
	}
	mmPerPx, err := cal.ToModel().Resolve(600)
	require.NoError(t, err)
	require.InDelta(t, 0.5, mmPerPx, 1e-12)
}
