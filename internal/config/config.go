// Package config defines the application configuration and loads it from
// files, environment variables, and flags via viper.
package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/chipgauge/internal/calibrate"
	"github.com/MeKo-Tech/chipgauge/internal/measure"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Calibration: CalibrationConfig{
			MMPerPixel: 0.05,
		},
		Measure: measure.DefaultOptions(),
		Output: OutputConfig{
			Format: "text",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
			AnnotateEnabled: true,
		},
		Batch: BatchConfig{
			Workers:         4,
			ContinueOnError: false,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)",
			c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json", "csv"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)",
			c.Output.Format, strings.Join(validFormats, ", "))
	}

	if _, err := c.Calibration.ToModel().Resolve(1); err != nil {
		return fmt.Errorf("invalid calibration: %w", err)
	}

	if c.Measure.Preprocess.TileSize <= 0 {
		return fmt.Errorf("invalid tile size: %d (must be positive)", c.Measure.Preprocess.TileSize)
	}
	if c.Measure.Pins.MinArea < 0 || c.Measure.Pins.MaxArea < c.Measure.Pins.MinArea {
		return fmt.Errorf("invalid pin area window: [%g, %g]",
			c.Measure.Pins.MinArea, c.Measure.Pins.MaxArea)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}

	return nil
}

// ToModel builds the calibration model the configuration describes. An
// explicit mm-per-pixel scale takes precedence over the camera parameters.
func (c CalibrationConfig) ToModel() calibrate.Model {
	if c.MMPerPixel > 0 {
		return calibrate.Explicit(c.MMPerPixel)
	}
	return calibrate.FromCamera(calibrate.Camera{
		FocalLengthMM:  c.FocalLengthMM,
		SensorHeightMM: c.SensorHeightMM,
		CameraHeightMM: c.CameraHeightMM,
	})
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
