package config

import (
	"github.com/MeKo-Tech/chipgauge/internal/measure"
)

// Config represents the complete configuration for the chipgauge application.
// It covers all commands (measure, batch, serve) and supports loading from
// configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose"   yaml:"verbose"   json:"verbose"`

	// Camera calibration
	Calibration CalibrationConfig `mapstructure:"calibration" yaml:"calibration" json:"calibration"`

	// Measurement pipeline settings
	Measure measure.Options `mapstructure:"measure" yaml:"measure" json:"measure"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// CalibrationConfig selects between an explicit scale and the pinhole camera
// model. A non-zero MMPerPixel wins; otherwise the camera parameters are used.
type CalibrationConfig struct {
	MMPerPixel     float64 `mapstructure:"mm_per_pixel"     yaml:"mm_per_pixel"     json:"mm_per_pixel"`
	FocalLengthMM  float64 `mapstructure:"focal_length_mm"  yaml:"focal_length_mm"  json:"focal_length_mm"`
	SensorHeightMM float64 `mapstructure:"sensor_height_mm" yaml:"sensor_height_mm" json:"sensor_height_mm"`
	CameraHeightMM float64 `mapstructure:"camera_height_mm" yaml:"camera_height_mm" json:"camera_height_mm"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format       string `mapstructure:"format"        yaml:"format"        json:"format"`
	File         string `mapstructure:"file"          yaml:"file"          json:"file"`
	AnnotatedDir string `mapstructure:"annotated_dir" yaml:"annotated_dir" json:"annotated_dir"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host"             yaml:"host"             json:"host"`
	Port            int    `mapstructure:"port"             yaml:"port"             json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin"      yaml:"cors_origin"      json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb"    yaml:"max_upload_mb"    json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec"      yaml:"timeout_sec"      json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	AnnotateEnabled bool   `mapstructure:"annotate_enabled" yaml:"annotate_enabled" json:"annotate_enabled"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int    `mapstructure:"workers"           yaml:"workers"           json:"workers"`
	OutputDir       string `mapstructure:"output_dir"        yaml:"output_dir"        json:"output_dir"`
	ContinueOnError bool   `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}
