package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "chipgauge"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "CHIPGAUGE"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	// Use the global viper instance to ensure flag bindings work
	return &Loader{v: viper.GetViper()}
}

// NewLoaderWith creates a loader around a caller-provided viper instance,
// which keeps tests isolated from global flag bindings.
func NewLoaderWith(v *viper.Viper) *Loader {
	return &Loader{v: v}
}

// Load loads configuration from files, environment variables, and defaults,
// then validates it.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")

	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env vars still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return l.unmarshalAndValidate()
}

// LoadWithFile loads configuration from a specific file path.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	return l.unmarshalAndValidate()
}

func (l *Loader) unmarshalAndValidate() (*Config, error) {
	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// Get returns a value from the configuration.
func (l *Loader) Get(key string) interface{} {
	return l.v.Get(key)
}

// Set sets a value in the configuration.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	l.v.AddConfigPath("/etc/chipgauge")

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "chipgauge"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "chipgauge"))
	}
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	// Global settings
	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	// Calibration defaults
	l.v.SetDefault("calibration.mm_per_pixel", defaults.Calibration.MMPerPixel)
	l.v.SetDefault("calibration.focal_length_mm", defaults.Calibration.FocalLengthMM)
	l.v.SetDefault("calibration.sensor_height_mm", defaults.Calibration.SensorHeightMM)
	l.v.SetDefault("calibration.camera_height_mm", defaults.Calibration.CameraHeightMM)

	// Measurement defaults
	l.v.SetDefault("measure.locate_pins", defaults.Measure.LocatePins)
	l.v.SetDefault("measure.regularity_floor", defaults.Measure.RegularityFloor)
	l.v.SetDefault("measure.visualize", defaults.Measure.Visualize)

	l.v.SetDefault("measure.preprocess.clip_limit", defaults.Measure.Preprocess.ClipLimit)
	l.v.SetDefault("measure.preprocess.tile_size", defaults.Measure.Preprocess.TileSize)
	l.v.SetDefault("measure.preprocess.enhanced_clip_limit", defaults.Measure.Preprocess.EnhancedClipLimit)
	l.v.SetDefault("measure.preprocess.enhanced_tile_size", defaults.Measure.Preprocess.EnhancedTileSize)
	l.v.SetDefault("measure.preprocess.bilateral_diameter", defaults.Measure.Preprocess.BilateralDiameter)
	l.v.SetDefault("measure.preprocess.bilateral_sigma", defaults.Measure.Preprocess.BilateralSigma)
	l.v.SetDefault("measure.preprocess.median_kernel", defaults.Measure.Preprocess.MedianKernel)
	l.v.SetDefault("measure.preprocess.gradient_kernel", defaults.Measure.Preprocess.GradientKernel)
	l.v.SetDefault("measure.preprocess.blend_weight", defaults.Measure.Preprocess.BlendWeight)

	l.v.SetDefault("measure.pins.threshold", defaults.Measure.Pins.Threshold)
	l.v.SetDefault("measure.pins.close_kernel", defaults.Measure.Pins.CloseKernel)
	l.v.SetDefault("measure.pins.min_area", defaults.Measure.Pins.MinArea)
	l.v.SetDefault("measure.pins.max_area", defaults.Measure.Pins.MaxArea)
	l.v.SetDefault("measure.pins.min_aspect", defaults.Measure.Pins.MinAspect)
	l.v.SetDefault("measure.pins.max_aspect", defaults.Measure.Pins.MaxAspect)
	l.v.SetDefault("measure.pins.exclusion_frac", defaults.Measure.Pins.ExclusionFrac)
	l.v.SetDefault("measure.pins.min_separation", defaults.Measure.Pins.MinSeparation)
	l.v.SetDefault("measure.pins.reference_size", defaults.Measure.Pins.ReferenceSize)
	l.v.SetDefault("measure.pins.tie_break", string(defaults.Measure.Pins.TieBreak))

	// Output defaults
	l.v.SetDefault("output.format", defaults.Output.Format)

	// Server defaults
	l.v.SetDefault("server.host", defaults.Server.Host)
	l.v.SetDefault("server.port", defaults.Server.Port)
	l.v.SetDefault("server.cors_origin", defaults.Server.CORSOrigin)
	l.v.SetDefault("server.max_upload_mb", defaults.Server.MaxUploadMB)
	l.v.SetDefault("server.timeout_sec", defaults.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
	l.v.SetDefault("server.annotate_enabled", defaults.Server.AnnotateEnabled)

	// Batch defaults
	l.v.SetDefault("batch.workers", defaults.Batch.Workers)
	l.v.SetDefault("batch.continue_on_error", defaults.Batch.ContinueOnError)
}

// WriteConfigToFile writes the current configuration to a file.
func (l *Loader) WriteConfigToFile(filename string) error {
	return l.v.WriteConfigAs(filename)
}

// GenerateDefaultConfigFile writes the default configuration as YAML.
func GenerateDefaultConfigFile(filename string) error {
	if filename == "" {
		filename = "chipgauge.yaml"
	}

	defaults := DefaultConfig()
	data, err := yaml.Marshal(&defaults)
	if err != nil {
		return fmt.Errorf("error encoding default config: %w", err)
	}
	return os.WriteFile(filename, data, 0o600)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
		paths = append(paths, filepath.Join(home, ".config", "chipgauge"))
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "chipgauge"))
	}

	paths = append(paths, "/etc/chipgauge")

	return paths
}
