// Package cmd implements the chipgauge command-line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/chipgauge/internal/config"
	"github.com/MeKo-Tech/chipgauge/internal/version"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// newRootCmd builds a fresh command tree. Every invocation gets its own
// tree so flag state never leaks between executions.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chipgauge",
		Short: "Optical dimension measurement for chip packages",
		Long: `chipgauge measures integrated-circuit packages from top-down
photographs: it finds the package body, fits a rotated rectangle, converts
pixels to millimeters via camera calibration, and locates the pins along
the package edges.

Examples:
  chipgauge measure chip.png --mm-per-pixel 0.05
  chipgauge batch ./scans --format csv --output results.csv
  chipgauge serve --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _ := cmd.PersistentFlags().GetBool("version")
			if v {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
				return nil
			}
			return cmd.Help()
		},
	}

	// Global flags that apply to all commands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/chipgauge, /etc/chipgauge)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("version", false, "print version information and exit")

	// Calibration flags shared by all measuring commands
	rootCmd.PersistentFlags().Float64("mm-per-pixel", 0, "explicit scale in millimeters per pixel")
	rootCmd.PersistentFlags().Float64("focal-length", 0, "camera focal length in millimeters")
	rootCmd.PersistentFlags().Float64("sensor-height", 0, "camera sensor height in millimeters")
	rootCmd.PersistentFlags().Float64("camera-height", 0, "camera distance above the part in millimeters")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("calibration.mm_per_pixel", rootCmd.PersistentFlags().Lookup("mm-per-pixel"))
	_ = viper.BindPFlag("calibration.focal_length_mm", rootCmd.PersistentFlags().Lookup("focal-length"))
	_ = viper.BindPFlag("calibration.sensor_height_mm", rootCmd.PersistentFlags().Lookup("sensor-height"))
	_ = viper.BindPFlag("calibration.camera_height_mm", rootCmd.PersistentFlags().Lookup("camera-height"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if globalConfig == nil {
			initConfig()
		}

		var logLevel slog.Level
		if globalConfig.Verbose {
			logLevel = slog.LevelDebug
		} else {
			switch globalConfig.LogLevel {
			case "debug":
				logLevel = slog.LevelDebug
			case "info":
				logLevel = slog.LevelInfo
			case "warn":
				logLevel = slog.LevelWarn
			case "error":
				logLevel = slog.LevelError
			default:
				logLevel = slog.LevelInfo
			}
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	}

	rootCmd.AddCommand(newMeasureCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newServeCmd())
	return rootCmd
}

// Execute builds the command tree and runs it. Called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configLoader = config.NewLoader()

	var err error
	if cfgFile != "" {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.Load()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig returns the global configuration with CLI flag overrides applied.
func GetConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}

	// Reload from viper so flag bindings registered after the initial load
	// are reflected.
	loader := GetConfigLoader()
	var cfg config.Config
	if err := loader.GetViper().Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling updated configuration: %v\n", err)
		return globalConfig
	}

	return &cfg
}

// GetConfigLoader returns the global configuration loader.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader()
	}
	return configLoader
}
