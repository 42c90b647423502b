// Package config provides configuration loading and management for graphcutenergy.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"gopkg.in/yaml.v3"

	"graphcutenergy/pkg/energy"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Energy term parameters
	Energy struct {
		// Sigma controls how fast the boundary term decays with intensity difference
		Sigma float64 `yaml:"sigma"`

		// Neighborhood is the number of neighbor directions: 4, 6, 8 or 26
		Neighborhood string `yaml:"neighborhood"`

		// WeightType names the numeric type of graph edge weights
		WeightType string `yaml:"weightType"`
	} `yaml:"energy"`

	// Seed label values
	Labels struct {
		Foreground uint8 `yaml:"foreground"`
		Background uint8 `yaml:"background"`
	} `yaml:"labels"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use for the audit
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Calibration table parameters
	Calibration struct {
		// MaxDifference is the largest intensity difference sampled
		MaxDifference float64 `yaml:"maxDifference"`

		// Steps is the number of samples in the table
		Steps int `yaml:"steps"`
	} `yaml:"calibration"`

	// Synthetic volume parameters
	Phantom struct {
		Width  int     `yaml:"width"`
		Height int     `yaml:"height"`
		Depth  int     `yaml:"depth"`
		Radius float64 `yaml:"radius"`
		Noise  float64 `yaml:"noise"`
		Seed   int64   `yaml:"seed"`
	} `yaml:"phantom"`

	// Output parameters
	Output struct {
		// Verbose prints the per-step report in addition to the log
		Verbose bool `yaml:"verbose"`

		// LogLevel is a zerolog level name
		LogLevel string `yaml:"logLevel"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Energy.Sigma = energy.DefaultSigma
	cfg.Energy.Neighborhood = "6"
	cfg.Energy.WeightType = "uint16"

	cfg.Labels.Foreground = 1
	cfg.Labels.Background = 2

	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default

	cfg.Calibration.MaxDifference = 1.0
	cfg.Calibration.Steps = 11

	cfg.Phantom.Width = 32
	cfg.Phantom.Height = 32
	cfg.Phantom.Depth = 32
	cfg.Phantom.Radius = 10
	cfg.Phantom.Noise = 0.02
	cfg.Phantom.Seed = 1

	cfg.Output.Verbose = true
	cfg.Output.LogLevel = "info"

	return cfg
}

// Validate checks the configuration and returns the first problem found
func (c *Config) Validate() error {
	if err := energy.ValidateSigma(c.Energy.Sigma); err != nil {
		return fmt.Errorf("energy.sigma: %w", err)
	}
	if _, err := energy.ParseNeighborhood(c.Energy.Neighborhood); err != nil {
		return fmt.Errorf("energy.neighborhood: %w", err)
	}
	if !slices.Contains(energy.WeightTypeNames, c.Energy.WeightType) {
		return fmt.Errorf("energy.weightType: unknown weight type %q", c.Energy.WeightType)
	}
	if c.Labels.Foreground == c.Labels.Background {
		return errors.New("labels: foreground and background must differ")
	}
	if c.Labels.Foreground == 0 || c.Labels.Background == 0 {
		return errors.New("labels: 0 is reserved for unlabeled voxels")
	}
	if c.Processing.NumCores < 1 {
		return fmt.Errorf("processing.numCores: must be positive, got %d", c.Processing.NumCores)
	}
	if c.Calibration.Steps < 2 {
		return fmt.Errorf("calibration.steps: need at least 2, got %d", c.Calibration.Steps)
	}
	if !(c.Calibration.MaxDifference > 0) {
		return fmt.Errorf("calibration.maxDifference: must be positive, got %g", c.Calibration.MaxDifference)
	}
	if c.Phantom.Width < 1 || c.Phantom.Height < 1 || c.Phantom.Depth < 1 {
		return fmt.Errorf("phantom: invalid dimensions %dx%dx%d", c.Phantom.Width, c.Phantom.Height, c.Phantom.Depth)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
