// Package config loads protplot configuration from .protplot/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/protplot/protplot/internal/output"
	"github.com/protplot/protplot/internal/track"
)

// ConfigFileName is the name of the protplot configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the protplot configuration directory
const ConfigDirName = ".protplot"

// Config holds all protplot configuration
type Config struct {
	Render RenderConfig `yaml:"render"`
	Serve  ServeConfig  `yaml:"serve"`
	Output OutputConfig `yaml:"output"`
}

// RenderConfig holds defaults for track rendering
type RenderConfig struct {
	FigureWidth int    `yaml:"figure_width"`
	Shape       string `yaml:"shape"`
	Palette     string `yaml:"palette"`
}

// ServeConfig holds configuration for the web GUI
type ServeConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// OutputConfig holds configuration for listing output
type OutputConfig struct {
	Format string `yaml:"format"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .protplot/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking
// up the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		// No config dir found, return defaults
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .protplot directory by walking up from startDir.
// Returns the path to the .protplot directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root, config not found
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .protplot directory if it doesn't exist.
// Returns the path to the .protplot directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	if cfg.Render.FigureWidth <= 0 {
		return fmt.Errorf("%w: figure_width must be positive, got %d",
			ErrInvalidConfig, cfg.Render.FigureWidth)
	}

	if _, err := track.ParseShape(cfg.Render.Shape); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if cfg.Render.Palette != "fixed" && cfg.Render.Palette != "random" {
		return fmt.Errorf("%w: palette must be fixed or random, got %q",
			ErrInvalidConfig, cfg.Render.Palette)
	}

	if cfg.Serve.Addr == "" {
		return fmt.Errorf("%w: serve addr must not be empty", ErrInvalidConfig)
	}

	if cfg.Serve.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive, got %d",
			ErrInvalidConfig, cfg.Serve.MaxUploadBytes)
	}

	if !output.ValidateFormat(output.Format(cfg.Output.Format)) {
		return fmt.Errorf("%w: format must be one of yaml, json, tsv, got %q",
			ErrInvalidConfig, cfg.Output.Format)
	}

	return nil
}

// SaveDefault writes the default configuration to .protplot/config.yaml
// in workDir. Creates the .protplot directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# protplot configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
