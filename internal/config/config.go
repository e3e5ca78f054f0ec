package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agis/defectview/internal/filter"
	"github.com/agis/defectview/internal/severity"
)

// ConfigFileName is the name of the defectview configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the defectview configuration directory
const ConfigDirName = ".defectview"

// Config holds all defectview configuration
type Config struct {
	// Products are the selectable product names. The "All" selection is
	// implicit and always offered first; it must not be listed here.
	// When empty, products are taken from the issues of each report.
	Products   []string       `yaml:"products"`
	Severities severity.Table `yaml:"severities"`
	Output     OutputConfig   `yaml:"output"`
	Cache      CacheConfig    `yaml:"cache"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	Format string `yaml:"format"`
	// MaxTitleWidth truncates titles in text output, in terminal cells.
	MaxTitleWidth int `yaml:"max_title_width"`
}

// CacheConfig holds configuration for the extraction cache
type CacheConfig struct {
	// Enabled is a pointer so an explicit false survives merging with defaults.
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled reports whether the extraction cache is on.
func (c CacheConfig) IsEnabled() bool {
	return c.Enabled != nil && *c.Enabled
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .defectview/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
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

// FindConfigDir locates the .defectview directory by walking up from startDir.
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
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .defectview directory if it doesn't exist.
// Returns the path to the .defectview directory.
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
func Validate(cfg *Config) error {
	if !IsValidFormat(cfg.Output.Format) {
		return fmt.Errorf("%w: output.format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.Format)
	}

	if cfg.Output.MaxTitleWidth < 0 {
		return fmt.Errorf("%w: output.max_title_width must be non-negative, got %d",
			ErrInvalidConfig, cfg.Output.MaxTitleWidth)
	}

	if err := cfg.Severities.Validate(); err != nil {
		return fmt.Errorf("%w: severities: %v", ErrInvalidConfig, err)
	}

	seen := make(map[string]bool, len(cfg.Products))
	for _, p := range cfg.Products {
		name := strings.TrimSpace(p)
		switch {
		case name == "":
			return fmt.Errorf("%w: products: empty product name", ErrInvalidConfig)
		case name == filter.AllProducts:
			return fmt.Errorf("%w: products: %q is reserved", ErrInvalidConfig, filter.AllProducts)
		case seen[name]:
			return fmt.Errorf("%w: products: duplicate product %q", ErrInvalidConfig, name)
		}
		seen[name] = true
	}

	return nil
}

// SaveDefault writes the default configuration to .defectview/config.yaml in
// workDir. Creates the .defectview directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# defectview configuration\n# products: selectable product names (\"All\" is implicit)\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
