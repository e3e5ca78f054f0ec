package config

import "github.com/agis/defectview/internal/severity"

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	enabled := true
	return &Config{
		Products:   nil,
		Severities: severity.Default(),
		Output: OutputConfig{
			Format:        "yaml",
			MaxTitleWidth: 60,
		},
		Cache: CacheConfig{
			Enabled: &enabled,
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	// Products have no default; an empty list means "derive from the report".
	result.Products = append([]string(nil), loaded.Products...)

	// A configured severity table replaces the default one as a whole.
	if len(loaded.Severities) > 0 {
		result.Severities = loaded.Severities
	} else {
		result.Severities = defaults.Severities
	}

	result.Output = mergeOutputConfig(loaded.Output, defaults.Output)
	result.Cache = mergeCacheConfig(loaded.Cache, defaults.Cache)

	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	result := OutputConfig{}

	if loaded.Format != "" {
		result.Format = loaded.Format
	} else {
		result.Format = defaults.Format
	}

	if loaded.MaxTitleWidth != 0 {
		result.MaxTitleWidth = loaded.MaxTitleWidth
	} else {
		result.MaxTitleWidth = defaults.MaxTitleWidth
	}

	return result
}

func mergeCacheConfig(loaded, defaults CacheConfig) CacheConfig {
	result := CacheConfig{}

	if loaded.Enabled != nil {
		v := *loaded.Enabled
		result.Enabled = &v
	} else if defaults.Enabled != nil {
		v := *defaults.Enabled
		result.Enabled = &v
	}

	return result
}

// ValidFormats lists the valid values for output.format
var ValidFormats = []string{"yaml", "json", "text"}

// IsValidFormat checks if the given format value is valid
func IsValidFormat(format string) bool {
	for _, valid := range ValidFormats {
		if format == valid {
			return true
		}
	}
	return false
}
