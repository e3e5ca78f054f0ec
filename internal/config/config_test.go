package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/agis/defectview/internal/severity"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Products) != 0 {
		t.Errorf("expected no default products, got %v", cfg.Products)
	}

	if got := cfg.Severities.Names(); len(got) != 4 || got[0] != "SAFETY-SIGNIFICANT" || got[3] != "MINOR" {
		t.Errorf("expected the stock severity table, got %v", got)
	}

	if cfg.Output.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", cfg.Output.Format)
	}

	if cfg.Output.MaxTitleWidth != 60 {
		t.Errorf("expected max_title_width 60, got %d", cfg.Output.MaxTitleWidth)
	}

	if !cfg.Cache.IsEnabled() {
		t.Error("expected cache enabled by default")
	}
}

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		format string
		valid  bool
	}{
		{"yaml", true},
		{"json", true},
		{"text", true},
		{"toml", false},
		{"", false},
		{"YAML", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			result := IsValidFormat(tt.format)
			if result != tt.valid {
				t.Errorf("IsValidFormat(%q) = %v, want %v", tt.format, result, tt.valid)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "products listed",
			modify: func(c *Config) {
				c.Products = []string{"CORE", "UI"}
			},
			wantErr: false,
		},
		{
			name: "invalid format",
			modify: func(c *Config) {
				c.Output.Format = "xml"
			},
			wantErr: true,
		},
		{
			name: "negative title width",
			modify: func(c *Config) {
				c.Output.MaxTitleWidth = -1
			},
			wantErr: true,
		},
		{
			name: "empty severity table",
			modify: func(c *Config) {
				c.Severities = nil
			},
			wantErr: true,
		},
		{
			name: "duplicate severity",
			modify: func(c *Config) {
				c.Severities = append(c.Severities, severity.Level{Name: "MINOR"})
			},
			wantErr: true,
		},
		{
			name: "reserved product name",
			modify: func(c *Config) {
				c.Products = []string{"CORE", "All"}
			},
			wantErr: true,
		},
		{
			name: "duplicate product",
			modify: func(c *Config) {
				c.Products = []string{"CORE", "CORE"}
			},
			wantErr: true,
		},
		{
			name: "blank product",
			modify: func(c *Config) {
				c.Products = []string{" "}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	defaults := DefaultConfig()

	t.Run("empty loaded uses all defaults", func(t *testing.T) {
		merged := Merge(&Config{}, defaults)

		if merged.Output.Format != defaults.Output.Format {
			t.Errorf("expected format %s, got %s", defaults.Output.Format, merged.Output.Format)
		}
		if len(merged.Severities) != len(defaults.Severities) {
			t.Errorf("expected %d severities, got %d", len(defaults.Severities), len(merged.Severities))
		}
		if !merged.Cache.IsEnabled() {
			t.Error("expected cache enabled")
		}
	})

	t.Run("loaded values take precedence", func(t *testing.T) {
		off := false
		loaded := &Config{
			Products:   []string{"CORE"},
			Severities: severity.Table{{Name: "MAJOR"}, {Name: "MINOR"}},
			Output:     OutputConfig{Format: "json"},
			Cache:      CacheConfig{Enabled: &off},
		}
		merged := Merge(loaded, defaults)

		if merged.Output.Format != "json" {
			t.Errorf("expected format json, got %s", merged.Output.Format)
		}
		if got := merged.Severities.Names(); len(got) != 2 || got[0] != "MAJOR" {
			t.Errorf("expected loaded severities, got %v", got)
		}
		if len(merged.Products) != 1 || merged.Products[0] != "CORE" {
			t.Errorf("expected products [CORE], got %v", merged.Products)
		}
		if merged.Cache.IsEnabled() {
			t.Error("explicit cache.enabled=false should survive the merge")
		}

		// Unset values should use defaults
		if merged.Output.MaxTitleWidth != defaults.Output.MaxTitleWidth {
			t.Errorf("expected default width %d, got %d", defaults.Output.MaxTitleWidth, merged.Output.MaxTitleWidth)
		}
	})
}

func TestFindConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	projectDir := filepath.Join(tmpDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("no config dir returns error", func(t *testing.T) {
		_, err := FindConfigDir(subDir)
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	configDir := filepath.Join(projectDir, ConfigDirName)
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("finds config dir in current directory", func(t *testing.T) {
		found, err := FindConfigDir(projectDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})

	t.Run("finds config dir in parent directory", func(t *testing.T) {
		found, err := FindConfigDir(subDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates config directory", func(t *testing.T) {
		dir, err := EnsureConfigDir(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expectedDir := filepath.Join(tmpDir, ConfigDirName)
		if dir != expectedDir {
			t.Errorf("expected %s, got %s", expectedDir, dir)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("config directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
	})

	t.Run("returns existing directory", func(t *testing.T) {
		dir, err := EnsureConfigDir(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if dir != filepath.Join(tmpDir, ConfigDirName) {
			t.Errorf("unexpected dir %s", dir)
		}
	})

	t.Run("fails when a file is in the way", func(t *testing.T) {
		other := t.TempDir()
		if err := os.WriteFile(filepath.Join(other, ConfigDirName), nil, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := EnsureConfigDir(other); err == nil {
			t.Error("expected error when .defectview is a file")
		}
	})
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("loads valid config file", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		content := `
products: [CORE, UI]
severities:
  - name: MAJOR
    description: Breaks things
    allowed_weights: [8, 16]
    default_show_desc: true
  - name: MINOR
    description: Cosmetic
    allowed_weights: [1]
    default_hide_all: true
output:
  format: json
cache:
  enabled: false
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Products) != 2 || cfg.Products[1] != "UI" {
			t.Errorf("expected products [CORE UI], got %v", cfg.Products)
		}
		major, ok := cfg.Severities.Lookup("MAJOR")
		if !ok || !major.DefaultShowDescription || len(major.AllowedWeights) != 2 {
			t.Errorf("MAJOR level = %+v", major)
		}
		minor, _ := cfg.Severities.Lookup("MINOR")
		if !minor.DefaultHideAll {
			t.Error("expected MINOR hidden by default")
		}
		if cfg.Output.Format != "json" {
			t.Errorf("expected format json, got %s", cfg.Output.Format)
		}
		if cfg.Cache.IsEnabled() {
			t.Error("expected cache disabled")
		}

		// Defaults for missing values
		if cfg.Output.MaxTitleWidth != 60 {
			t.Errorf("expected default width 60, got %d", cfg.Output.MaxTitleWidth)
		}
	})

	t.Run("returns defaults for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromPath(filepath.Join(tmpDir, "nonexistent.yaml"))
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cfg.Output.Format != DefaultConfig().Output.Format {
			t.Errorf("expected default format, got %s", cfg.Output.Format)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("invalid: yaml: content"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadFromPath(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid config values", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "bad-values.yaml")
		content := `
output:
  format: xml
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadFromPath(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("returns defaults when no config dir exists", func(t *testing.T) {
		cfg, err := Load(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cfg.Output.Format != DefaultConfig().Output.Format {
			t.Errorf("expected default config")
		}
	})

	t.Run("loads config from .defectview directory", func(t *testing.T) {
		configDir := filepath.Join(tmpDir, ConfigDirName)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatal(err)
		}

		content := "output:\n  format: text\n"
		configPath := filepath.Join(configDir, ConfigFileName)
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cfg.Output.Format != "text" {
			t.Errorf("expected format text, got %s", cfg.Output.Format)
		}
	})
}

func TestSaveDefault(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates default config file", func(t *testing.T) {
		configPath, err := SaveDefault(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expectedPath := filepath.Join(tmpDir, ConfigDirName, ConfigFileName)
		if configPath != expectedPath {
			t.Errorf("expected path %s, got %s", expectedPath, configPath)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if len(cfg.Severities) != len(severity.Default()) {
			t.Errorf("saved config doesn't match defaults")
		}
		if tooltip := cfg.Severities.Tooltip("MINOR"); tooltip != severity.Default().Tooltip("MINOR") {
			t.Errorf("MINOR tooltip = %q", tooltip)
		}
	})

	t.Run("fails if config already exists", func(t *testing.T) {
		if _, err := SaveDefault(tmpDir); err == nil {
			t.Error("expected error when config already exists")
		}
	})
}
