package config

import (
	"path/filepath"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "storefront.yaml"

// Config represents the storefront.yaml document.
type Config struct {
	Version   string   `yaml:"version" validate:"required,semver"`
	ThemesDir string   `yaml:"themes_dir,omitempty"`
	Workspace string   `yaml:"workspace" validate:"required"`
	Theme     string   `yaml:"theme,omitempty" validate:"omitempty,section_id"`
	Page      string   `yaml:"page,omitempty"`
	Logging   Logging  `yaml:"logging,omitempty"`
	Preview   Preview  `yaml:"preview,omitempty"`
	Registry  Registry `yaml:"registry,omitempty"`

	dir string
}

// Logging configures the zerolog adapter.
type Logging struct {
	Level         string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	HumanReadable bool   `yaml:"human_readable,omitempty"`
}

// Preview configures terminal previews.
type Preview struct {
	Width int `yaml:"width,omitempty" validate:"omitempty,min=20,max=400"`
}

// Registry configures section type resolution.
type Registry struct {
	// Watch invalidates memoized resolutions when section definitions change.
	Watch bool `yaml:"watch,omitempty"`
	// DependencyPolicy is "strict" or "warn" for API version mismatches.
	DependencyPolicy string `yaml:"dependency_policy,omitempty" validate:"omitempty,oneof=strict warn"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{Version: "1.0.0"}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.ThemesDir == "" {
		c.ThemesDir = "themes"
	}
	if c.Workspace == "" {
		c.Workspace = "storefront.workspace.json"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	if c.Preview.Width == 0 {
		c.Preview.Width = 72
	}
	if c.Registry.DependencyPolicy == "" {
		c.Registry.DependencyPolicy = "strict"
	}
}

// Dir is the directory relative paths are resolved against.
func (c *Config) Dir() string {
	if c.dir == "" {
		return "."
	}
	return c.dir
}

// Resolve makes a configured path absolute relative to the config file.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// WorkspacePath returns the resolved workspace file path.
func (c *Config) WorkspacePath() string { return c.Resolve(c.Workspace) }

// ThemesPath returns the resolved themes directory.
func (c *Config) ThemesPath() string { return c.Resolve(c.ThemesDir) }
