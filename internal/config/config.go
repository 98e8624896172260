// Package config holds run configuration, optionally loaded from a YAML
// file. Flags override file values, which override defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for a documentation run.
type Config struct {
	// Root is the repository directory scanned for WDL files.
	Root string `yaml:"root"`
	// Output is the site output directory.
	Output string `yaml:"output"`
	// SiteName is the title shown on every page.
	SiteName string `yaml:"site_name"`
	// Exclude lists path fragments skipped during discovery.
	Exclude []string `yaml:"exclude"`
	// ExternalDirs names directories holding third-party WDL files.
	ExternalDirs []string `yaml:"external_dirs"`
	// DBPath is the run index database (":memory:" disables persistence
	// across processes, "" disables the index entirely).
	DBPath string `yaml:"db_path"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Serve   ServeConfig   `yaml:"serve"`
	Publish PublishConfig `yaml:"publish"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr string `yaml:"addr"` // listen address (default ":8080")
}

// PublishConfig configures S3 publishing.
type PublishConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
	DryRun bool   `yaml:"dry_run"`
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		Root:         ".",
		Output:       "docs",
		SiteName:     "WDL Documentation",
		Exclude:      []string{"test", "tests"},
		ExternalDirs: []string{"external"},
		DBPath:       "wdldoc.db",
		LogLevel:     "info",
		LogFormat:    "text",
		Serve:        ServeConfig{Addr: ":8080"},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
