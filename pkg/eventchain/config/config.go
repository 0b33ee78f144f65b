// Package config loads Director configuration from YAML or JSON files.
//
// The file schema mirrors the Director's construction parameters:
//
//	max_concurrent_actions: 100
//	max_log_entries: 1000000
//	depth_first: false
//	flatten_results: false
//	log_sink_path: ./actionlog.db
//
// Missing fields take the Director's defaults; Validate rejects values
// the Director would refuse.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds Director construction parameters.
type Config struct {
	// MaxConcurrentActions bounds concurrently in-flight dispatches,
	// nested dispatches included. Default: 100.
	MaxConcurrentActions int `yaml:"max_concurrent_actions" json:"max_concurrent_actions"`

	// MaxLogEntries caps the bounded message log. Default: 1,000,000.
	MaxLogEntries int `yaml:"max_log_entries" json:"max_log_entries"`

	// DepthFirst selects depth-first execution. Default: false.
	DepthFirst bool `yaml:"depth_first" json:"depth_first"`

	// FlattenResults flattens every dispatch level's records.
	// Default: false.
	FlattenResults bool `yaml:"flatten_results" json:"flatten_results"`

	// LogSinkPath, when set, tees the message log to a SQLite file at
	// this path. Default: no sink.
	LogSinkPath string `yaml:"log_sink_path" json:"log_sink_path"`
}

// Default returns the Director's default configuration.
func Default() Config {
	return Config{
		MaxConcurrentActions: 100,
		MaxLogEntries:        1_000_000,
	}
}

// Validate checks the configuration for values the Director would
// refuse.
func (c Config) Validate() error {
	if c.MaxConcurrentActions <= 0 {
		return fmt.Errorf("max_concurrent_actions must be positive, got %d", c.MaxConcurrentActions)
	}
	if c.MaxLogEntries <= 0 {
		return fmt.Errorf("max_log_entries must be positive, got %d", c.MaxLogEntries)
	}
	return nil
}

// FromFile loads configuration from a file, auto-detecting format by
// extension. Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config. Missing fields take the
// defaults.
func FromYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromJSON parses JSON data into a Config. Missing fields take the
// defaults.
func FromJSON(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return cfg, cfg.Validate()
}
