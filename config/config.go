// Package config provides configuration loading and management for spectrace.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete spectrace configuration
type Config struct {
	Root      RootConfig      `yaml:"root"`
	Documents DocumentsConfig `yaml:"documents"`
	Policy    PolicyConfig    `yaml:"policy"`
	Serve     ServeConfig     `yaml:"serve"`
}

// RootConfig locates the document set
type RootConfig struct {
	// Path is the directory holding memory/ and specs/ (auto-detected by
	// walking up from the working directory if empty)
	Path string `yaml:"path"`
}

// DocumentsConfig configures document discovery
type DocumentsConfig struct {
	// ScenarioGlob selects scenario files within a feature's testify
	// directory (default: "*.feature")
	ScenarioGlob string `yaml:"scenario_glob"`
	// ChecklistGlob selects checklist files within a feature's checklists
	// directory (default: "*.md")
	ChecklistGlob string `yaml:"checklist_glob"`
}

// PolicyConfig overrides governance-derived policy
type PolicyConfig struct {
	// TestFirst is "mandatory", "optional" or "forbidden"; empty means
	// derive from the constitution document
	TestFirst string `yaml:"test_first"`
}

// ServeConfig configures the status HTTP server
type ServeConfig struct {
	// Addr is the listen address for the serve command (default: ":8133")
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Root: RootConfig{
			Path: "", // Auto-detect
		},
		Documents: DocumentsConfig{
			ScenarioGlob:  "*.feature",
			ChecklistGlob: "*.md",
		},
		Policy: PolicyConfig{
			TestFirst: "", // Derive from constitution
		},
		Serve: ServeConfig{
			Addr: ":8133",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Documents.ScenarioGlob == "" {
		return fmt.Errorf("documents.scenario_glob is required")
	}
	if c.Documents.ChecklistGlob == "" {
		return fmt.Errorf("documents.checklist_glob is required")
	}
	switch c.Policy.TestFirst {
	case "", "mandatory", "optional", "forbidden":
	default:
		return fmt.Errorf("policy.test_first must be mandatory, optional or forbidden")
	}
	if c.Serve.Addr == "" {
		return fmt.Errorf("serve.addr is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Root.Path != "" {
		c.Root.Path = other.Root.Path
	}

	if other.Documents.ScenarioGlob != "" {
		c.Documents.ScenarioGlob = other.Documents.ScenarioGlob
	}
	if other.Documents.ChecklistGlob != "" {
		c.Documents.ChecklistGlob = other.Documents.ChecklistGlob
	}

	if other.Policy.TestFirst != "" {
		c.Policy.TestFirst = other.Policy.TestFirst
	}

	if other.Serve.Addr != "" {
		c.Serve.Addr = other.Serve.Addr
	}
}
