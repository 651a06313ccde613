package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the extractor.
type Config struct {
	Scan    ScanConfig    `yaml:"scan"`
	Emit    EmitConfig    `yaml:"emit"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// ScanConfig selects and decodes source files.
type ScanConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	Encoding string   `yaml:"encoding"` // WHATWG label, e.g. "utf-8", "shift_jis"
}

// EmitConfig controls the output document.
type EmitConfig struct {
	Output string `yaml:"output"` // "-" writes to stdout
	Indent string `yaml:"indent"`
}

type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Includes: []string{"**/*.c", "**/*.h", "**/*.cc", "**/*.cpp", "**/*.hpp", "**/*.cxx"},
			Excludes: []string{"**/.git/**", "**/build/**", "**/vendor/**", "**/third_party/**", "**/.fnscan/**"},
			Encoding: "utf-8",
		},
		Emit: EmitConfig{
			Output: "output.json",
			Indent: "",
		},
		Watch: WatchConfig{
			DebounceMs: 200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for fnscan.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "fnscan.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".fnscan", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexDBPath returns the path to the record database.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".fnscan", "records.db")
}

// EnsureDataDir ensures the .fnscan directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".fnscan"), 0755)
}
