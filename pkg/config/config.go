// Package config provides YAML and TOML configuration loading with environment variable expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load loads configuration from a YAML or TOML file with environment variable
// expansion. Files ending in .toml are parsed as TOML, anything else as YAML.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	if err := Parse(filename, []byte(os.ExpandEnv(string(data))), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// Parse decodes data into target using the format implied by filename.
func Parse[T any](filename string, data []byte, target *T) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return toml.Unmarshal(data, target)
	default:
		return yaml.Unmarshal(data, target)
	}
}
