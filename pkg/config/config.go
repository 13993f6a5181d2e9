// Package config loads YAML configuration files. Values may reference
// environment variables with ${VAR} syntax; they are expanded before the
// YAML is parsed, so secrets can stay out of the file itself.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is implemented by config structs that can check themselves
// after loading.
type Validator interface {
	Validate() error
}

// ErrNotExist reports that the config file is missing.
var ErrNotExist = errors.New("config file does not exist")

// Load reads filename into target, expanding environment variables first.
// If target implements Validator, validation runs after parsing.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotExist, filename)
		}
		return fmt.Errorf("read config file %s: %w", filename, err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), target); err != nil {
		return fmt.Errorf("parse config file %s: %w", filename, err)
	}

	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// LoadIfPresent is Load, except a missing file is not an error: target is
// left as-is and only validated. Lets the application start from built-in
// defaults plus environment variables alone.
func LoadIfPresent[T any](filename string, target *T) error {
	err := Load(filename, target)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotExist) {
		return err
	}
	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}
