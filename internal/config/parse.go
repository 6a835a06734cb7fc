package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tendhq/tend/internal/pattern"
)

// ParseConfig parses YAML data into a Config struct.
// It returns an error if the YAML is malformed, contains unknown fields,
// or has type mismatches. Missing optional fields become zero values.
// Empty input returns a zero-value Config.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := strictUnmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// ParseProjectConfig parses YAML data into a ProjectConfig struct.
func ParseProjectConfig(data []byte) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := strictUnmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse project config: %w", err)
	}
	return &cfg, nil
}

// PatternFile is the YAML shape of an operator pattern file.
type PatternFile struct {
	Patterns []pattern.Definition `yaml:"patterns"`
}

// ParsePatternFile parses YAML data into a list of pattern definitions.
func ParsePatternFile(data []byte) ([]pattern.Definition, error) {
	var file PatternFile
	if err := strictUnmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse pattern file: %w", err)
	}
	return file.Patterns, nil
}

// rulesetFile is the YAML shape of a standalone ruleset file: the same
// ruleset mapping the main config uses, and nothing else.
type rulesetFile struct {
	Ruleset Ruleset `yaml:"ruleset"`
}

// ParseRuleset parses YAML data holding a single ruleset mapping.
func ParseRuleset(data []byte) (*Ruleset, error) {
	var file rulesetFile
	if err := strictUnmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse ruleset: %w", err)
	}
	return &file.Ruleset, nil
}

// strictUnmarshal unmarshals YAML data into v, rejecting unknown fields.
// This helps catch typos in configuration files early.
// Empty input is treated as valid, leaving v at its zero value.
func strictUnmarshal(data []byte, v any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err := decoder.Decode(v)
	if errors.Is(err, io.EOF) {
		// Empty input is valid - v remains at zero value
		return nil
	}
	if err != nil {
		return fmt.Errorf("decode YAML: %w", err)
	}
	return nil
}

// MarshalConfig marshals a Config struct to YAML.
func MarshalConfig(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}
