// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package config loads settings for the halcat command from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/creachadair/jhal/decode"
	"github.com/creachadair/jhal/internal/dump"
	"github.com/creachadair/jhal/value"
	"gopkg.in/yaml.v3"
)

// FileNames are the names searched for by FindConfigFile, in order.
var FileNames = []string{".halcat.yaml", ".halcat.yml", "halcat.yaml", "halcat.yml"}

// Config is the complete configuration for halcat.
type Config struct {
	Decode DecodeConfig `yaml:"decode"`
	Output OutputConfig `yaml:"output"`
	Debug  bool         `yaml:"debug"`
}

// DecodeConfig controls how input is decoded.
type DecodeConfig struct {
	JWCC        bool     `yaml:"jwcc"`
	MaxDepth    int      `yaml:"max_depth"`
	TimeLayouts []string `yaml:"time_layouts"`
	NoTimes     bool     `yaml:"no_times"`
	NoUUIDs     bool     `yaml:"no_uuids"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	Raw          bool   `yaml:"raw"`
	Indent       string `yaml:"indent"`
	PlainStrings bool   `yaml:"plain_strings"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Decode: DecodeConfig{MaxDepth: decode.DefaultMaxDepth},
		Output: OutputConfig{Indent: "  "},
	}
}

// LoadConfig loads a configuration from the YAML file at path. Settings not
// named in the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in the current directory and its
// parents. It returns "" if none is found.
func FindConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate reports an error if c contains invalid settings.
func (c *Config) Validate() error {
	for i, layout := range c.Decode.TimeLayouts {
		if strings.TrimSpace(layout) == "" {
			return fmt.Errorf("time layout %d is empty", i+1)
		}
	}
	if strings.Trim(c.Output.Indent, " \t") != "" {
		return fmt.Errorf("indent %q must contain only spaces and tabs", c.Output.Indent)
	}
	return nil
}

// DecodeOptions returns decoder options reflecting c.
func (c *Config) DecodeOptions() *decode.Options {
	return &decode.Options{
		MaxDepth: c.Decode.MaxDepth,
		JWCC:     c.Decode.JWCC,
		Infer: value.Inferrer{
			TimeLayouts: c.Decode.TimeLayouts,
			NoTimes:     c.Decode.NoTimes,
			NoUUIDs:     c.Decode.NoUUIDs,
		},
	}
}

// DumpOptions returns output options reflecting c.
func (c *Config) DumpOptions() *dump.Options {
	return &dump.Options{
		Indent:       c.Output.Indent,
		PlainStrings: c.Output.PlainStrings,
	}
}
