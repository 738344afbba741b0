// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/crs"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/spatial"

	"gopkg.in/yaml.v3"
)

// DefaultOutput is where the loader writes and the server reads results.
const DefaultOutput = "out"

// Config represents the root configuration file structure.
type Config struct {
	// EPSG definitions the built-in registry does not know, "EPSG:<code>" -> proj/WKT
	CRS map[string]string `yaml:"crs,omitempty" json:"-"`

	Output   string   `yaml:"output,omitempty" json:"-"`
	Paths    []Path   `yaml:"paths,omitempty" json:"-"`
	Sources  []Source `yaml:"sources" json:"sources"`
	MaxDepth int      `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
}

// Path is an extra schema location to try after the built-in ones.
type Path struct {
	Path  string   `yaml:"path"`
	Label string   `yaml:"label,omitempty"`
	CRS   []string `yaml:"crs,omitempty"`
}

// Source is a file or URL holding records to process in batch.
type Source struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	Name        string   `yaml:"name" json:"name"`
	Path        string   `yaml:"path" json:"-"`
	Attribution string   `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Aliases     []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Available   bool     `yaml:"-" json:"available"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks source names and paths.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for i, s := range c.Sources {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if strings.ContainsAny(s.Name, `/\`) || s.Name == "." || s.Name == ".." {
			return fmt.Errorf("source %q: name must not contain path separators", s.Name)
		}
		if s.Path == "" {
			return fmt.Errorf("source %q: path is required", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("source %q: duplicate name", s.Name)
		}
		seen[s.Name] = true
	}

	for i, p := range c.Paths {
		if strings.TrimSpace(p.Path) == "" {
			return fmt.Errorf("paths[%d]: path is required", i)
		}
	}

	return nil
}

// OutputDir returns the output directory, defaulting to DefaultOutput.
func (c *Config) OutputDir() string {
	if c.Output == "" {
		return DefaultOutput
	}
	return c.Output
}

// Extractor builds the extraction engine described by the configuration.
func (c *Config) Extractor() (*spatial.Extractor, error) {
	reg, err := crs.NewRegistry(c.CRS)
	if err != nil {
		return nil, err
	}

	extra := make([]spatial.Path, 0, len(c.Paths))
	for _, p := range c.Paths {
		extra = append(extra, spatial.NewPath(p.Path, p.Label, p.CRS))
	}

	return spatial.New(spatial.Options{
		ExtraPaths: extra,
		MaxDepth:   c.MaxDepth,
		Registry:   reg,
	}), nil
}
