// Package config provides shared project configuration for coffeelint.
// This package is decoupled from CLI concerns and can be used by the LSP
// and other tools that need to load a project's coffeelint.yaml.
package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/leapstack-labs/coffeelint/pkg/core"
	"github.com/leapstack-labs/coffeelint/pkg/lint"
)

// Level is a per-rule severity override. Off disables the rule entirely.
type Level struct {
	Severity core.Severity
	Off      bool
}

// ParseLevel parses a severity name or "off".
func ParseLevel(s string) (Level, error) {
	if strings.EqualFold(strings.TrimSpace(s), "off") {
		return Level{Off: true}, nil
	}
	var sev core.Severity
	if err := sev.UnmarshalText([]byte(s)); err != nil {
		return Level{}, err
	}
	return Level{Severity: sev}, nil
}

// String returns the level name.
func (l Level) String() string {
	if l.Off {
		return "off"
	}
	return l.Severity.String()
}

// MarshalText encodes the level as its name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ProjectConfig is the contents of a coffeelint.yaml file.
type ProjectConfig struct {
	// Options are passed verbatim to lint.ResolveConfig.
	Options    map[string]any   `koanf:"options" yaml:"options"`
	Severity   map[string]Level `koanf:"severity" yaml:"severity,omitempty"`
	Extensions []string         `koanf:"extensions" yaml:"extensions"`
	Output     string           `koanf:"output" yaml:"output"`
	Verbose    bool             `koanf:"verbose" yaml:"verbose"`
}

// ApplyDefaults fills unset fields.
func (c *ProjectConfig) ApplyDefaults() {
	if len(c.Extensions) == 0 {
		c.Extensions = slices.Clone(DefaultExtensions)
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
}

// LintConfig resolves the options and applies severity overrides.
// Rule IDs are checked against the registry.
func (c *ProjectConfig) LintConfig(reg *lint.Registry) (lint.Config, error) {
	cfg, err := lint.ResolveConfig(c.Options)
	if err != nil {
		return lint.Config{}, err
	}
	for _, id := range slices.Sorted(maps.Keys(c.Severity)) {
		if _, ok := reg.Lookup(id); !ok {
			return lint.Config{}, fmt.Errorf("severity: unknown rule %q", id)
		}
		level := c.Severity[id]
		if level.Off {
			cfg = cfg.Disable(id)
			continue
		}
		cfg = cfg.WithSeverity(id, level.Severity)
	}
	return cfg, nil
}

// HasExtension reports whether path ends in one of the configured extensions.
func (c *ProjectConfig) HasExtension(path string) bool {
	exts := c.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
