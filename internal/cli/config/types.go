// Package config provides configuration management for the coffeelint CLI.
//
// This package extends the shared project configuration from internal/config
// with CLI-specific fields and the layered koanf loader.
package config

import (
	sharedcfg "github.com/leapstack-labs/coffeelint/internal/config"
)

// ProjectConfig is an alias for the shared project configuration.
type ProjectConfig = sharedcfg.ProjectConfig

// Level is an alias for the shared per-rule severity override.
type Level = sharedcfg.Level

// Config holds all CLI configuration options.
type Config struct {
	ProjectConfig `koanf:",squash"`

	// ProjectRoot is the directory the config file was found in, or the CWD.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultOutput = sharedcfg.DefaultOutput
	EnvPrefix     = "COFFEELINT_"
)

// OutputModes lists the accepted values of the output setting.
var OutputModes = []string{"auto", "text", "markdown", "json"}
