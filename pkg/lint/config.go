package lint

import (
	"maps"
	"slices"

	"github.com/leapstack-labs/coffeelint/pkg/core"
)

// Config is the resolved, immutable lint configuration.
// Copy-on-write helpers return new values; a Config is never mutated in place.
type Config struct {
	Tabs               bool // allow tab indentation
	Trailing           bool // allow trailing whitespace
	LineLength         int  // maximum line length; 0 disables the check
	Indent             int  // expected indent width; 0 disables the check
	CamelCaseClasses   bool // enforce PascalCase class names
	TrailingSemicolons bool // allow trailing semicolons
	ImplicitBraces     bool // forbid generated object braces

	// disabled contains rule IDs to skip
	disabled map[string]bool

	// severities overrides the default severity of rules
	severities map[string]core.Severity
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Tabs:               false,
		Trailing:           false,
		LineLength:         80,
		Indent:             2,
		CamelCaseClasses:   true,
		TrailingSemicolons: false,
		ImplicitBraces:     false,
	}
}

// ResolveConfig merges user options onto the defaults.
// Unknown keys are ignored. When tabs are allowed the expected indent width
// is forced to 1 regardless of the indent option.
func ResolveConfig(opts map[string]any) (Config, error) {
	cfg := DefaultConfig()
	var err error

	if cfg.Tabs, err = GetBoolOption(opts, OptTabs, cfg.Tabs); err != nil {
		return Config{}, err
	}
	if cfg.Trailing, err = GetBoolOption(opts, OptTrailing, cfg.Trailing); err != nil {
		return Config{}, err
	}
	if cfg.LineLength, err = GetLimitOption(opts, OptLineLength, cfg.LineLength); err != nil {
		return Config{}, err
	}
	if cfg.Indent, err = GetIntOption(opts, OptIndent, cfg.Indent); err != nil {
		return Config{}, err
	}
	if cfg.CamelCaseClasses, err = GetBoolOption(opts, OptCamelCaseClasses, cfg.CamelCaseClasses); err != nil {
		return Config{}, err
	}
	if cfg.TrailingSemicolons, err = GetBoolOption(opts, OptTrailingSemicolons, cfg.TrailingSemicolons); err != nil {
		return Config{}, err
	}
	if cfg.ImplicitBraces, err = GetBoolOption(opts, OptImplicitBraces, cfg.ImplicitBraces); err != nil {
		return Config{}, err
	}

	if cfg.Tabs {
		cfg.Indent = 1
	}
	return cfg, nil
}

// IsDisabled returns true if the rule should be skipped.
func (c Config) IsDisabled(ruleID string) bool {
	return c.disabled[ruleID]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c Config) GetSeverity(ruleID string, defaultSeverity core.Severity) core.Severity {
	if sev, ok := c.severities[ruleID]; ok {
		return sev
	}
	return defaultSeverity
}

// Disable returns a copy of c with the given rules disabled.
func (c Config) Disable(ruleIDs ...string) Config {
	out := c
	out.disabled = maps.Clone(c.disabled)
	if out.disabled == nil {
		out.disabled = make(map[string]bool, len(ruleIDs))
	}
	for _, id := range ruleIDs {
		out.disabled[id] = true
	}
	return out
}

// WithSeverity returns a copy of c with the severity of a rule overridden.
func (c Config) WithSeverity(ruleID string, severity core.Severity) Config {
	out := c
	out.severities = maps.Clone(c.severities)
	if out.severities == nil {
		out.severities = make(map[string]core.Severity, 1)
	}
	out.severities[ruleID] = severity
	return out
}

// DisabledRules returns the sorted IDs of disabled rules.
func (c Config) DisabledRules() []string {
	return slices.Sorted(maps.Keys(c.disabled))
}
