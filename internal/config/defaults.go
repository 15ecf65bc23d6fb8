package config

import (
	"slices"

	"github.com/leapstack-labs/coffeelint/pkg/lint"
)

// Default configuration values.
const (
	DefaultOutput = "auto" // TTY=text, non-TTY=markdown
)

// DefaultExtensions lists the file extensions linted when walking directories.
var DefaultExtensions = []string{".coffee"}

// Defaults returns the default configuration as a flat koanf map.
func Defaults() map[string]any {
	d := lint.DefaultConfig()
	return map[string]any{
		"options." + lint.OptTabs:               d.Tabs,
		"options." + lint.OptTrailing:           d.Trailing,
		"options." + lint.OptLineLength:         d.LineLength,
		"options." + lint.OptIndent:             d.Indent,
		"options." + lint.OptCamelCaseClasses:   d.CamelCaseClasses,
		"options." + lint.OptTrailingSemicolons: d.TrailingSemicolons,
		"options." + lint.OptImplicitBraces:     d.ImplicitBraces,
		"extensions":                            slices.Clone(DefaultExtensions),
		"output":                                DefaultOutput,
		"verbose":                               false,
	}
}
