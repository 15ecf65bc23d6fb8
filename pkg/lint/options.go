package lint

import (
	"fmt"
	"math"
)

// Option keys recognized by ResolveConfig.
const (
	OptTabs               = "tabs"
	OptTrailing           = "trailing"
	OptLineLength         = "lineLength"
	OptIndent             = "indent"
	OptCamelCaseClasses   = "camelCaseClasses"
	OptTrailingSemicolons = "trailingSemicolons"
	OptImplicitBraces     = "implicitBraces"
)

// OptionKeys returns every recognized option key.
func OptionKeys() []string {
	return []string{
		OptTabs, OptTrailing, OptLineLength, OptIndent,
		OptCamelCaseClasses, OptTrailingSemicolons, OptImplicitBraces,
	}
}

// ConfigError reports a malformed option value.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid option %q: %s (got %T %v)", e.Field, e.Reason, e.Value, e.Value)
}

// GetBoolOption extracts a bool option.
// A missing key yields defaultVal; nil counts as false.
func GetBoolOption(opts map[string]any, key string, defaultVal bool) (bool, error) {
	v, ok := opts[key]
	if !ok {
		return defaultVal, nil
	}
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	default:
		return false, &ConfigError{Field: key, Value: v, Reason: "expected a boolean"}
	}
}

// GetIntOption extracts a non-negative int option, handling float64 from JSON.
// A missing key yields defaultVal; nil counts as 0.
func GetIntOption(opts map[string]any, key string, defaultVal int) (int, error) {
	v, ok := opts[key]
	if !ok {
		return defaultVal, nil
	}
	if v == nil {
		return 0, nil
	}
	n, ok := toInt(v)
	if !ok {
		return 0, &ConfigError{Field: key, Value: v, Reason: "expected an integer"}
	}
	if n < 0 {
		return 0, &ConfigError{Field: key, Value: v, Reason: "must not be negative"}
	}
	return n, nil
}

// GetLimitOption extracts a limit that may be an int or false.
// false, nil and 0 all disable the limit and yield 0.
func GetLimitOption(opts map[string]any, key string, defaultVal int) (int, error) {
	v, ok := opts[key]
	if !ok {
		return defaultVal, nil
	}
	switch b := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if b {
			return 0, &ConfigError{Field: key, Value: v, Reason: "expected an integer or false"}
		}
		return 0, nil
	}
	n, ok := toInt(v)
	if !ok {
		return 0, &ConfigError{Field: key, Value: v, Reason: "expected an integer or false"}
	}
	if n < 0 {
		return 0, &ConfigError{Field: key, Value: v, Reason: "must not be negative"}
	}
	return n, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
