package lint

import (
	"github.com/leapstack-labs/coffeelint/pkg/core"
)

// =============================================================================
// Rule Definitions
// =============================================================================

// RuleKind tells which pass evaluates a rule.
type RuleKind int

// Rule kinds.
const (
	// KindLexical rules are evaluated per token.
	KindLexical RuleKind = iota
	// KindLine rules are evaluated per source line.
	KindLine
)

// String returns the string representation of the kind.
func (k RuleKind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// RuleDef is a data-driven rule descriptor.
// The check logic lives in the analyzers; RuleDef only carries identity,
// the default message and documentation.
type RuleDef struct {
	ID        string        // Unique identifier, e.g., "no_tabs"
	Message   string        // Default human-readable message
	Kind      RuleKind      // Pass that evaluates the rule
	Severity  core.Severity // Default severity
	ConfigKey string        // Option that governs the rule, if any

	// Documentation fields for richer rule documentation
	Name        string // Short title, e.g., "No tabs"
	Description string
	Rationale   string
	BadExample  string
	GoodExample string
}

// Info returns the tooling DTO for the rule.
func (r RuleDef) Info() core.RuleInfo {
	return core.RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Kind:            r.Kind.String(),
		Message:         r.Message,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		ConfigKey:       r.ConfigKey,
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
	}
}

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a lint finding.
// Line is 0-based and matches the index of the line in the source split on '\n'.
type Diagnostic struct {
	RuleID   string        `json:"rule"`
	Message  string        `json:"message"`
	Line     int           `json:"lineNumber"`
	Evidence string        `json:"evidence,omitempty"`
	Context  string        `json:"context,omitempty"`
	Severity core.Severity `json:"level"`
}

// Occurrence holds the fields a check supplies for one violation.
// They are overlaid on the rule's defaults by NewDiagnostic.
type Occurrence struct {
	Line     int
	Evidence string
	Context  string
	Message  string // Optional; replaces the rule's default message
}

// NewDiagnostic builds a diagnostic from the rule defaults and an occurrence.
func NewDiagnostic(rule RuleDef, occ Occurrence) Diagnostic {
	d := Diagnostic{
		RuleID:   rule.ID,
		Message:  rule.Message,
		Line:     occ.Line,
		Evidence: occ.Evidence,
		Context:  occ.Context,
		Severity: rule.Severity,
	}
	if occ.Message != "" {
		d.Message = occ.Message
	}
	return d
}
