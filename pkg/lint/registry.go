package lint

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/coffeelint/pkg/core"
)

// RulesVersion is the version of the built-in rule table.
const RulesVersion = "0.0.4"

// Rule identifiers.
const (
	RuleNoTabs               = "no_tabs"
	RuleNoTrailingWhitespace = "no_trailing_whitespace"
	RuleMaxLineLength        = "max_line_length"
	RuleCamelCaseClasses     = "camel_case_classes"
	RuleIndentation          = "indentation"
	RuleNoImplicitBraces     = "no_implicit_braces"
	RuleNoTrailingSemicolons = "no_trailing_semicolons"
)

// Registry is a read-only table of rule descriptors keyed by ID.
// It is built once and shared; nothing mutates it after construction.
type Registry struct {
	rules map[string]RuleDef
	order []string // sorted IDs
}

// NewRegistry builds a registry from the given rules.
// It returns an error if an ID is empty or appears twice.
func NewRegistry(rules ...RuleDef) (*Registry, error) {
	r := &Registry{rules: make(map[string]RuleDef, len(rules))}
	for _, rule := range rules {
		if rule.ID == "" {
			return nil, fmt.Errorf("rule with message %q has no ID", rule.Message)
		}
		if _, dup := r.rules[rule.ID]; dup {
			return nil, fmt.Errorf("duplicate rule ID %q", rule.ID)
		}
		r.rules[rule.ID] = rule
		r.order = append(r.order, rule.ID)
	}
	sort.Strings(r.order)
	return r, nil
}

// Lookup returns a rule by its ID.
func (r *Registry) Lookup(id string) (RuleDef, bool) {
	rule, ok := r.rules[id]
	return rule, ok
}

// MustLookup returns a rule by its ID and panics if it is not registered.
// Analyzers only reference built-in IDs, so a miss is a programming error.
func (r *Registry) MustLookup(id string) RuleDef {
	rule, ok := r.rules[id]
	if !ok {
		panic(fmt.Sprintf("lint: rule %q is not registered", id))
	}
	return rule
}

// All returns all rules sorted by ID.
func (r *Registry) All() []RuleDef {
	rules := make([]RuleDef, 0, len(r.order))
	for _, id := range r.order {
		rules = append(rules, r.rules[id])
	}
	return rules
}

// ByKind returns the rules evaluated by the given pass, sorted by ID.
func (r *Registry) ByKind(kind RuleKind) []RuleDef {
	var rules []RuleDef
	for _, id := range r.order {
		if rule := r.rules[id]; rule.Kind == kind {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	return len(r.rules)
}

// Diagnostic builds a diagnostic for a registered rule.
func (r *Registry) Diagnostic(id string, occ Occurrence) Diagnostic {
	return NewDiagnostic(r.MustLookup(id), occ)
}

// DefaultRegistry returns a registry holding the built-in rules.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(builtinRules()...)
	if err != nil {
		panic(err)
	}
	return reg
}

func builtinRules() []RuleDef {
	return []RuleDef{
		{
			ID:          RuleNoTabs,
			Message:     "Line contains tab indentation",
			Kind:        KindLine,
			Severity:    core.SeverityError,
			ConfigKey:   OptTabs,
			Name:        "No tabs",
			Description: "Forbids tab characters in the indentation of lines that contain code.",
			Rationale:   "Mixing tabs and spaces changes how nesting reads in different editors, and CoffeeScript blocks are defined by indentation.",
			BadExample:  "class Foo\n\tbar: 1",
			GoodExample: "class Foo\n  bar: 1",
		},
		{
			ID:          RuleNoTrailingWhitespace,
			Message:     "Line ends with trailing whitespace",
			Kind:        KindLine,
			Severity:    core.SeverityError,
			ConfigKey:   OptTrailing,
			Name:        "No trailing whitespace",
			Description: "Forbids whitespace at the end of a line.",
			Rationale:   "Trailing whitespace produces noisy diffs and is invisible in most editors.",
			BadExample:  "x = 1   ",
			GoodExample: "x = 1",
		},
		{
			ID:          RuleMaxLineLength,
			Message:     "Line exceeds maximum allowed length",
			Kind:        KindLine,
			Severity:    core.SeverityError,
			ConfigKey:   OptLineLength,
			Name:        "Maximum line length",
			Description: "Limits the number of characters on a line. Set lineLength to false to disable.",
			Rationale:   "Long lines are hard to read side by side and in review tools.",
			BadExample:  "result = someFunction(firstArgument, secondArgument, thirdArgument, fourthArgument)",
			GoodExample: "result = someFunction(firstArgument, secondArgument,\n  thirdArgument, fourthArgument)",
		},
		{
			ID:          RuleCamelCaseClasses,
			Message:     "Class names should be camel cased",
			Kind:        KindLexical,
			Severity:    core.SeverityError,
			ConfigKey:   OptCamelCaseClasses,
			Name:        "Camel case classes",
			Description: "Requires class names to start with an uppercase letter followed by letters or digits.",
			Rationale:   "Consistent casing makes constructors distinguishable from ordinary values.",
			BadExample:  "class boa_constrictor",
			GoodExample: "class BoaConstrictor",
		},
		{
			ID:          RuleIndentation,
			Message:     "Line contains inconsistent indentation",
			Kind:        KindLexical,
			Severity:    core.SeverityError,
			ConfigKey:   OptIndent,
			Name:        "Indentation",
			Description: "Requires every new block to be indented by the configured number of spaces.",
			Rationale:   "Blocks in CoffeeScript are delimited by indentation, so uneven steps hide structure.",
			BadExample:  "if ready\n    go()",
			GoodExample: "if ready\n  go()",
		},
		{
			ID:          RuleNoImplicitBraces,
			Message:     "Implicit braces are forbidden",
			Kind:        KindLexical,
			Severity:    core.SeverityError,
			ConfigKey:   OptImplicitBraces,
			Name:        "No implicit braces",
			Description: "When enabled, requires object literals to be written with explicit braces.",
			Rationale:   "Explicit braces make object boundaries obvious in nested calls.",
			BadExample:  "point = x: 1, y: 2",
			GoodExample: "point = {x: 1, y: 2}",
		},
		{
			ID:          RuleNoTrailingSemicolons,
			Message:     "Line contains a trailing semicolon",
			Kind:        KindLine,
			Severity:    core.SeverityError,
			ConfigKey:   OptTrailingSemicolons,
			Name:        "No trailing semicolons",
			Description: "Forbids a semicolon at the end of a line.",
			Rationale:   "Statements end at line breaks in CoffeeScript, so the semicolon is redundant.",
			BadExample:  "x = 1;",
			GoodExample: "x = 1",
		},
	}
}
