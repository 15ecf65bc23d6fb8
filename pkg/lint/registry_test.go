package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/coffeelint/pkg/core"
	"github.com/leapstack-labs/coffeelint/pkg/lint"
)

func TestDefaultRegistry_Messages(t *testing.T) {
	reg := lint.DefaultRegistry()
	require.Equal(t, 7, reg.Count())

	tests := []struct {
		id      string
		message string
		kind    lint.RuleKind
	}{
		{lint.RuleNoTabs, "Line contains tab indentation", lint.KindLine},
		{lint.RuleNoTrailingWhitespace, "Line ends with trailing whitespace", lint.KindLine},
		{lint.RuleMaxLineLength, "Line exceeds maximum allowed length", lint.KindLine},
		{lint.RuleCamelCaseClasses, "Class names should be camel cased", lint.KindLexical},
		{lint.RuleIndentation, "Line contains inconsistent indentation", lint.KindLexical},
		{lint.RuleNoImplicitBraces, "Implicit braces are forbidden", lint.KindLexical},
		{lint.RuleNoTrailingSemicolons, "Line contains a trailing semicolon", lint.KindLine},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			rule, ok := reg.Lookup(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.message, rule.Message)
			assert.Equal(t, tt.kind, rule.Kind)
			assert.Equal(t, core.SeverityError, rule.Severity)
			assert.NotEmpty(t, rule.Description)
			assert.NotEmpty(t, rule.ConfigKey)
		})
	}
}

func TestRegistry_AllSorted(t *testing.T) {
	rules := lint.DefaultRegistry().All()
	require.Len(t, rules, 7)
	for i := 1; i < len(rules); i++ {
		assert.Less(t, rules[i-1].ID, rules[i].ID)
	}
}

func TestRegistry_ByKind(t *testing.T) {
	reg := lint.DefaultRegistry()
	assert.Len(t, reg.ByKind(lint.KindLexical), 3)
	assert.Len(t, reg.ByKind(lint.KindLine), 4)
}

func TestRegistry_LookupMissing(t *testing.T) {
	reg := lint.DefaultRegistry()
	_, ok := reg.Lookup("no_such_rule")
	assert.False(t, ok)
	assert.Panics(t, func() { reg.MustLookup("no_such_rule") })
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := lint.NewRegistry(lint.RuleDef{ID: "a"}, lint.RuleDef{ID: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	_, err = lint.NewRegistry(lint.RuleDef{Message: "nameless"})
	require.Error(t, err)
}

func TestRegistry_Independent(t *testing.T) {
	custom, err := lint.NewRegistry(lint.RuleDef{ID: lint.RuleNoTabs, Message: "tabs!", Kind: lint.KindLine})
	require.NoError(t, err)

	assert.Equal(t, 1, custom.Count())
	assert.Equal(t, 7, lint.DefaultRegistry().Count())
}

func TestNewDiagnostic_Overlay(t *testing.T) {
	rule := lint.DefaultRegistry().MustLookup(lint.RuleIndentation)

	d := lint.NewDiagnostic(rule, lint.Occurrence{Line: 3, Context: "ctx"})
	assert.Equal(t, lint.RuleIndentation, d.RuleID)
	assert.Equal(t, "Line contains inconsistent indentation", d.Message)
	assert.Equal(t, 3, d.Line)
	assert.Equal(t, "ctx", d.Context)
	assert.Empty(t, d.Evidence)

	d = lint.NewDiagnostic(rule, lint.Occurrence{Message: "custom"})
	assert.Equal(t, "custom", d.Message)
}

func TestRuleDef_Info(t *testing.T) {
	info := lint.DefaultRegistry().MustLookup(lint.RuleCamelCaseClasses).Info()
	assert.Equal(t, "camel_case_classes", info.ID)
	assert.Equal(t, "lexical", info.Kind)
	assert.Equal(t, lint.OptCamelCaseClasses, info.ConfigKey)
}

func TestBuildDocURL(t *testing.T) {
	defer lint.ResetDocsBaseURL()

	assert.Equal(t, lint.DefaultDocsBaseURL+"/no_tabs", lint.BuildDocURL("no_tabs"))

	lint.SetDocsBaseURL("http://localhost:8080/rules/")
	assert.Equal(t, "http://localhost:8080/rules/max_line_length", lint.BuildDocURL("MAX_LINE_LENGTH"))
}
