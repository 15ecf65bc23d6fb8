package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/coffeelint/internal/cli/testutil"
	"github.com/leapstack-labs/coffeelint/pkg/core"
	"github.com/leapstack-labs/coffeelint/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRules(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestNewRulesCommand(t *testing.T) {
	cmd := NewRulesCommand()

	assert.Equal(t, "rules [rule-id]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"kind", "verbose", "format"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRulesCommand_ListAll(t *testing.T) {
	output, err := runRules(t)
	require.NoError(t, err)

	testutil.AssertNoANSI(t, output)
	testutil.AssertValidMarkdown(t, output)
	assert.Contains(t, output, "# Lint Rules")
	assert.Contains(t, output, "## Lexical Rules")
	assert.Contains(t, output, "## Line Rules")
	for _, rule := range lint.DefaultRegistry().All() {
		assert.Contains(t, output, "**"+rule.ID+"**")
	}
}

func TestRulesCommand_FilterByKind(t *testing.T) {
	tests := []struct {
		kind        string
		contains    []string
		notContains []string
	}{
		{
			kind:        "lexical",
			contains:    []string{"Lexical Rules", lint.RuleIndentation, lint.RuleCamelCaseClasses, lint.RuleNoImplicitBraces},
			notContains: []string{"Line Rules", lint.RuleNoTabs},
		},
		{
			kind:        "line",
			contains:    []string{"Line Rules", lint.RuleNoTabs, lint.RuleMaxLineLength, lint.RuleNoTrailingSemicolons},
			notContains: []string{"Lexical Rules", lint.RuleCamelCaseClasses},
		},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			output, err := runRules(t, "--kind", tt.kind)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, output, s)
			}
		})
	}

	t.Run("invalid kind", func(t *testing.T) {
		_, err := runRules(t, "--kind", "semantic")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `invalid kind "semantic"`)
	})
}

func TestRulesCommand_Verbose(t *testing.T) {
	output, err := runRules(t, "--verbose")
	require.NoError(t, err)

	def := lint.DefaultRegistry().MustLookup(lint.RuleNoTabs)
	assert.Contains(t, output, def.Description)
}

func TestRulesCommand_JSON(t *testing.T) {
	output, err := runRules(t, "--format", "json")
	require.NoError(t, err)

	var got RulesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, lint.RulesVersion, got.Version)
	assert.Equal(t, 3, got.Count.Lexical)
	assert.Equal(t, 4, got.Count.Line)
	assert.Equal(t, 7, got.Count.Total)
	require.Len(t, got.Rules, 7)
	for _, rule := range got.Rules {
		assert.Equal(t, core.SeverityError, rule.DefaultSeverity, rule.ID)
		assert.NotEmpty(t, rule.ConfigKey, rule.ID)
	}
}

func TestRulesCommand_ShowRule(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		output, err := runRules(t, lint.RuleMaxLineLength)
		require.NoError(t, err)

		testutil.AssertValidMarkdown(t, output)
		assert.Contains(t, output, "# max_line_length - Maximum line length")
		assert.Contains(t, output, "**Option:** `lineLength`")
		assert.Contains(t, output, "[Documentation]("+lint.BuildDocURL(lint.RuleMaxLineLength)+")")
	})

	t.Run("text", func(t *testing.T) {
		output, err := runRules(t, lint.RuleIndentation, "--format", "text")
		require.NoError(t, err)

		assert.Contains(t, output, "Indentation")
		assert.Contains(t, output, "Line contains inconsistent indentation")
		assert.Contains(t, output, "Docs: ")
	})

	t.Run("json", func(t *testing.T) {
		output, err := runRules(t, lint.RuleNoTabs, "--format", "json")
		require.NoError(t, err)

		var got core.RuleInfo
		require.NoError(t, json.Unmarshal([]byte(output), &got))
		assert.Equal(t, lint.RuleNoTabs, got.ID)
		assert.Equal(t, "line", got.Kind)
		assert.Equal(t, lint.OptTabs, got.ConfigKey)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := runRules(t, "no_such_rule")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `rule "no_such_rule" not found`)
	})
}
