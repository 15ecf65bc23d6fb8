package lint_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/coffeelint/pkg/core"
	"github.com/leapstack-labs/coffeelint/pkg/lint"
	"github.com/leapstack-labs/coffeelint/pkg/token"
)

// mixedSource has lexical and line findings interleaved across lines.
const mixedSource = "class foo\n" + // 0: camel_case_classes
	"    bar: 1  \n" + // 1: indentation + trailing whitespace
	"x = 1\n" + // 2
	"y = 2;" // 3: trailing semicolon

func mixedTokens() []token.Token {
	return []token.Token{
		tok(token.CLASS, "class", 0),
		newLine(tok(token.IDENTIFIER, "foo", 0)),
		tok(token.INDENT, "4", 1),
		generated(tok(token.LBRACE, "{", 1)),
		tok(token.IDENTIFIER, "bar", 1),
		tok(token.COLON, ":", 1),
		tok(token.NUMBER, "1", 1),
		generated(tok(token.RBRACE, "}", 1)),
		tok(token.OUTDENT, "4", 2),
		tok(token.IDENTIFIER, "x", 2),
		tok(token.ASSIGN, "=", 2),
		newLine(tok(token.NUMBER, "1", 2)),
		tok(token.TERMINATOR, "\n", 2),
		tok(token.IDENTIFIER, "y", 3),
		tok(token.ASSIGN, "=", 3),
		tok(token.NUMBER, "2", 3),
		tok(token.TERMINATOR, ";", 3),
	}
}

func TestLinter_Mixed(t *testing.T) {
	linter := lint.NewLinter(lint.DefaultRegistry(), staticTokenizer(mixedTokens()...))

	diags, err := linter.Lint(mixedSource, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		lint.RuleCamelCaseClasses,
		lint.RuleIndentation,
		lint.RuleNoTrailingWhitespace,
		lint.RuleNoTrailingSemicolons,
	}, ruleIDs(diags))
	assert.Equal(t, []int{0, 1, 1, 3}, []int{diags[0].Line, diags[1].Line, diags[2].Line, diags[3].Line})
	assert.Equal(t, "Expected 2 spaces and got 4", diags[1].Context)
	assert.Equal(t, "    bar: 1  ", diags[2].Evidence)
}

func TestLinter_OrderingAndDeterminism(t *testing.T) {
	linter := lint.NewLinter(nil, staticTokenizer(mixedTokens()...))
	opts := map[string]any{"implicitBraces": true, "lineLength": 5}

	first, err := linter.Lint(mixedSource, opts)
	require.NoError(t, err)
	second, err := linter.Lint(mixedSource, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.LessOrEqual(t, first[i-1].Line, first[i].Line)
	}
}

func TestMerge_TieBreak(t *testing.T) {
	lexical := []lint.Diagnostic{
		{RuleID: "lex-a", Line: 2},
		{RuleID: "lex-b", Line: 0},
		{RuleID: "lex-c", Line: 2},
	}
	line := []lint.Diagnostic{
		{RuleID: "line-a", Line: 0},
		{RuleID: "line-b", Line: 2},
	}

	merged := lint.Merge(lexical, line)
	assert.Equal(t, []string{"lex-b", "line-a", "lex-a", "lex-c", "line-b"}, ruleIDs(merged))
	assert.Empty(t, lint.Merge(nil, nil))
}

func TestLinter_TokenizerError(t *testing.T) {
	boom := errors.New("unexpected end of input")
	linter := lint.NewLinter(nil, lint.TokenizerFunc(func(string) ([]token.Token, error) {
		return nil, boom
	}))

	diags, err := linter.Lint("x = ", nil)
	require.Error(t, err)
	assert.Nil(t, diags)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "tokenize")
}

func TestLinter_NoTokenizer(t *testing.T) {
	_, err := lint.NewLinter(nil, nil).Lint("x = 1", nil)
	require.Error(t, err)
}

func TestLinter_ConfigError(t *testing.T) {
	called := false
	linter := lint.NewLinter(nil, lint.TokenizerFunc(func(string) ([]token.Token, error) {
		called = true
		return nil, nil
	}))

	_, err := linter.Lint("x = 1", map[string]any{"indent": "two"})
	var cfgErr *lint.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "indent", cfgErr.Field)
	assert.False(t, called, "tokenizer must not run when config is invalid")
}

func TestLinter_DisableAndSeverity(t *testing.T) {
	linter := lint.NewLinter(nil, staticTokenizer(mixedTokens()...))
	cfg := lint.DefaultConfig().
		Disable(lint.RuleIndentation).
		WithSeverity(lint.RuleNoTrailingWhitespace, core.SeverityWarning)

	diags, err := linter.LintWithConfig(mixedSource, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{
		lint.RuleCamelCaseClasses,
		lint.RuleNoTrailingWhitespace,
		lint.RuleNoTrailingSemicolons,
	}, ruleIDs(diags))
	assert.Equal(t, core.SeverityError, diags[0].Severity)
	assert.Equal(t, core.SeverityWarning, diags[1].Severity)
}

func TestLinter_LintTokensScenarios(t *testing.T) {
	linter := lint.NewLinter(nil, nil)

	t.Run("indentation on line 2", func(t *testing.T) {
		source := "a ->\n\n    b"
		tokens := []token.Token{
			tok(token.IDENTIFIER, "a", 0),
			newLine(tok(token.ARROW, "->", 0)),
			tok(token.INDENT, "4", 2),
			tok(token.IDENTIFIER, "b", 2),
			tok(token.OUTDENT, "4", 2),
		}
		diags := linter.LintTokens(source, tokens, lint.DefaultConfig())
		require.Len(t, diags, 1)
		assert.Equal(t, lint.RuleIndentation, diags[0].RuleID)
		assert.Equal(t, 2, diags[0].Line)
		assert.Equal(t, "Expected 2 spaces and got 4", diags[0].Context)
	})

	t.Run("tabs with width one", func(t *testing.T) {
		source := "a ->\n\tb"
		tokens := []token.Token{
			tok(token.IDENTIFIER, "a", 0),
			newLine(tok(token.ARROW, "->", 0)),
			tok(token.INDENT, "1", 1),
			tok(token.IDENTIFIER, "b", 1),
			tok(token.OUTDENT, "1", 1),
		}
		diags := linter.LintTokens(source, tokens, mustConfig(map[string]any{"tabs": true}))
		assert.Empty(t, diags)
	})

	t.Run("long line of a", func(t *testing.T) {
		source := strings.Repeat("a", 81)
		diags := linter.LintTokens(source, []token.Token{tok(token.IDENTIFIER, source, 0)}, lint.DefaultConfig())
		assert.Equal(t, []string{lint.RuleMaxLineLength}, ruleIDs(diags))
	})
}
