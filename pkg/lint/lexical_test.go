package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/coffeelint/pkg/lint"
	"github.com/leapstack-labs/coffeelint/pkg/token"
)

func analyzeLexical(cfg lint.Config, tokens ...token.Token) ([]lint.Diagnostic, lint.LineIndex) {
	return lint.NewLexicalAnalyzer(lint.DefaultRegistry(), cfg).Analyze(tokens)
}

func TestLexical_Indentation(t *testing.T) {
	// if ready
	//     go()
	stream := func(width string) []token.Token {
		return []token.Token{
			tok(token.IF, "if", 1),
			tok(token.IDENTIFIER, "ready", 1),
			tok(token.INDENT, width, 2),
			tok(token.IDENTIFIER, "go", 2),
			tok(token.OUTDENT, width, 3),
		}
	}

	tests := []struct {
		name    string
		opts    map[string]any
		width   string
		wantCtx string
	}{
		{"mismatch", nil, "4", "Expected 2 spaces and got 4"},
		{"match", nil, "2", ""},
		{"custom width", map[string]any{"indent": 4}, "4", ""},
		{"tabs force width one", map[string]any{"tabs": true}, "1", ""},
		{"tabs with wider token", map[string]any{"tabs": true}, "2", "Expected 1 spaces and got 2"},
		{"disabled", map[string]any{"indent": 0}, "7", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags, _ := analyzeLexical(mustConfig(tt.opts), stream(tt.width)...)
			if tt.wantCtx == "" {
				assert.Empty(t, diags)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, lint.RuleIndentation, diags[0].RuleID)
			assert.Equal(t, 2, diags[0].Line)
			assert.Equal(t, tt.wantCtx, diags[0].Context)
		})
	}
}

func TestLexical_IndentationExemptions(t *testing.T) {
	cfg := lint.DefaultConfig()

	t.Run("generated", func(t *testing.T) {
		diags, _ := analyzeLexical(cfg,
			tok(token.IF, "if", 0),
			tok(token.IDENTIFIER, "x", 0),
			generated(tok(token.INDENT, "4", 0)),
		)
		assert.Empty(t, diags)
	})

	t.Run("interpolation", func(t *testing.T) {
		// the INDENT sits two tokens after the interpolation "+"
		diags, _ := analyzeLexical(cfg,
			tok(token.STRING, `"a"`, 0),
			tok(token.PLUS, "+", 0),
			tok(token.LPAREN, "(", 0),
			tok(token.INDENT, "9", 0),
			tok(token.IDENTIFIER, "b", 0),
		)
		assert.Empty(t, diags)
	})

	t.Run("plus one position back is not interpolation", func(t *testing.T) {
		diags, _ := analyzeLexical(cfg,
			tok(token.IDENTIFIER, "a", 0),
			tok(token.PLUS, "+", 0),
			tok(token.INDENT, "4", 1),
		)
		require.Len(t, diags, 1)
		assert.Equal(t, lint.RuleIndentation, diags[0].RuleID)
	})
}

func TestLexical_ClassNames(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []token.Token
		evidence string
	}{
		{
			name:     "lowercase",
			tokens:   []token.Token{tok(token.CLASS, "class", 0), tok(token.IDENTIFIER, "foo", 0)},
			evidence: "foo",
		},
		{
			name:   "pascal case",
			tokens: []token.Token{tok(token.CLASS, "class", 0), tok(token.IDENTIFIER, "BoaConstrictor2", 0)},
		},
		{
			name:     "snake case",
			tokens:   []token.Token{tok(token.CLASS, "class", 0), tok(token.IDENTIFIER, "Boa_constrictor", 0)},
			evidence: "Boa_constrictor",
		},
		{
			name: "dotted chain checks last segment",
			tokens: []token.Token{
				tok(token.CLASS, "class", 0),
				tok(token.IDENTIFIER, "app", 0),
				tok(token.DOT, ".", 0),
				tok(token.IDENTIFIER, "models", 0),
				tok(token.DOT, ".", 0),
				tok(token.IDENTIFIER, "User", 0),
				tok(token.EXTENDS, "extends", 0),
				tok(token.IDENTIFIER, "base", 0),
			},
		},
		{
			name: "dotted chain with bad last segment",
			tokens: []token.Token{
				tok(token.CLASS, "class", 0),
				tok(token.IDENTIFIER, "App", 0),
				tok(token.DOT, ".", 0),
				tok(token.IDENTIFIER, "user", 0),
			},
			evidence: "user",
		},
		{
			name: "this prefix",
			tokens: []token.Token{
				tok(token.CLASS, "class", 0),
				tok(token.AT, "@", 0),
				tok(token.IDENTIFIER, "Widget", 0),
			},
		},
		{
			name:   "anonymous at end of stream",
			tokens: []token.Token{tok(token.CLASS, "class", 0)},
		},
		{
			name: "anonymous extends",
			tokens: []token.Token{
				tok(token.CLASS, "class", 0),
				tok(token.EXTENDS, "extends", 0),
				tok(token.IDENTIFIER, "base", 0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags, _ := analyzeLexical(lint.DefaultConfig(), tt.tokens...)
			if tt.evidence == "" {
				assert.Empty(t, diags)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, lint.RuleCamelCaseClasses, diags[0].RuleID)
			assert.Equal(t, tt.evidence, diags[0].Evidence)
			assert.Equal(t, "Class names should be camel cased", diags[0].Message)
		})
	}
}

func TestLexical_ClassNamesDisabled(t *testing.T) {
	cfg := mustConfig(map[string]any{"camelCaseClasses": false})
	diags, _ := analyzeLexical(cfg, tok(token.CLASS, "class", 0), tok(token.IDENTIFIER, "foo", 0))
	assert.Empty(t, diags)
}

func TestLexical_ImplicitBraces(t *testing.T) {
	implicit := []token.Token{
		tok(token.IDENTIFIER, "point", 0),
		tok(token.ASSIGN, "=", 0),
		generated(tok(token.LBRACE, "{", 0)),
		tok(token.IDENTIFIER, "x", 0),
		tok(token.COLON, ":", 0),
		tok(token.NUMBER, "1", 0),
		generated(tok(token.RBRACE, "}", 0)),
	}
	explicit := []token.Token{
		tok(token.LBRACE, "{", 1),
		tok(token.RBRACE, "}", 1),
	}

	diags, _ := analyzeLexical(lint.DefaultConfig(), implicit...)
	assert.Empty(t, diags, "implicit braces are allowed by default")

	cfg := mustConfig(map[string]any{"implicitBraces": true})
	diags, _ = analyzeLexical(cfg, implicit...)
	require.Len(t, diags, 1)
	assert.Equal(t, lint.RuleNoImplicitBraces, diags[0].RuleID)
	assert.Equal(t, 0, diags[0].Line)

	diags, _ = analyzeLexical(cfg, explicit...)
	assert.Empty(t, diags)
}

func TestLexical_LineIndex(t *testing.T) {
	tokens := []token.Token{
		tok(token.IDENTIFIER, "a", 0),
		tok(token.ASSIGN, "=", 0),
		newLine(tok(token.NUMBER, "1", 0)),
		tok(token.TERMINATOR, "\n", 0),
		tok(token.IDENTIFIER, "b", 3),
	}
	_, index := analyzeLexical(lint.DefaultConfig(), tokens...)

	assert.Len(t, index, 2)
	assert.True(t, index.Has(0))
	assert.False(t, index.Has(1))
	assert.True(t, index.Has(3))
	assert.Equal(t, tokens[:4], index.Tokens(0))

	last, ok := index.Last(0)
	require.True(t, ok)
	assert.Equal(t, token.TERMINATOR, last.Type)

	_, ok = index.Last(2)
	assert.False(t, ok)
}
