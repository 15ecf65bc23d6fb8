package lint_test

import (
	"github.com/leapstack-labs/coffeelint/pkg/lint"
	"github.com/leapstack-labs/coffeelint/pkg/token"
)

func tok(typ token.TokenType, value string, line int) token.Token {
	return token.Token{Type: typ, Value: value, Line: line}
}

func generated(t token.Token) token.Token {
	t.Generated = true
	return t
}

func newLine(t token.Token) token.Token {
	t.NewLine = true
	return t
}

// staticTokenizer returns the same stream for any source.
func staticTokenizer(tokens ...token.Token) lint.Tokenizer {
	return lint.TokenizerFunc(func(string) ([]token.Token, error) {
		return tokens, nil
	})
}

func mustConfig(opts map[string]any) lint.Config {
	cfg, err := lint.ResolveConfig(opts)
	if err != nil {
		panic(err)
	}
	return cfg
}

func ruleIDs(diags []lint.Diagnostic) []string {
	ids := make([]string, 0, len(diags))
	for _, d := range diags {
		ids = append(ids, d.RuleID)
	}
	return ids
}
