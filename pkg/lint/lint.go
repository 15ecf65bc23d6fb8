package lint

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/coffeelint/pkg/token"
)

// Tokenizer turns source text into a token stream.
// Line numbers on the returned tokens must be 0-based.
type Tokenizer interface {
	Tokenize(source string) ([]token.Token, error)
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(source string) ([]token.Token, error)

// Tokenize calls f(source).
func (f TokenizerFunc) Tokenize(source string) ([]token.Token, error) {
	return f(source)
}

// Linter runs both lint passes over one source text at a time.
// A Linter holds no per-pass state and is safe for concurrent use.
type Linter struct {
	registry  *Registry
	tokenizer Tokenizer
}

// NewLinter creates a linter. A nil registry selects DefaultRegistry().
func NewLinter(registry *Registry, tokenizer Tokenizer) *Linter {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Linter{registry: registry, tokenizer: tokenizer}
}

// Registry returns the rules the linter reports against.
func (l *Linter) Registry() *Registry {
	return l.registry
}

// Lint resolves opts, tokenizes source and returns the ordered diagnostics.
func (l *Linter) Lint(source string, opts map[string]any) ([]Diagnostic, error) {
	cfg, err := ResolveConfig(opts)
	if err != nil {
		return nil, err
	}
	return l.LintWithConfig(source, cfg)
}

// LintWithConfig tokenizes source and runs both passes under cfg.
// Tokenizer failures abort the pass and are returned wrapped.
func (l *Linter) LintWithConfig(source string, cfg Config) ([]Diagnostic, error) {
	if l.tokenizer == nil {
		return nil, fmt.Errorf("lint: no tokenizer configured")
	}
	tokens, err := l.tokenizer.Tokenize(source)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	return l.LintTokens(source, tokens, cfg), nil
}

// LintTokens runs both passes on an already tokenized source.
// The lexical pass completes before the line pass starts.
func (l *Linter) LintTokens(source string, tokens []token.Token, cfg Config) []Diagnostic {
	lexical, index := NewLexicalAnalyzer(l.registry, cfg).Analyze(tokens)
	line := NewLineAnalyzer(l.registry, cfg).Analyze(source, index)
	return Finalize(Merge(lexical, line), cfg)
}

// Merge concatenates lexical then line diagnostics and orders them by line.
// The sort is stable: on equal lines lexical diagnostics come first, each
// group in discovery order. Nothing is deduplicated.
func Merge(lexical, line []Diagnostic) []Diagnostic {
	all := make([]Diagnostic, 0, len(lexical)+len(line))
	all = append(all, lexical...)
	all = append(all, line...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Line < all[j].Line
	})
	return all
}

// Finalize drops diagnostics of disabled rules and applies severity overrides.
// Ordering is preserved.
func Finalize(diags []Diagnostic, cfg Config) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if cfg.IsDisabled(d.RuleID) {
			continue
		}
		d.Severity = cfg.GetSeverity(d.RuleID, d.Severity)
		out = append(out, d)
	}
	return out
}
