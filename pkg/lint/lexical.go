package lint

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/leapstack-labs/coffeelint/pkg/token"
)

var camelCasePattern = regexp.MustCompile(`^[A-Z][a-zA-Z\d]*$`)

// LineIndex maps a 0-based line number to the tokens on that line, in stream order.
// Only lines holding at least one token have an entry.
type LineIndex map[int][]token.Token

// Has reports whether any token was recorded on the line.
func (idx LineIndex) Has(line int) bool {
	_, ok := idx[line]
	return ok
}

// Tokens returns the tokens recorded on the line.
func (idx LineIndex) Tokens(line int) []token.Token {
	return idx[line]
}

// Last returns the last token recorded on the line.
func (idx LineIndex) Last(line int) (token.Token, bool) {
	toks := idx[line]
	if len(toks) == 0 {
		return token.Token{}, false
	}
	return toks[len(toks)-1], true
}

// tokenCheck inspects the token at the cursor of a pass.
// It returns the violated rule and the occurrence, or ok=false.
type tokenCheck func(p *lexicalPass, tok token.Token) (ruleID string, occ Occurrence, ok bool)

// tokenChecks dispatches on token kind. Kinds without an entry never fire.
var tokenChecks = map[token.TokenType]tokenCheck{
	token.INDENT: checkIndentation,
	token.CLASS:  checkClassName,
	token.LBRACE: checkImplicitBrace,
}

// LexicalAnalyzer applies the token-driven rules.
type LexicalAnalyzer struct {
	registry *Registry
	config   Config
}

// NewLexicalAnalyzer creates a lexical analyzer.
func NewLexicalAnalyzer(registry *Registry, config Config) *LexicalAnalyzer {
	return &LexicalAnalyzer{registry: registry, config: config}
}

// Analyze walks the tokens once. It returns the lexical diagnostics and the
// index of tokens per line, which the line pass reads afterwards.
func (a *LexicalAnalyzer) Analyze(tokens []token.Token) ([]Diagnostic, LineIndex) {
	p := &lexicalPass{tokens: tokens, config: a.config}
	index := make(LineIndex)
	var diags []Diagnostic

	for i, tok := range tokens {
		p.i = i
		index[tok.Line] = append(index[tok.Line], tok)

		check, ok := tokenChecks[tok.Type]
		if !ok {
			continue
		}
		if ruleID, occ, hit := check(p, tok); hit {
			occ.Line = tok.Line
			diags = append(diags, a.registry.Diagnostic(ruleID, occ))
		}
	}
	return diags, index
}

// lexicalPass is the cursor state of one walk over the stream.
type lexicalPass struct {
	tokens []token.Token
	i      int
	config Config
}

// peek returns the token n positions from the cursor.
func (p *lexicalPass) peek(n int) (token.Token, bool) {
	j := p.i + n
	if j < 0 || j >= len(p.tokens) {
		return token.Token{}, false
	}
	return p.tokens[j], true
}

func checkIndentation(p *lexicalPass, tok token.Token) (string, Occurrence, bool) {
	if p.config.Indent == 0 || tok.Generated {
		return "", Occurrence{}, false
	}
	// Interpolated expressions are wrapped as `+ ( INDENT ...`; not real indentation.
	if prev, ok := p.peek(-2); ok && prev.Type == token.PLUS {
		return "", Occurrence{}, false
	}
	if width, err := strconv.Atoi(tok.Value); err == nil && width == p.config.Indent {
		return "", Occurrence{}, false
	}
	return RuleIndentation, Occurrence{
		Context: fmt.Sprintf("Expected %d spaces and got %s", p.config.Indent, tok.Value),
	}, true
}

func checkClassName(p *lexicalPass, _ token.Token) (string, Occurrence, bool) {
	if !p.config.CamelCaseClasses {
		return "", Occurrence{}, false
	}
	name, ok := p.className()
	if !ok || camelCasePattern.MatchString(name) {
		return "", Occurrence{}, false
	}
	return RuleCamelCaseClasses, Occurrence{Evidence: name}, true
}

// className resolves the declared name after a CLASS token, following
// dotted chains (`class A.B.C` yields "C"). An `@` prefix is skipped.
// Anonymous classes report ok=false.
func (p *lexicalPass) className() (string, bool) {
	offset := 1
	if tok, ok := p.peek(offset); ok && tok.Type == token.AT {
		offset++
	}
	for {
		if next, ok := p.peek(offset + 1); ok && next.Type == token.DOT {
			offset += 2
			continue
		}
		tok, ok := p.peek(offset)
		if !ok || tok.Type != token.IDENTIFIER {
			return "", false
		}
		return tok.Value, true
	}
}

func checkImplicitBrace(p *lexicalPass, tok token.Token) (string, Occurrence, bool) {
	if p.config.ImplicitBraces && tok.Generated {
		return RuleNoImplicitBraces, Occurrence{}, true
	}
	return "", Occurrence{}, false
}
