package lexer

import (
	"strings"

	"github.com/leapstack-labs/coffeelint/pkg/token"
)

// piece is a literal or interpolated segment of a double-quoted string.
type piece struct {
	expr bool
	text string
	line int
}

// stringToken lexes single and double quoted strings, including the tripled heredoc forms.
func (l *lexer) stringToken() error {
	quote := l.src[l.pos]
	delim := string(quote)
	if triple := strings.Repeat(delim, 3); strings.HasPrefix(l.src[l.pos:], triple) {
		delim = triple
	}

	start, startLine := l.pos, l.line
	pieces, end, err := l.scanString(l.pos+len(delim), delim, quote == '"')
	if err != nil {
		return err
	}
	raw := l.src[start:end]
	l.pos = end

	if !hasExpr(pieces) {
		l.emit(token.STRING, raw)
		l.line += strings.Count(raw, "\n")
		return nil
	}
	if err := l.interpolate(pieces, startLine); err != nil {
		return err
	}
	l.line = startLine + strings.Count(raw, "\n")
	return nil
}

// scanString reads up to the closing delimiter and splits the body on #{...}.
func (l *lexer) scanString(pos int, delim string, interpolates bool) ([]piece, int, error) {
	src := l.src
	line := l.line
	var pieces []piece
	segStart, segLine := pos, line

	for i := pos; i < len(src); {
		switch {
		case src[i] == '\\':
			if i+1 < len(src) && src[i+1] == '\n' {
				line++
			}
			i += 2
		case strings.HasPrefix(src[i:], delim):
			if i > segStart {
				pieces = append(pieces, piece{text: src[segStart:i], line: segLine})
			}
			return pieces, i + len(delim), nil
		case interpolates && src[i] == '#' && i+1 < len(src) && src[i+1] == '{':
			if i > segStart {
				pieces = append(pieces, piece{text: src[segStart:i], line: segLine})
			}
			closeAt, ok := matchBrace(src, i+2)
			if !ok {
				return nil, 0, &Error{Line: line, Msg: "missing } in string interpolation"}
			}
			pieces = append(pieces, piece{expr: true, text: src[i+2 : closeAt], line: line})
			line += strings.Count(src[i:closeAt], "\n")
			i = closeAt + 1
			segStart, segLine = i, line
		case src[i] == '\n':
			line++
			i++
		default:
			i++
		}
	}
	return nil, 0, l.errorf("missing %s", delim)
}

// matchBrace returns the index of the "}" closing an interpolation whose
// body starts at pos.
func matchBrace(src string, pos int) (int, bool) {
	depth := 0
	for i := pos; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i, true
			}
			depth--
		case '"', '\'':
			q := src[i]
			for i++; i < len(src) && src[i] != q; i++ {
				if src[i] == '\\' {
					i++
				}
			}
		}
	}
	return 0, false
}

func hasExpr(pieces []piece) bool {
	for _, p := range pieces {
		if p.expr {
			return true
		}
	}
	return false
}

// interpolate emits ( STRING + ( expr ) + STRING ). Expressions with more
// than one token are parenthesized; empty ones are dropped. A leading
// expression is preceded by an empty string.
func (l *lexer) interpolate(pieces []piece, line int) error {
	type part struct {
		tokens  []token.Token
		literal bool
	}
	str := func(value string) token.Token {
		return token.Token{Type: token.STRING, Value: value, Line: line}
	}

	var parts []part
	for _, p := range pieces {
		if !p.expr {
			parts = append(parts, part{tokens: []token.Token{str(`"` + p.text + `"`)}, literal: true})
			continue
		}
		nested, err := lexNested(p.text, p.line)
		if err != nil {
			return err
		}
		if len(nested) == 0 {
			continue
		}
		if len(nested) > 1 {
			wrapped := make([]token.Token, 0, len(nested)+2)
			wrapped = append(wrapped, token.Token{Type: token.LPAREN, Value: "(", Line: line})
			wrapped = append(wrapped, nested...)
			wrapped = append(wrapped, token.Token{Type: token.RPAREN, Value: ")", Line: line})
			nested = wrapped
		}
		parts = append(parts, part{tokens: nested})
	}

	if len(parts) == 0 || !parts[0].literal {
		parts = append([]part{{tokens: []token.Token{str(`""`)}, literal: true}}, parts...)
	}

	if len(parts) > 1 {
		l.tokens = append(l.tokens, token.Token{Type: token.LPAREN, Value: "(", Line: line})
	}
	for i, p := range parts {
		if i > 0 {
			l.tokens = append(l.tokens, token.Token{Type: token.PLUS, Value: "+", Line: line})
		}
		l.tokens = append(l.tokens, p.tokens...)
	}
	if len(parts) > 1 {
		l.tokens = append(l.tokens, token.Token{Type: token.RPAREN, Value: ")", Line: line})
	}
	return nil
}

// lexNested tokenizes an interpolated expression without rewriting it.
func lexNested(src string, line int) ([]token.Token, error) {
	n := newLexer(strings.TrimRight(src, " \t\n"), line, true)
	if err := n.run(); err != nil {
		return nil, err
	}
	toks := n.tokens
	if k := len(toks); k > 0 && toks[k-1].Type == token.TERMINATOR {
		toks = toks[:k-1]
	}
	if len(toks) > 0 && toks[0].Type == token.TERMINATOR {
		toks = toks[1:]
	}
	return toks, nil
}

// jsToken lexes an embedded `javascript` literal.
func (l *lexer) jsToken() error {
	end := strings.IndexByte(l.src[l.pos+1:], '`')
	if end < 0 {
		return l.errorf("missing `")
	}
	raw := l.src[l.pos : l.pos+end+2]
	l.emit(token.JS, raw)
	l.line += strings.Count(raw, "\n")
	l.pos += len(raw)
	return nil
}

// regexAllowed reports whether a "/" starts a regex rather than a division.
func (l *lexer) regexAllowed() bool {
	next := l.peekByte(1)
	if next == ' ' || next == '=' || next == '\n' {
		return strings.HasPrefix(l.src[l.pos:], "///")
	}
	t, ok := l.last()
	if !ok {
		return true
	}
	switch t.Type {
	case token.NUMBER, token.REGEX, token.BOOL, token.NULL, token.STRING, token.IDENTIFIER,
		token.THIS, token.RPAREN, token.RBRACKET, token.RBRACE:
		return false
	case token.UNARY:
		return t.Value != "++" && t.Value != "--"
	}
	return true
}

// regexToken lexes /.../flags and ///...///flags. A single-line regex that
// is not closed on its line falls back to a division operator.
func (l *lexer) regexToken() error {
	src := l.src
	start := l.pos

	if strings.HasPrefix(src[start:], "///") {
		end := strings.Index(src[start+3:], "///")
		if end < 0 {
			return l.errorf("missing ///")
		}
		i := start + 3 + end + 3
		i = skipFlags(src, i)
		raw := src[start:i]
		l.emit(token.REGEX, raw)
		l.line += strings.Count(raw, "\n")
		l.pos = i
		return nil
	}

	inClass := false
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '\n':
			return l.literalToken()
		case '/':
			if inClass {
				continue
			}
			end := skipFlags(src, i+1)
			l.emit(token.REGEX, src[start:end])
			l.pos = end
			return nil
		}
	}
	return l.literalToken()
}

func skipFlags(src string, i int) int {
	for i < len(src) && strings.IndexByte("imgy", src[i]) >= 0 {
		i++
	}
	return i
}
