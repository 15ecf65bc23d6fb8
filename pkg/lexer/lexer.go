package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/leapstack-labs/coffeelint/pkg/token"
)

// Error is a tokenization failure.
type Error struct {
	Line int // 0-based
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line+1, e.Msg)
}

// Tokenizer implements lint.Tokenizer. The zero value is ready to use and
// safe for concurrent use; every call lexes with fresh state.
type Tokenizer struct{}

// New creates a Tokenizer.
func New() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize converts source into a rewritten token stream.
func (t *Tokenizer) Tokenize(source string) ([]token.Token, error) {
	return Tokenize(source)
}

// Tokenize converts source into a rewritten token stream.
func Tokenize(source string) ([]token.Token, error) {
	code := strings.ReplaceAll(source, "\r", "")
	code = strings.TrimRightFunc(code, unicode.IsSpace)

	l := newLexer(code, 0, false)
	if err := l.run(); err != nil {
		return nil, err
	}
	return rewrite(l.tokens), nil
}

// lexer holds the state of one tokenization.
type lexer struct {
	src    string
	pos    int
	line   int
	nested bool // lexing an interpolated expression
	tokens []token.Token

	indent    int               // current indentation width
	indebt    int               // indentation swallowed by a continued line
	outdebt   int               // dedent owed to the next INDENT
	indents   []int             // widths of the open INDENT tokens
	ends      []token.TokenType // expected closers, innermost last
	continued bool              // line ended with a backslash
}

func newLexer(src string, line int, nested bool) *lexer {
	return &lexer{src: src, line: line, nested: nested}
}

func (l *lexer) run() error {
	if err := l.startOfInput(); err != nil {
		return err
	}

	for l.pos < len(l.src) {
		c := l.src[l.pos]
		var err error

		switch {
		case c == '\n':
			err = l.lineToken()
		case c == ' ' || c == '\t' || c == '\f' || c == '\v':
			l.pos++
		case c == '#' && strings.HasPrefix(l.src[l.pos:], "###") && !strings.HasPrefix(l.src[l.pos:], "####"):
			err = l.blockComment()
		case c == '#':
			l.lineComment()
		case c == '\\' && l.peekByte(1) == '\n':
			l.continued = true
			l.pos++
		case isIdentStart(c):
			l.identifierToken()
		case isDigit(c) || (c == '.' && isDigit(l.peekByte(1))):
			l.numberToken()
		case c == '"' || c == '\'':
			err = l.stringToken()
		case c == '`':
			err = l.jsToken()
		case c == '/' && l.regexAllowed():
			err = l.regexToken()
		default:
			err = l.literalToken()
		}
		if err != nil {
			return err
		}
	}
	return l.closeIndentation()
}

// emit appends a token on the current line.
func (l *lexer) emit(typ token.TokenType, value string) {
	l.tokens = append(l.tokens, token.Token{Type: typ, Value: value, Line: l.line})
}

func (l *lexer) last() (token.Token, bool) {
	if len(l.tokens) == 0 {
		return token.Token{}, false
	}
	return l.tokens[len(l.tokens)-1], true
}

func (l *lexer) lastIs(typ token.TokenType) bool {
	t, ok := l.last()
	return ok && t.Type == typ
}

func (l *lexer) peekByte(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *lexer) errorf(format string, args ...any) error {
	return &Error{Line: l.line, Msg: fmt.Sprintf(format, args...)}
}

// =============================================================================
// Comments
// =============================================================================

// lineComment skips to the end of the line, leaving the newline.
func (l *lexer) lineComment() {
	if i := strings.IndexByte(l.src[l.pos:], '\n'); i >= 0 {
		l.pos += i
		return
	}
	l.pos = len(l.src)
}

// blockComment skips a ### ... ### comment.
func (l *lexer) blockComment() error {
	body := l.src[l.pos+3:]
	end := strings.Index(body, "###")
	if end < 0 {
		return l.errorf("missing ###")
	}
	l.line += strings.Count(body[:end], "\n")
	l.pos += 3 + end + 3
	return nil
}

// =============================================================================
// Identifiers and numbers
// =============================================================================

func (l *lexer) identifierToken() {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	word := l.src[start:l.pos]

	typ := token.IDENTIFIER
	if !l.afterAccessor() && !l.beforeKeyColon() {
		typ = token.LookupIdent(word)
	}
	l.emit(typ, word)
}

// afterAccessor reports whether the previous token makes the next word a
// property name (a.class, @for, A::new).
func (l *lexer) afterAccessor() bool {
	t, ok := l.last()
	if !ok {
		return false
	}
	switch t.Type {
	case token.DOT, token.PROTO, token.AT:
		return true
	}
	return false
}

// beforeKeyColon reports whether the word is an object key (class: 1).
func (l *lexer) beforeKeyColon() bool {
	i := l.pos
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	return i < len(l.src) && l.src[i] == ':' && (i+1 >= len(l.src) || l.src[i+1] != ':')
}

func (l *lexer) numberToken() {
	start := l.pos
	src := l.src

	if src[l.pos] == '0' && l.pos+1 < len(src) && strings.ContainsRune("xXbBoO", rune(src[l.pos+1])) {
		l.pos += 2
		for l.pos < len(src) && isHexDigit(src[l.pos]) {
			l.pos++
		}
		l.emit(token.NUMBER, src[start:l.pos])
		return
	}

	for l.pos < len(src) && isDigit(src[l.pos]) {
		l.pos++
	}
	// a fraction needs a digit after the dot; "1..2" is a range
	if l.pos+1 < len(src) && src[l.pos] == '.' && isDigit(src[l.pos+1]) {
		l.pos++
		for l.pos < len(src) && isDigit(src[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(src) && (src[l.pos] == 'e' || src[l.pos] == 'E') {
		j := l.pos + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			l.pos = j
			for l.pos < len(src) && isDigit(src[l.pos]) {
				l.pos++
			}
		}
	}
	l.emit(token.NUMBER, src[start:l.pos])
}

// =============================================================================
// Operators and brackets
// =============================================================================

// operators is ordered longest first.
var operators = []struct {
	text string
	typ  token.TokenType
}{
	{">>>=", token.COMPOUND},
	{"...", token.RANGEDOTS},
	{"&&=", token.COMPOUND},
	{"||=", token.COMPOUND},
	{"<<=", token.COMPOUND},
	{">>=", token.COMPOUND},
	{">>>", token.MATH},
	{"..", token.RANGEDOTS},
	{"?.", token.DOT},
	{"::", token.PROTO},
	{"->", token.ARROW},
	{"=>", token.FATARROW},
	{"?=", token.COMPOUND},
	{"+=", token.COMPOUND},
	{"-=", token.COMPOUND},
	{"*=", token.COMPOUND},
	{"/=", token.COMPOUND},
	{"%=", token.COMPOUND},
	{"&=", token.COMPOUND},
	{"|=", token.COMPOUND},
	{"^=", token.COMPOUND},
	{"==", token.COMPARE},
	{"!=", token.COMPARE},
	{"<=", token.COMPARE},
	{">=", token.COMPARE},
	{"&&", token.LOGIC},
	{"||", token.LOGIC},
	{"<<", token.MATH},
	{">>", token.MATH},
	{"++", token.UNARY},
	{"--", token.UNARY},
	{"<", token.COMPARE},
	{">", token.COMPARE},
	{"&", token.LOGIC},
	{"|", token.LOGIC},
	{"^", token.LOGIC},
	{"!", token.UNARY},
	{"~", token.UNARY},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.MATH},
	{"/", token.MATH},
	{"%", token.MATH},
	{"=", token.ASSIGN},
	{":", token.COLON},
	{",", token.COMMA},
	{".", token.DOT},
	{"@", token.AT},
	{"?", token.QUESTION},
	{";", token.TERMINATOR},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
}

// closers maps an opening bracket to the token that closes it.
var closers = map[token.TokenType]token.TokenType{
	token.LPAREN:   token.RPAREN,
	token.LBRACKET: token.RBRACKET,
	token.LBRACE:   token.RBRACE,
}

func (l *lexer) literalToken() error {
	rest := l.src[l.pos:]
	for _, op := range operators {
		if !strings.HasPrefix(rest, op.text) {
			continue
		}
		switch op.typ {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			l.ends = append(l.ends, closers[op.typ])
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if err := l.pair(op.typ); err != nil {
				return err
			}
		}
		l.emit(op.typ, op.text)
		l.pos += len(op.text)
		return nil
	}
	return l.errorf("unexpected character %q", rest[0])
}

// pair closes the innermost open bracket, which must be want. Indentation
// opened inside the brackets is closed first.
func (l *lexer) pair(want token.TokenType) error {
	n := len(l.ends)
	if n > 0 && l.ends[n-1] == want {
		l.ends = l.ends[:n-1]
		return nil
	}
	if want != token.OUTDENT && n > 0 && l.ends[n-1] == token.OUTDENT {
		size := l.indents[len(l.indents)-1]
		l.indent -= size
		if err := l.outdentToken(size, true); err != nil {
			return err
		}
		return l.pair(want)
	}
	if want == token.OUTDENT && n > 0 {
		return l.errorf("missing %s", l.ends[n-1])
	}
	return l.errorf("unmatched %s", want)
}

// =============================================================================
// Character classes
// =============================================================================

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c >= 0x7f
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func width(n int) string {
	return strconv.Itoa(n)
}
