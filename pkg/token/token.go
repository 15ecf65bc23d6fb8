// Package token defines the token types shared by the CoffeeScript lexer and
// the lint engine.
//
// Core CoffeeScript tags are defined as constants for switch performance.
// Tags produced by other tokenizers can be registered dynamically via Register().
package token

import "fmt"

// TokenType represents the tag of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // Tag names mirror the CoffeeScript lexer's ALL_CAPS tags
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Structure
	INDENT     // increase of nesting depth; Value holds the width delta
	OUTDENT    // decrease of nesting depth
	TERMINATOR // statement terminator, "\n" or ";"

	// Literals
	IDENTIFIER
	NUMBER
	STRING
	REGEX
	JS   // embedded `javascript`
	BOOL // true, false, yes, no, on, off
	NULL // null, undefined

	// Keywords
	CLASS
	EXTENDS
	IF
	ELSE
	UNLESS
	THEN
	FOR
	WHILE
	UNTIL
	LOOP
	SWITCH
	WHEN
	RETURN
	THROW
	TRY
	CATCH
	FINALLY
	NEW
	THIS
	SUPER
	BREAK
	CONTINUE
	OWN
	OF
	IN
	INSTANCEOF
	BY
	DELETE
	TYPEOF
	LOGIC   // and, or, &&, ||
	UNARY   // not, !, ~
	COMPARE // is, isnt, ==, !=, <, >, <=, >=

	// Punctuation and operators
	DOT       // .
	PLUS      // +
	MINUS     // -
	MATH      // * / %
	ASSIGN    // =, +=, ...
	COMPOUND  // compound assignment: +=, -=, ||=, ...
	COLON     // :
	PROTO     // ::
	COMMA     // ,
	AT        // @
	QUESTION  // ?
	ARROW     // ->
	FATARROW  // =>
	RANGEDOTS // .. or ...
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }

	// Sentinel - dynamic tokens start after this
	maxBuiltin TokenType = 999
)

// String returns the CoffeeScript tag for the token type.
func (t TokenType) String() string {
	// Check dynamic tokens first
	if name, ok := getDynamicName(t); ok {
		return name
	}
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps builtin token types to their CoffeeScript tags.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	INDENT:     "INDENT",
	OUTDENT:    "OUTDENT",
	TERMINATOR: "TERMINATOR",

	IDENTIFIER: "IDENTIFIER",
	NUMBER:     "NUMBER",
	STRING:     "STRING",
	REGEX:      "REGEX",
	JS:         "JS",
	BOOL:       "BOOL",
	NULL:       "NULL",

	CLASS:      "CLASS",
	EXTENDS:    "EXTENDS",
	IF:         "IF",
	ELSE:       "ELSE",
	UNLESS:     "UNLESS",
	THEN:       "THEN",
	FOR:        "FOR",
	WHILE:      "WHILE",
	UNTIL:      "UNTIL",
	LOOP:       "LOOP",
	SWITCH:     "SWITCH",
	WHEN:       "LEADING_WHEN",
	RETURN:     "RETURN",
	THROW:      "THROW",
	TRY:        "TRY",
	CATCH:      "CATCH",
	FINALLY:    "FINALLY",
	NEW:        "NEW",
	THIS:       "THIS",
	SUPER:      "SUPER",
	BREAK:      "STATEMENT",
	CONTINUE:   "CONTINUE",
	OWN:        "OWN",
	OF:         "FOROF",
	IN:         "FORIN",
	INSTANCEOF: "RELATION",
	BY:         "BY",
	DELETE:     "DELETE",
	TYPEOF:     "TYPEOF",
	LOGIC:      "LOGIC",
	UNARY:      "UNARY",
	COMPARE:    "COMPARE",

	DOT:       ".",
	PLUS:      "+",
	MINUS:     "-",
	MATH:      "MATH",
	ASSIGN:    "=",
	COMPOUND:  "COMPOUND_ASSIGN",
	COLON:     ":",
	PROTO:     "::",
	COMMA:     ",",
	AT:        "@",
	QUESTION:  "?",
	ARROW:     "->",
	FATARROW:  "=>",
	RANGEDOTS: "...",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
}

// tagTypes is the reverse of tokenNames, built once.
var tagTypes = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenNames))
	for t, name := range tokenNames {
		m[name] = t
	}
	return m
}()

// keywords maps CoffeeScript keywords to their token types.
var keywords = map[string]TokenType{
	"class":      CLASS,
	"extends":    EXTENDS,
	"if":         IF,
	"else":       ELSE,
	"unless":     UNLESS,
	"then":       THEN,
	"for":        FOR,
	"while":      WHILE,
	"until":      UNTIL,
	"loop":       LOOP,
	"switch":     SWITCH,
	"when":       WHEN,
	"return":     RETURN,
	"throw":      THROW,
	"try":        TRY,
	"catch":      CATCH,
	"finally":    FINALLY,
	"new":        NEW,
	"this":       THIS,
	"super":      SUPER,
	"break":      BREAK,
	"continue":   CONTINUE,
	"own":        OWN,
	"of":         OF,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"by":         BY,
	"delete":     DELETE,
	"typeof":     TYPEOF,
	"and":        LOGIC,
	"or":         LOGIC,
	"not":        UNARY,
	"is":         COMPARE,
	"isnt":       COMPARE,
	"true":       BOOL,
	"false":      BOOL,
	"yes":        BOOL,
	"no":         BOOL,
	"on":         BOOL,
	"off":        BOOL,
	"null":       NULL,
	"undefined":  NULL,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENTIFIER is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENTIFIER
}

// Lookup returns the token type for a CoffeeScript tag such as "INDENT" or "{".
// Dynamically registered tags are consulted after the builtins.
func Lookup(tag string) (TokenType, bool) {
	if t, ok := tagTypes[tag]; ok {
		return t, true
	}
	return LookupDynamic(tag)
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= CLASS && t <= COMPARE
}

// IsStructural returns true for tokens that shape blocks rather than carry
// source text.
func IsStructural(t TokenType) bool {
	return t == INDENT || t == OUTDENT || t == TERMINATOR || t == EOF
}

// Token is a single classified unit produced by a tokenizer.
// Tokens are values; analyzers never mutate them.
type Token struct {
	Type  TokenType
	Value string
	Line  int // 0-based line number

	// Generated marks tokens synthesized by the tokenizer with no literal
	// counterpart in the source (implicit braces, inline blocks).
	Generated bool

	// NewLine marks a token immediately followed by a newline character.
	NewLine bool
}

// Is reports whether the token has the given type.
func (t Token) Is(typ TokenType) bool {
	return t.Type == typ
}

// String returns a debug representation in the CoffeeScript "[TAG value]" form.
func (t Token) String() string {
	return fmt.Sprintf("[%s %q %d]", t.Type, t.Value, t.Line)
}
