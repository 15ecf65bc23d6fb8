package lexer

import (
	"slices"

	"github.com/leapstack-labs/coffeelint/pkg/token"
)

// rewrite applies the implicit-syntax passes to a lexed stream.
func rewrite(tokens []token.Token) []token.Token {
	tokens = removeMidExpressionNewlines(tokens)
	tokens = addImplicitIndentation(tokens)
	tokens = addImplicitBraces(tokens)
	return tokens
}

func isExpressionStart(t token.TokenType) bool {
	switch t {
	case token.LPAREN, token.LBRACKET, token.LBRACE, token.INDENT:
		return true
	}
	return false
}

func isExpressionEnd(t token.TokenType) bool {
	switch t {
	case token.RPAREN, token.RBRACKET, token.RBRACE, token.OUTDENT:
		return true
	}
	return false
}

func tagAt(tokens []token.Token, i int) token.TokenType {
	if i < 0 || i >= len(tokens) {
		return token.EOF
	}
	return tokens[i].Type
}

// detectEnd scans from start for the first token at nesting level zero that
// satisfies cond, or the first closer of an enclosing expression.
// It returns the insertion index for the closing token.
func detectEnd(tokens []token.Token, start int, cond func(i int) bool) int {
	levels := 0
	for i := start; i < len(tokens); i++ {
		typ := tokens[i].Type
		if levels == 0 && cond(i) {
			return i
		}
		if isExpressionStart(typ) {
			levels++
		} else if isExpressionEnd(typ) {
			levels--
		}
		if levels < 0 {
			return i
		}
	}
	return len(tokens)
}

// lineBefore is the line of the token preceding index i.
func lineBefore(tokens []token.Token, i int) int {
	if i > 0 && i <= len(tokens) {
		return tokens[i-1].Line
	}
	if len(tokens) > 0 {
		return tokens[0].Line
	}
	return 0
}

// =============================================================================
// Newlines
// =============================================================================

// removeMidExpressionNewlines drops terminators that sit right before a
// closing token, such as the line break before a dedented "]".
func removeMidExpressionNewlines(tokens []token.Token) []token.Token {
	out := tokens[:0]
	for i, t := range tokens {
		if t.Type == token.TERMINATOR {
			switch tagAt(tokens, i+1) {
			case token.RPAREN, token.RBRACKET, token.RBRACE, token.OUTDENT,
				token.CATCH, token.WHEN, token.ELSE, token.FINALLY:
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// =============================================================================
// Implicit indentation
// =============================================================================

func isSingleLiner(t token.TokenType) bool {
	switch t {
	case token.ELSE, token.ARROW, token.FATARROW, token.TRY, token.FINALLY, token.THEN:
		return true
	}
	return false
}

// addImplicitIndentation wraps single-line bodies in generated INDENT and
// OUTDENT tokens of width 2. A "then" is replaced by its INDENT.
func addImplicitIndentation(tokens []token.Token) []token.Token {
	for i := 0; i < len(tokens); i++ {
		starter := tokens[i]
		if !isSingleLiner(starter.Type) {
			continue
		}
		next := tagAt(tokens, i+1)
		if next == token.INDENT || (starter.Type == token.ELSE && next == token.IF) {
			continue
		}

		indent := token.Token{Type: token.INDENT, Value: "2", Line: starter.Line, Generated: true}
		tokens = slices.Insert(tokens, i+1, indent)

		end := detectEnd(tokens, i+2, func(j int) bool {
			t := tokens[j]
			switch t.Type {
			case token.TERMINATOR:
				return t.Value != ";"
			case token.CATCH, token.FINALLY, token.OUTDENT, token.WHEN:
				return true
			case token.ELSE:
				return starter.Type == token.THEN
			}
			return false
		})
		outdent := token.Token{Type: token.OUTDENT, Value: "2", Line: lineBefore(tokens, end), Generated: true}
		tokens = slices.Insert(tokens, end, outdent)

		if starter.Type == token.THEN {
			tokens = slices.Delete(tokens, i, i+1)
		}
	}
	return tokens
}

// =============================================================================
// Implicit braces
// =============================================================================

// addImplicitBraces wraps object literals written without braces in
// generated "{" and "}" tokens.
func addImplicitBraces(tokens []token.Token) []token.Token {
	// stack records the open expressions; true marks an object brace
	var stack []bool

	for i := 0; i < len(tokens); i++ {
		typ := tokens[i].Type
		switch {
		case isExpressionStart(typ):
			isBrace := typ == token.LBRACE || (typ == token.INDENT && tagAt(tokens, i-1) == token.LBRACE)
			stack = append(stack, isBrace)
			continue
		case isExpressionEnd(typ):
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		case typ != token.COLON:
			continue
		}

		ago := tagAt(tokens, i-2)
		inBrace := len(stack) > 0 && stack[len(stack)-1]
		if ago != token.COLON && inBrace {
			continue
		}

		idx := i - 1
		if ago == token.AT {
			idx = i - 2
		}
		if idx < 0 {
			continue
		}
		prev := tagAt(tokens, idx-1)
		startsLine := idx == 0 || prev == token.TERMINATOR || prev == token.INDENT || prev == token.OUTDENT

		open := token.Token{Type: token.LBRACE, Value: "{", Line: tokens[idx].Line, Generated: true}
		tokens = slices.Insert(tokens, idx, open)
		stack = append(stack, true)
		i++ // the colon moved one to the right

		end := detectEnd(tokens, i+1, func(j int) bool {
			t := tokens[j]
			one, two, three := tagAt(tokens, j+1), tagAt(tokens, j+2), tagAt(tokens, j+3)
			switch t.Type {
			case token.TERMINATOR, token.OUTDENT:
				continues := two == token.COLON || (one == token.AT && three == token.COLON)
				return (!startsLine && tagAt(tokens, j-1) != token.COMMA) || !continues
			case token.COMMA:
				switch one {
				case token.IDENTIFIER, token.NUMBER, token.STRING, token.AT, token.TERMINATOR, token.OUTDENT, token.EOF:
					return false
				}
				return true
			}
			return false
		})
		closeTok := token.Token{Type: token.RBRACE, Value: "}", Line: lineBefore(tokens, end), Generated: true}
		tokens = slices.Insert(tokens, end, closeTok)
	}
	return tokens
}
