// Package lexer tokenizes CoffeeScript source for the lint engine.
//
// The token stream follows the shape of the CoffeeScript 1.x lexer and
// rewriter closely enough for style checks:
//
//   - line numbers are 0-based
//   - INDENT and OUTDENT carry the width delta as their value
//   - a token directly followed by a line break has NewLine set
//   - single-line bodies after "then", "->", "=>", "else", "try" and
//     "finally" are wrapped in generated INDENT/OUTDENT pairs
//   - implicit object literals are wrapped in generated "{" and "}"
//   - interpolated strings expand to ( STRING + ( expr ) + STRING )
//
// Blank lines and comment-only lines never carry tokens.
//
// DecodeJSON reads a token stream produced by an external CoffeeScript
// tokenizer instead.
package lexer
