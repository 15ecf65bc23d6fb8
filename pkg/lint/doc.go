// Package lint provides the CoffeeScript style-checking engine.
//
// # Architecture
//
// A lint pass runs in two sequential stages over one source text:
//
//  1. Lexical analysis (lexical.go): walks the token stream once, applies the
//     token-driven rules (indentation, camel_case_classes, no_implicit_braces)
//     and builds the LineIndex mapping each line to its tokens.
//  2. Line analysis (line.go): splits the source on newlines and applies the
//     line-driven rules (no_tabs, no_trailing_whitespace, max_line_length,
//     no_trailing_semicolons). At most one line diagnostic is produced per line.
//
// Both diagnostic streams are merged and ordered by line (lint.go).
//
// # Rule Registry
//
// Rules are described by a read-only Registry that is passed explicitly to
// the analyzers:
//
//	reg := lint.DefaultRegistry()
//	rule, ok := reg.Lookup("max_line_length")
//	lexicalRules := reg.ByKind(lint.KindLexical)
//
// # Configuration
//
// Options arrive as a loosely typed map (decoded from YAML or JSON) and are
// resolved into an immutable Config:
//
//	cfg, err := lint.ResolveConfig(map[string]any{"lineLength": 120})
//	cfg = cfg.Disable("no_tabs").WithSeverity("max_line_length", core.SeverityWarning)
//
// # Running the Linter
//
// The engine does not tokenize by itself; it is given a Tokenizer:
//
//	linter := lint.NewLinter(reg, lexer.New())
//	diags, err := linter.Lint(source, opts)
package lint
