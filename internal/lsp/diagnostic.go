package lsp

import (
	"errors"
	"strings"
	"unicode"

	"github.com/leapstack-labs/coffeelint/pkg/core"
	"github.com/leapstack-labs/coffeelint/pkg/lexer"
	"github.com/leapstack-labs/coffeelint/pkg/lint"
)

// diagnosticSource tags every diagnostic the server publishes.
const diagnosticSource = "coffeelint"

// syntaxErrorCode is the code of diagnostics for sources the lexer rejects.
const syntaxErrorCode = "syntax_error"

// publishDiagnostics lints the document and publishes the result.
// Files without a configured extension get an empty set.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	project, cfg := s.currentConfig()
	diagnostics := []Diagnostic{}
	if project.HasExtension(URIToPath(uri)) {
		diagnostics = s.lintDocument(doc, cfg)
	}

	version := doc.Version
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

// lintDocument runs the linter over the document and converts the result.
func (s *Server) lintDocument(doc *Document, cfg lint.Config) []Diagnostic {
	lintDiags, err := s.linter.LintWithConfig(doc.Content, cfg)
	if err != nil {
		s.forgetResults(doc.URI)
		return []Diagnostic{syntaxErrorToDiagnostic(doc, err)}
	}
	s.storeResults(doc.URI, lintDiags)

	result := make([]Diagnostic, 0, len(lintDiags))
	for _, d := range lintDiags {
		result = append(result, toLSPDiagnostic(doc, d, cfg))
	}
	return result
}

// toLSPDiagnostic converts a lint diagnostic, narrowing the range to the
// offending text where the rule pins it down.
func toLSPDiagnostic(doc *Document, d lint.Diagnostic, cfg lint.Config) Diagnostic {
	message := d.Message
	if d.Context != "" {
		message += " (" + d.Context + ")"
	}
	return Diagnostic{
		Range:           diagnosticRange(doc.GetLine(d.Line), d, cfg),
		Severity:        toLSPSeverity(d.Severity),
		Code:            d.RuleID,
		CodeDescription: &CodeDescription{Href: lint.BuildDocURL(d.RuleID)},
		Source:          diagnosticSource,
		Message:         message,
	}
}

// diagnosticRange returns the range a diagnostic covers on its line.
func diagnosticRange(text string, d lint.Diagnostic, cfg lint.Config) Range {
	line := uint32(max(0, d.Line)) //nolint:gosec // G115: line is always non-negative
	start, end := uint32(0), utf16Len(text)

	switch d.RuleID {
	case lint.RuleNoTrailingWhitespace:
		start = utf16Len(strings.TrimRightFunc(text, unicode.IsSpace))
	case lint.RuleNoTrailingSemicolons:
		if body, ok := strings.CutSuffix(text, ";"); ok {
			start = utf16Len(body)
		}
	case lint.RuleNoTabs:
		end = utf16Len(leadingWhitespace(text))
	case lint.RuleMaxLineLength:
		if cfg.LineLength > 0 {
			start = utf16Len(runePrefix(text, cfg.LineLength))
		}
	case lint.RuleIndentation:
		end = utf16Len(leadingWhitespace(text))
	}

	if start > end {
		start = end
	}
	return Range{
		Start: Position{Line: line, Character: start},
		End:   Position{Line: line, Character: end},
	}
}

// syntaxErrorToDiagnostic reports a tokenizer failure on the line it names.
func syntaxErrorToDiagnostic(doc *Document, err error) Diagnostic {
	line := 0
	msg := err.Error()
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		line = lexErr.Line
		msg = lexErr.Msg
	}
	pos := uint32(max(0, line)) //nolint:gosec // G115: line is always non-negative
	return Diagnostic{
		Range: Range{
			Start: Position{Line: pos},
			End:   Position{Line: pos, Character: utf16Len(doc.GetLine(line))},
		},
		Severity: DiagnosticSeverityError,
		Code:     syntaxErrorCode,
		Source:   diagnosticSource,
		Message:  msg,
	}
}

// toLSPSeverity converts core.Severity to LSP DiagnosticSeverity.
func toLSPSeverity(s core.Severity) DiagnosticSeverity {
	switch s {
	case core.SeverityError:
		return DiagnosticSeverityError
	case core.SeverityWarning:
		return DiagnosticSeverityWarning
	case core.SeverityInfo:
		return DiagnosticSeverityInformation
	case core.SeverityHint:
		return DiagnosticSeverityHint
	default:
		return DiagnosticSeverityWarning
	}
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeftFunc(s, unicode.IsSpace))]
}

// runePrefix returns the first n runes of s.
func runePrefix(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
