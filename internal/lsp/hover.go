package lsp

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/coffeelint/pkg/lint"
)

// getHover documents the rules violated on the hovered line.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	line := int(params.Position.Line)
	var sections []string
	for _, d := range s.lastResults(params.TextDocument.URI) {
		if d.Line != line {
			continue
		}
		rule, ok := s.linter.Registry().Lookup(d.RuleID)
		if !ok {
			continue
		}
		sections = append(sections, ruleHoverMarkdown(rule, d))
	}
	if len(sections) == 0 {
		return nil
	}

	return &Hover{
		Contents: MarkupContent{
			Kind:  MarkupKindMarkdown,
			Value: strings.Join(sections, "\n\n---\n\n"),
		},
		Range: &Range{
			Start: Position{Line: params.Position.Line},
			End:   Position{Line: params.Position.Line, Character: utf16Len(doc.GetLine(line))},
		},
	}
}

func ruleHoverMarkdown(rule lint.RuleDef, d lint.Diagnostic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** `%s`\n\n", rule.ID, d.Severity)
	b.WriteString(d.Message)
	if d.Context != "" {
		fmt.Fprintf(&b, " (%s)", d.Context)
	}
	b.WriteString("\n\n")
	if rule.Description != "" {
		b.WriteString(rule.Description + "\n\n")
	}
	if rule.ConfigKey != "" {
		fmt.Fprintf(&b, "Option: `%s`\n\n", rule.ConfigKey)
	}
	fmt.Fprintf(&b, "[Documentation](%s)", lint.BuildDocURL(rule.ID))
	return b.String()
}
