package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/coffeelint/pkg/lint"
)

// kindDescriptions provides human-readable descriptions for rule kinds.
var kindDescriptions = map[lint.RuleKind]string{
	lint.KindLexical: "Rules evaluated against the token stream.",
	lint.KindLine:    "Rules evaluated against the raw text of each line.",
}

// generateRuleDocs generates the rule reference pages.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	reg := lint.DefaultRegistry()
	if err := os.WriteFile(filepath.Join(outDir, "index.md"), ruleIndexPage(reg), 0600); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, def := range reg.All() {
		name := strings.ToLower(def.ID) + ".md"
		if err := os.WriteFile(filepath.Join(outDir, name), rulePage(def), 0600); err != nil {
			return err
		}
		log.Printf("  Generated %s", name)
	}

	return nil
}

// ruleIndexPage lists every rule grouped by kind, with the default options.
func ruleIndexPage(reg *lint.Registry) []byte {
	w := NewMarkdownWriter()

	w.Frontmatter("Rules", "Built-in lint rules for coffeelint")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("coffeelint ships %d rules (rules version %s).", reg.Count(), lint.RulesVersion))

	for _, kind := range []lint.RuleKind{lint.KindLexical, lint.KindLine} {
		rules := reg.ByKind(kind)
		if len(rules) == 0 {
			continue
		}
		w.Line(fmt.Sprintf("## %s rules {#%s}", capitalizeFirst(kind.String()), kind))
		w.Newline()
		w.Paragraph(kindDescriptions[kind])

		var rows [][]string
		for _, def := range rules {
			rows = append(rows, []string{
				fmt.Sprintf("[%s](%s)", InlineCode(def.ID), strings.ToLower(def.ID)),
				def.Name,
				InlineCode(def.Severity.String()),
				InlineCode(def.ConfigKey),
			})
		}
		w.Table([]string{"Rule", "Name", "Severity", "Option"}, rows)
	}

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Style violation that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	d := lint.DefaultConfig()
	w.Header(2, "Configuration")
	w.Paragraph("Options and severities are read from `coffeelint.yaml`:")
	w.CodeBlock("yaml", fmt.Sprintf(`options:
  %s: %t
  %s: %t
  %s: %d
  %s: %d
  %s: %t
  %s: %t
  %s: %t
severity:
  max_line_length: warning  # error | warning | info | hint
  no_tabs: off              # disable the rule`,
		lint.OptTabs, d.Tabs,
		lint.OptTrailing, d.Trailing,
		lint.OptLineLength, d.LineLength,
		lint.OptIndent, d.Indent,
		lint.OptCamelCaseClasses, d.CamelCaseClasses,
		lint.OptTrailingSemicolons, d.TrailingSemicolons,
		lint.OptImplicitBraces, d.ImplicitBraces,
	))
	w.Paragraph(fmt.Sprintf("A %s of 0 disables the length check. When tabs are allowed the expected %s is 1.",
		InlineCode(lint.OptLineLength), InlineCode(lint.OptIndent)))

	return w.Bytes()
}

// rulePage writes detailed documentation for a single rule.
func rulePage(def lint.RuleDef) []byte {
	w := NewMarkdownWriter()

	w.Frontmatter(def.ID, def.Name)
	w.GeneratedMarker()

	w.Header(1, fmt.Sprintf("%s - %s", def.ID, def.Name))
	w.Line(fmt.Sprintf("**Kind:** %s | **Severity:** %s | **Option:** %s",
		def.Kind, InlineCode(def.Severity.String()), InlineCode(def.ConfigKey)))
	w.Newline()

	w.Paragraph(def.Description)
	w.Line(fmt.Sprintf("Reported as: %s", Bold(def.Message)))
	w.Newline()

	if def.Rationale != "" {
		w.Header(2, "Why This Matters")
		w.Paragraph(def.Rationale)
	}
	if def.BadExample != "" {
		w.Header(2, "Bad")
		w.CodeBlock("coffee", def.BadExample)
	}
	if def.GoodExample != "" {
		w.Header(2, "Good")
		w.CodeBlock("coffee", def.GoodExample)
	}

	return w.Bytes()
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
