package lint

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// sourceLine is what a line check sees.
type sourceLine struct {
	number int
	text   string
	index  LineIndex
	config Config
}

func (l sourceLine) hasTokens() bool {
	return l.index.Has(l.number)
}

// lineCheck pairs a rule with the predicate that detects it.
type lineCheck struct {
	rule    string
	matches func(l sourceLine) bool
}

// lineChecks run in order; the first match wins and ends the line.
var lineChecks = []lineCheck{
	{RuleNoTabs, hasTabIndentation},
	{RuleNoTrailingWhitespace, hasTrailingWhitespace},
	{RuleMaxLineLength, exceedsLineLength},
	{RuleNoTrailingSemicolons, hasTrailingSemicolon},
}

// LineAnalyzer applies the line-driven rules.
type LineAnalyzer struct {
	registry *Registry
	config   Config
}

// NewLineAnalyzer creates a line analyzer.
func NewLineAnalyzer(registry *Registry, config Config) *LineAnalyzer {
	return &LineAnalyzer{registry: registry, config: config}
}

// Analyze checks each line of source. The index must come from a completed
// lexical pass over the same source.
func (a *LineAnalyzer) Analyze(source string, index LineIndex) []Diagnostic {
	var diags []Diagnostic
	for n, text := range strings.Split(source, "\n") {
		l := sourceLine{number: n, text: text, index: index, config: a.config}
		for _, check := range lineChecks {
			if !check.matches(l) {
				continue
			}
			diags = append(diags, a.registry.Diagnostic(check.rule, Occurrence{
				Line:     n,
				Evidence: text,
			}))
			break
		}
	}
	return diags
}

func hasTabIndentation(l sourceLine) bool {
	if l.config.Tabs || !l.hasTokens() {
		return false
	}
	return strings.ContainsRune(leadingWhitespace(l.text), '\t')
}

func hasTrailingWhitespace(l sourceLine) bool {
	if l.config.Trailing || l.text == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(l.text)
	return unicode.IsSpace(r)
}

func exceedsLineLength(l sourceLine) bool {
	return l.config.LineLength > 0 && utf8.RuneCountInString(l.text) > l.config.LineLength
}

func hasTrailingSemicolon(l sourceLine) bool {
	if l.config.TrailingSemicolons || !strings.HasSuffix(l.text, ";") {
		return false
	}
	last, ok := l.index.Last(l.number)
	return ok && !last.NewLine
}

// leadingWhitespace returns the prefix before the first non-space rune.
func leadingWhitespace(s string) string {
	if i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }); i >= 0 {
		return s[:i]
	}
	return s
}
