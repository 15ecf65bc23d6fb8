package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/coffeelint/internal/cli/output"
	"github.com/leapstack-labs/coffeelint/pkg/core"
	"github.com/leapstack-labs/coffeelint/pkg/lint"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Kind    string // Filter by kind: lexical, line
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by kind: lexical rules inspect the token stream,
line rules inspect the raw text of each line.
Use --verbose to see descriptions and rationale.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  coffeelint rules

  # Show details for a specific rule
  coffeelint rules max_line_length

  # List line rules only
  coffeelint rules --kind line

  # Output as JSON
  coffeelint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return ruleIDs(lint.DefaultRegistry()), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "", "Filter by kind: lexical, line")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	var rules []core.RuleInfo
	switch opts.Kind {
	case "":
		for _, def := range cmdCtx.Registry.All() {
			rules = append(rules, def.Info())
		}
	case lint.KindLexical.String(), lint.KindLine.String():
		kind := lint.KindLine
		if opts.Kind == lint.KindLexical.String() {
			kind = lint.KindLexical
		}
		for _, def := range cmdCtx.Registry.ByKind(kind) {
			rules = append(rules, def.Info())
		}
	default:
		return fmt.Errorf("invalid kind %q (valid: lexical, line)", opts.Kind)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, rules, opts.Verbose)
	default:
		return listRulesText(r, rules, opts.Verbose)
	}
}

// groupByKind splits rules into lexical then line, keeping ID order.
func groupByKind(rules []core.RuleInfo) [][]core.RuleInfo {
	var lexical, line []core.RuleInfo
	for _, rule := range rules {
		if rule.Kind == lint.KindLexical.String() {
			lexical = append(lexical, rule)
		} else {
			line = append(line, rule)
		}
	}
	var groups [][]core.RuleInfo
	for _, g := range [][]core.RuleInfo{lexical, line} {
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

func kindTitle(kind string) string {
	return cases.Title(language.English).String(kind) + " Rules"
}

func countKinds(rules []core.RuleInfo) (lexical, line int) {
	for _, rule := range rules {
		if rule.Kind == lint.KindLexical.String() {
			lexical++
		} else {
			line++
		}
	}
	return lexical, line
}

// listRulesText outputs rules as styled tables.
func listRulesText(r *output.Renderer, rules []core.RuleInfo, verbose bool) error {
	styles := r.Styles()
	lexical, line := countKinds(rules)

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d lexical, %d line)", lexical, line)))
	r.Println("")

	for _, group := range groupByKind(rules) {
		r.Println(styles.Header2.Render(kindTitle(group[0].Kind)))

		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.SetStyle(table.StyleLight)
		header := table.Row{"ID", "Name", "Severity", "Option"}
		if verbose {
			header = append(header, "Description")
		}
		t.AppendHeader(header)
		for _, rule := range group {
			row := table.Row{
				rule.ID,
				rule.Name,
				getSeverityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()),
				rule.ConfigKey,
			}
			if verbose {
				row = append(row, rule.Description)
			}
			t.AppendRow(row)
		}
		t.Render()
		r.Println("")
	}

	r.Println(styles.Muted.Render("Use 'coffeelint rules <rule-id>' for detailed documentation"))
	r.Println("")

	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []core.RuleInfo, verbose bool) error {
	r.Println(output.FormatHeader(1, "Lint Rules"))
	r.Println("")

	for _, group := range groupByKind(rules) {
		r.Println(output.FormatHeader(2, kindTitle(group[0].Kind)))
		r.Println("")
		for _, rule := range group {
			r.Printf("- **%s** - %s (`%s`)\n", rule.ID, rule.Name, rule.DefaultSeverity.String())
			if verbose {
				r.Println("  " + rule.Description)
				if rule.Rationale != "" {
					r.Println("  > " + rule.Rationale)
				}
			}
		}
		r.Println("")
	}

	return nil
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Version string          `json:"version"`
	Rules   []core.RuleInfo `json:"rules"`
	Count   struct {
		Lexical int `json:"lexical"`
		Line    int `json:"line"`
		Total   int `json:"total"`
	} `json:"count"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, rules []core.RuleInfo) error {
	jsonOutput := RulesJSONOutput{
		Version: lint.RulesVersion,
		Rules:   rules,
	}
	if jsonOutput.Rules == nil {
		jsonOutput.Rules = []core.RuleInfo{}
	}
	jsonOutput.Count.Lexical, jsonOutput.Count.Line = countKinds(rules)
	jsonOutput.Count.Total = len(rules)
	return r.JSON(jsonOutput)
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	def, ok := cmdCtx.Registry.Lookup(ruleID)
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	rule := def.Info()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		return showRuleMarkdown(r, &rule)
	default:
		return showRuleText(r, &rule)
	}
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *core.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Kind"), rule.Kind)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), getSeverityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	r.Printf("  %s: %s\n", styles.Bold.Render("Message"), rule.Message)
	if rule.ConfigKey != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("Option"), rule.ConfigKey)
	}
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Error.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render("Docs: " + lint.BuildDocURL(rule.ID)))
	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *core.RuleInfo) error {
	r.Println(output.FormatHeader(1, fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")
	r.Printf("**Kind:** %s | **Severity:** `%s`", rule.Kind, rule.DefaultSeverity.String())
	if rule.ConfigKey != "" {
		r.Printf(" | **Option:** `%s`", rule.ConfigKey)
	}
	r.Println("")
	r.Println("")
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(output.FormatHeader(2, "Why This Matters"))
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(output.FormatHeader(2, "Bad Example"))
		r.Println("")
		r.Println(output.FormatCodeBlock("coffee", rule.BadExample))
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(output.FormatHeader(2, "Good Example"))
		r.Println("")
		r.Println(output.FormatCodeBlock("coffee", rule.GoodExample))
		r.Println("")
	}

	r.Printf("[Documentation](%s)\n", lint.BuildDocURL(rule.ID))
	return nil
}

// Helper functions

func getSeverityStyle(styles *output.Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return styles.Error
	case core.SeverityWarning:
		return styles.Warning
	case core.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}
