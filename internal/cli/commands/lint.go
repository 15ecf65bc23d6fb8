package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/leapstack-labs/coffeelint/internal/cli/config"
	"github.com/leapstack-labs/coffeelint/internal/cli/output"
	"github.com/leapstack-labs/coffeelint/pkg/core"
	"github.com/leapstack-labs/coffeelint/pkg/lexer"
	"github.com/leapstack-labs/coffeelint/pkg/lint"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// stdinPath is the display name of source read from standard input.
const stdinPath = "<stdin>"

// LintOptions holds options for the lint command.
type LintOptions struct {
	Paths    []string // Files or directories
	Format   string   // Output format: text, markdown, json
	Disable  []string // Rule IDs to disable
	Severity string   // Minimum severity: error, warning, info, hint
	Tokens   string   // JSON token stream to lint instead of tokenizing
	Stdin    bool     // Read source from standard input
	Watch    bool     // Re-lint on change
	Jobs     int      // Files linted concurrently
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check CoffeeScript files for style violations",
		Long: `Analyze CoffeeScript sources for style violations.

Each file is tokenized and checked by the lexical rules (indentation,
class names, implicit braces) and the line rules (tabs, trailing
whitespace, line length, trailing semicolons). Directories are walked
for files with the configured extensions. Options and severities are
read from coffeelint.yaml.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format

Exits with status 1 when violations are reported.`,
		Example: `  # Lint the current directory
  coffeelint lint

  # Lint specific files and directories
  coffeelint lint src/app.coffee lib/

  # Output as JSON
  coffeelint lint --format json

  # Disable specific rules
  coffeelint lint --disable max_line_length,no_tabs

  # Lint from standard input
  cat app.coffee | coffeelint lint --stdin

  # Lint a token stream produced by the CoffeeScript compiler
  coffeelint lint --tokens app.tokens.json app.coffee

  # Re-lint whenever a file changes
  coffeelint lint --watch src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "warning", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringVar(&opts.Tokens, "tokens", "", "Lint a JSON token stream against the single source path")
	cmd.Flags().BoolVar(&opts.Stdin, "stdin", false, "Read source from standard input")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch paths and re-lint on change")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Files linted concurrently")
	cmd.Flags().StringSlice("ext", nil, "File extensions to lint when walking directories")
	cmd.Flags().Int("line-length", 0, "Maximum line length (0 disables)")
	cmd.Flags().Int("indent", 0, "Expected indentation width")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return core.SeverityNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("disable", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return ruleIDs(lint.DefaultRegistry()), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// lintFileResult holds lint results for a single file.
type lintFileResult struct {
	Path        string
	Diagnostics []lint.Diagnostic
	Err         error
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	lintCfg, err := buildLintConfig(cmdCtx, opts)
	if err != nil {
		return err
	}
	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("invalid severity %q (valid: %s)", opts.Severity, strings.Join(core.SeverityNames(), ", "))
	}

	switch {
	case opts.Stdin:
		if opts.Watch || opts.Tokens != "" {
			return fmt.Errorf("--stdin cannot be combined with --watch or --tokens")
		}
		source, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		res := lintSource(cmdCtx.Linter, stdinPath, string(source), lintCfg)
		return report(r, []lintFileResult{res}, 1, threshold)

	case opts.Tokens != "":
		if len(opts.Paths) != 1 {
			return fmt.Errorf("--tokens requires exactly one source path, got %d", len(opts.Paths))
		}
		res, err := lintTokenStream(cmdCtx.Linter, opts.Paths[0], opts.Tokens, lintCfg)
		if err != nil {
			return err
		}
		return report(r, []lintFileResult{res}, 1, threshold)
	}

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	files, err := collectFiles(paths, cmdCtx.Cfg)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("collected files", "count", len(files), "paths", paths)

	if opts.Watch {
		return runWatch(cmd.Context(), cmdCtx, paths, files, lintCfg, threshold)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matching %s found in %s", strings.Join(cmdCtx.Cfg.Extensions, ", "), strings.Join(paths, ", "))
	}

	results, err := lintFiles(cmd.Context(), cmdCtx.Linter, files, lintCfg, opts.Jobs)
	if err != nil {
		return err
	}
	return report(r, results, len(files), threshold)
}

// buildLintConfig resolves the project config and applies --disable.
func buildLintConfig(cmdCtx *CommandContext, opts *LintOptions) (lint.Config, error) {
	lintCfg, err := cmdCtx.Cfg.LintConfig(cmdCtx.Registry)
	if err != nil {
		return lint.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	for _, id := range opts.Disable {
		id = strings.TrimSpace(id)
		if _, ok := cmdCtx.Registry.Lookup(id); !ok {
			return lint.Config{}, fmt.Errorf("unknown rule %q (valid: %s)", id, strings.Join(ruleIDs(cmdCtx.Registry), ", "))
		}
		lintCfg = lintCfg.Disable(id)
	}
	return lintCfg, nil
}

// collectFiles expands directories into matching files. Files named
// explicitly are kept regardless of extension. Hidden directories and
// node_modules are skipped. The result is sorted and deduplicated.
func collectFiles(paths []string, cfg *config.Config) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if cfg.HasExtension(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

func skipDir(name string) bool {
	return name == "node_modules" || (strings.HasPrefix(name, ".") && name != ".")
}

// lintFiles lints files concurrently. Results keep the order of files.
func lintFiles(ctx context.Context, linter *lint.Linter, files []string, cfg lint.Config, jobs int) ([]lintFileResult, error) {
	results := make([]lintFileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, jobs))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = lintFile(linter, path, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// lintFile reads and lints one file. Read and tokenizer errors are
// recorded on the result.
func lintFile(linter *lint.Linter, path string, cfg lint.Config) lintFileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return lintFileResult{Path: path, Err: err}
	}
	return lintSource(linter, path, string(data), cfg)
}

func lintSource(linter *lint.Linter, path, source string, cfg lint.Config) lintFileResult {
	diags, err := linter.LintWithConfig(source, cfg)
	return lintFileResult{Path: path, Diagnostics: diags, Err: err}
}

// lintTokenStream lints path against an externally produced token stream.
func lintTokenStream(linter *lint.Linter, path, tokensPath string, cfg lint.Config) (lintFileResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return lintFileResult{}, fmt.Errorf("failed to read source: %w", err)
	}
	f, err := os.Open(tokensPath)
	if err != nil {
		return lintFileResult{}, fmt.Errorf("failed to open token stream: %w", err)
	}
	defer f.Close()

	tokens, err := lexer.DecodeJSON(f)
	if err != nil {
		return lintFileResult{}, fmt.Errorf("%s: %w", tokensPath, err)
	}
	return lintFileResult{
		Path:        path,
		Diagnostics: linter.LintTokens(string(source), tokens, cfg),
	}, nil
}

// filterBySeverity keeps diagnostics at or above threshold. Files that
// failed are always kept.
func filterBySeverity(results []lintFileResult, threshold core.Severity) []lintFileResult {
	var filtered []lintFileResult
	for _, r := range results {
		var diags []lint.Diagnostic
		for _, d := range r.Diagnostics {
			if d.Severity.AtLeast(threshold) {
				diags = append(diags, d)
			}
		}
		if len(diags) > 0 || r.Err != nil {
			filtered = append(filtered, lintFileResult{
				Path:        r.Path,
				Diagnostics: diags,
				Err:         r.Err,
			})
		}
	}
	return filtered
}

// report filters and renders results, returning ErrLintIssues when
// anything was reported.
func report(r *output.Renderer, results []lintFileResult, analyzed int, threshold core.Severity) error {
	if renderLintResults(r, filterBySeverity(results, threshold), analyzed) {
		return ErrLintIssues
	}
	return nil
}

func summarize(results []lintFileResult, analyzed int) output.LintSummary {
	summary := output.LintSummary{FilesAnalyzed: analyzed}
	for _, res := range results {
		if res.Err != nil {
			summary.FilesFailed++
		}
		if len(res.Diagnostics) > 0 {
			summary.FilesWithIssues++
		}
		summary.TotalIssues += len(res.Diagnostics)
		for _, d := range res.Diagnostics {
			switch d.Severity {
			case core.SeverityError:
				summary.Errors++
			case core.SeverityWarning:
				summary.Warnings++
			case core.SeverityInfo:
				summary.Info++
			case core.SeverityHint:
				summary.Hints++
			}
		}
	}
	return summary
}

// renderLintResults prints results and reports whether there was anything
// to report.
func renderLintResults(r *output.Renderer, results []lintFileResult, analyzed int) bool {
	summary := summarize(results, analyzed)

	if r.EffectiveMode() == output.ModeJSON {
		jsonOutput := output.LintOutput{
			Files:   []output.LintFileResult{},
			Summary: summary,
		}
		for _, res := range results {
			fileResult := output.LintFileResult{
				Path:        res.Path,
				Diagnostics: []output.LintDiagnostic{},
			}
			if res.Err != nil {
				fileResult.Error = res.Err.Error()
			}
			for _, d := range res.Diagnostics {
				fileResult.Diagnostics = append(fileResult.Diagnostics, output.LintDiagnostic{
					RuleID:   d.RuleID,
					Severity: d.Severity.String(),
					Message:  d.Message,
					Line:     d.Line + 1,
					Evidence: d.Evidence,
					Context:  d.Context,
				})
			}
			jsonOutput.Files = append(jsonOutput.Files, fileResult)
		}
		_ = r.JSON(jsonOutput)
		return len(results) > 0
	}

	if len(results) == 0 {
		r.Success(fmt.Sprintf("No lint issues found in %d files", analyzed))
		return false
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		renderLintMarkdown(r, results)
	} else {
		renderLintText(r, results)
	}

	summaryParts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d hints", summary.Hints))
	}
	line := fmt.Sprintf("Summary: %s in %d of %d files", strings.Join(summaryParts, ", "), summary.FilesWithIssues, summary.FilesAnalyzed)
	if summary.FilesFailed > 0 {
		line += fmt.Sprintf(", %d failed", summary.FilesFailed)
	}
	r.Println(line)

	return true
}

func renderLintText(r *output.Renderer, results []lintFileResult) {
	styles := r.Styles()
	for _, res := range results {
		r.Println(styles.FilePath.Render(res.Path))
		if res.Err != nil {
			r.Printf("  %s  %s\n", styles.Error.Render("failed "), res.Err)
		}
		for _, d := range res.Diagnostics {
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-5d", d.Line+1)),
				severityStyle(r, d.Severity),
				styles.Bold.Render(d.RuleID),
				describe(d),
			)
		}
		r.Println("")
	}
}

func renderLintMarkdown(r *output.Renderer, results []lintFileResult) {
	r.Println(output.FormatHeader(1, "Lint Results"))
	r.Println("")
	for _, res := range results {
		r.Println(output.FormatHeader(2, res.Path))
		r.Println("")
		if res.Err != nil {
			r.Printf("- **failed:** %s\n", res.Err)
		}
		for _, d := range res.Diagnostics {
			r.Printf("- **L%d** `%s` %s: %s\n", d.Line+1, d.Severity, d.RuleID, describe(d))
		}
		r.Println("")
	}
}

// describe joins a diagnostic's message with its context.
func describe(d lint.Diagnostic) string {
	if d.Context == "" {
		return d.Message
	}
	return d.Message + " (" + d.Context + ")"
}

func severityStyle(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render("error  ")
	case core.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case core.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case core.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}

func ruleIDs(reg *lint.Registry) []string {
	var ids []string
	for _, rule := range reg.All() {
		ids = append(ids, rule.ID)
	}
	return ids
}
