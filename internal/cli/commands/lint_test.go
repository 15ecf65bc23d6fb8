package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/coffeelint/internal/cli/config"
	"github.com/leapstack-labs/coffeelint/internal/cli/output"
	"github.com/leapstack-labs/coffeelint/internal/cli/testutil"
	testlog "github.com/leapstack-labs/coffeelint/internal/testutil"
	"github.com/leapstack-labs/coffeelint/pkg/core"
	"github.com/leapstack-labs/coffeelint/pkg/lexer"
	"github.com/leapstack-labs/coffeelint/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestContext builds a CommandContext around cfg and a captured renderer.
func newTestContext(cfg *config.Config, tr *testutil.TestRenderer) *CommandContext {
	if cfg == nil {
		cfg = &config.Config{ProjectRoot: "."}
	}
	cfg.ApplyDefaults()
	registry := lint.DefaultRegistry()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   slog.New(slog.DiscardHandler),
		Registry: registry,
		Linter:   lint.NewLinter(registry, lexer.New()),
		Renderer: tr.Renderer,
	}
}

func TestNewLintCommand(t *testing.T) {
	cmd := NewLintCommand()

	assert.Equal(t, "lint [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"format", "disable", "severity", "tokens", "stdin", "watch", "jobs", "ext", "line-length", "indent"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "warning", cmd.Flags().Lookup("severity").DefValue)
}

func TestBuildLintConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		opts    *LintOptions
		wantErr string
		check   func(t *testing.T, cfg lint.Config)
	}{
		{
			name: "defaults",
			opts: &LintOptions{},
			check: func(t *testing.T, cfg lint.Config) {
				assert.Equal(t, 80, cfg.LineLength)
				assert.Equal(t, 2, cfg.Indent)
				assert.Empty(t, cfg.DisabledRules())
			},
		},
		{
			name: "disable rules",
			opts: &LintOptions{Disable: []string{lint.RuleNoTabs, " " + lint.RuleMaxLineLength}},
			check: func(t *testing.T, cfg lint.Config) {
				assert.True(t, cfg.IsDisabled(lint.RuleNoTabs))
				assert.True(t, cfg.IsDisabled(lint.RuleMaxLineLength))
				assert.False(t, cfg.IsDisabled(lint.RuleIndentation))
			},
		},
		{
			name:    "unknown disabled rule",
			opts:    &LintOptions{Disable: []string{"no_such_rule"}},
			wantErr: `unknown rule "no_such_rule"`,
		},
		{
			name: "project options and severities",
			cfg: &config.Config{ProjectConfig: config.ProjectConfig{
				Options:  map[string]any{lint.OptLineLength: 120},
				Severity: map[string]config.Level{
					lint.RuleIndentation:      {Severity: core.SeverityHint},
					lint.RuleCamelCaseClasses: {Off: true},
				},
			}},
			opts: &LintOptions{},
			check: func(t *testing.T, cfg lint.Config) {
				assert.Equal(t, 120, cfg.LineLength)
				assert.Equal(t, core.SeverityHint, cfg.GetSeverity(lint.RuleIndentation, core.SeverityError))
				assert.True(t, cfg.IsDisabled(lint.RuleCamelCaseClasses))
			},
		},
		{
			name: "invalid option",
			cfg: &config.Config{ProjectConfig: config.ProjectConfig{
				Options: map[string]any{lint.OptIndent: "wide"},
			}},
			opts:    &LintOptions{},
			wantErr: "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmdCtx := newTestContext(tt.cfg, testutil.NewTestRendererText())
			cfg, err := buildLintConfig(cmdCtx, tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestCollectFiles(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", ".cache"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", ".cache", "old.coffee"), []byte("x = 1\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "pkg", "lib.coffee"), []byte("x = 1\n"), 0644))

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	t.Run("walks directories", func(t *testing.T) {
		files, err := collectFiles([]string{dir}, cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "src", "clean.coffee"),
			filepath.Join(dir, "src", "dirty.coffee"),
		}, files)
	})

	t.Run("explicit files keep any extension", func(t *testing.T) {
		notes := filepath.Join(dir, "src", "vendor", "notes.txt")
		files, err := collectFiles([]string{notes}, cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{notes}, files)
	})

	t.Run("deduplicates", func(t *testing.T) {
		dirty := filepath.Join(dir, "src", "dirty.coffee")
		files, err := collectFiles([]string{dirty, filepath.Join(dir, "src")}, cfg)
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("custom extensions", func(t *testing.T) {
		txt := &config.Config{ProjectConfig: config.ProjectConfig{Extensions: []string{".txt"}}}
		files, err := collectFiles([]string{dir}, txt)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "src", "vendor", "notes.txt")}, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := collectFiles([]string{filepath.Join(dir, "missing")}, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot access")
	})
}

func TestLintFiles(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	linter := lint.NewLinter(lint.DefaultRegistry(), lexer.New())
	files := []string{
		filepath.Join(dir, "src", "clean.coffee"),
		filepath.Join(dir, "src", "dirty.coffee"),
		filepath.Join(dir, "src", "gone.coffee"),
	}

	results, err := lintFiles(t.Context(), linter, files, lint.DefaultConfig(), 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, files[0], results[0].Path)
	assert.Empty(t, results[0].Diagnostics)
	assert.NoError(t, results[0].Err)

	var rules []string
	for _, d := range results[1].Diagnostics {
		rules = append(rules, d.RuleID)
	}
	assert.Equal(t, []string{
		lint.RuleCamelCaseClasses,
		lint.RuleIndentation,
		lint.RuleNoTrailingWhitespace,
		lint.RuleNoTrailingSemicolons,
	}, rules)

	assert.Error(t, results[2].Err)
}

func TestLintSourceSyntaxError(t *testing.T) {
	linter := lint.NewLinter(lint.DefaultRegistry(), lexer.New())
	res := lintSource(linter, stdinPath, "x = \"#{y\"\n", lint.DefaultConfig())

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "tokenize")
	assert.Empty(t, res.Diagnostics)
}

func TestLintTokenStream(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "app.coffee")
	require.NoError(t, os.WriteFile(source, []byte(testutil.DirtySource), 0644))

	tokens, err := lexer.Tokenize(testutil.DirtySource)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, lexer.EncodeJSON(&buf, tokens))
	tokensPath := filepath.Join(dir, "app.tokens.json")
	require.NoError(t, os.WriteFile(tokensPath, buf.Bytes(), 0644))

	linter := lint.NewLinter(lint.DefaultRegistry(), lexer.New())
	want, err := linter.LintWithConfig(testutil.DirtySource, lint.DefaultConfig())
	require.NoError(t, err)

	res, err := lintTokenStream(linter, source, tokensPath, lint.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, want, res.Diagnostics)

	t.Run("malformed stream", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"not": "tokens"}`), 0644))
		_, err := lintTokenStream(linter, source, bad, lint.DefaultConfig())
		require.Error(t, err)
		assert.Contains(t, err.Error(), bad)
	})
}

func sampleResults() []lintFileResult {
	return []lintFileResult{
		{
			Path: "a.coffee",
			Diagnostics: []lint.Diagnostic{
				{RuleID: lint.RuleIndentation, Message: "Line contains inconsistent indentation", Line: 2, Context: "Expected 2 spaces and got 5", Severity: core.SeverityError},
				{RuleID: lint.RuleNoTrailingWhitespace, Message: "Line ends with trailing whitespace", Line: 3, Severity: core.SeverityHint},
			},
		},
		{Path: "b.coffee"},
		{Path: "c.coffee", Err: os.ErrNotExist},
	}
}

func TestFilterBySeverity(t *testing.T) {
	tests := []struct {
		name      string
		threshold core.Severity
		wantPaths []string
		wantDiags int
	}{
		{"error keeps errors and failures", core.SeverityError, []string{"a.coffee", "c.coffee"}, 1},
		{"warning drops hints", core.SeverityWarning, []string{"a.coffee", "c.coffee"}, 1},
		{"hint keeps everything", core.SeverityHint, []string{"a.coffee", "c.coffee"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := filterBySeverity(sampleResults(), tt.threshold)
			var paths []string
			diags := 0
			for _, r := range filtered {
				paths = append(paths, r.Path)
				diags += len(r.Diagnostics)
			}
			assert.Equal(t, tt.wantPaths, paths)
			assert.Equal(t, tt.wantDiags, diags)
		})
	}

	t.Run("only hints below threshold", func(t *testing.T) {
		results := []lintFileResult{sampleResults()[0]}
		results[0].Diagnostics = results[0].Diagnostics[1:]
		assert.Empty(t, filterBySeverity(results, core.SeverityError))
	})
}

func TestSummarize(t *testing.T) {
	summary := summarize(sampleResults(), 5)

	assert.Equal(t, output.LintSummary{
		FilesAnalyzed:   5,
		FilesWithIssues: 1,
		FilesFailed:     1,
		TotalIssues:     2,
		Errors:          1,
		Hints:           1,
	}, summary)
}

func TestRenderLintResults(t *testing.T) {
	t.Run("no issues", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		reported := renderLintResults(tr.Renderer, nil, 3)

		assert.False(t, reported)
		assert.Contains(t, tr.Output(), "No lint issues found in 3 files")
	})

	t.Run("text", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		reported := renderLintResults(tr.Renderer, sampleResults(), 3)

		assert.True(t, reported)
		out := tr.Output()
		assert.Contains(t, out, "a.coffee")
		assert.Contains(t, out, lint.RuleIndentation)
		assert.Contains(t, out, "(Expected 2 spaces and got 5)")
		assert.Contains(t, out, "failed")
		assert.Contains(t, out, "Summary: 2 issues, 1 errors, 1 hints in 1 of 3 files, 1 failed")
	})

	t.Run("markdown", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		renderLintResults(tr.Renderer, sampleResults(), 3)

		out := tr.Output()
		testutil.AssertNoANSI(t, out)
		testutil.AssertValidMarkdown(t, out)
		assert.Contains(t, out, "# Lint Results")
		assert.Contains(t, out, "## a.coffee")
		assert.Contains(t, out, "- **L3** `error` indentation: Line contains inconsistent indentation (Expected 2 spaces and got 5)")
		assert.Contains(t, out, "- **L4** `hint` no_trailing_whitespace")
	})

	t.Run("json", func(t *testing.T) {
		tr := testutil.NewTestRendererJSON()
		reported := renderLintResults(tr.Renderer, sampleResults(), 3)
		assert.True(t, reported)

		var got output.LintOutput
		require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
		require.Len(t, got.Files, 3)
		assert.Equal(t, 2, got.Summary.TotalIssues)

		first := got.Files[0].Diagnostics[0]
		assert.Equal(t, lint.RuleIndentation, first.RuleID)
		assert.Equal(t, "error", first.Severity)
		assert.Equal(t, 3, first.Line)
		assert.Equal(t, "Expected 2 spaces and got 5", first.Context)

		assert.Empty(t, got.Files[1].Diagnostics)
		assert.NotEmpty(t, got.Files[2].Error)
	})

	t.Run("json without issues is an empty list", func(t *testing.T) {
		tr := testutil.NewTestRendererJSON()
		assert.False(t, renderLintResults(tr.Renderer, nil, 1))
		assert.Contains(t, tr.Output(), `"files": []`)
	})
}

func TestLintCommandStdin(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		args     []string
		wantErr  error
		contains string
	}{
		{
			name:     "clean source",
			source:   testutil.CleanSource,
			args:     []string{"--stdin", "--format", "text"},
			contains: "No lint issues found in 1 files",
		},
		{
			name:     "dirty source",
			source:   testutil.DirtySource,
			args:     []string{"--stdin", "--format", "markdown"},
			wantErr:  ErrLintIssues,
			contains: "## <stdin>",
		},
		{
			name:     "disabled rules",
			source:   "x = 1;\n",
			args:     []string{"--stdin", "--format", "text", "--disable", lint.RuleNoTrailingSemicolons},
			contains: "No lint issues found",
		},
		{
			name:     "severity threshold hides nothing at error",
			source:   "x = 1;\n",
			args:     []string{"--stdin", "--format", "json", "--severity", "error"},
			wantErr:  ErrLintIssues,
			contains: `"rule": "no_trailing_semicolons"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewLintCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetIn(strings.NewReader(tt.source))
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestLintCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"invalid severity", []string{"--stdin", "--severity", "fatal"}, `invalid severity "fatal"`},
		{"stdin with watch", []string{"--stdin", "--watch"}, "--stdin cannot be combined"},
		{"tokens without source", []string{"--tokens", "x.json"}, "--tokens requires exactly one source path"},
		{"unknown rule", []string{"--stdin", "--disable", "bogus"}, `unknown rule "bogus"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewLintCommand()
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetIn(strings.NewReader(""))
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLintCommandNoFiles(t *testing.T) {
	dir := t.TempDir()

	cmd := NewLintCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files matching .coffee")
}

func TestWatchDirs(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git", "objects"), 0755))

	dirs := watchDirs([]string{dir, filepath.Join(dir, "src", "dirty.coffee"), filepath.Join(dir, "missing")})

	assert.Equal(t, []string{
		dir,
		filepath.Join(dir, "src"),
		filepath.Join(dir, "src", "vendor"),
	}, dirs)
}

func TestRunWatch(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "a.coffee")
	require.NoError(t, os.WriteFile(watched, []byte("x = 1\n"), 0644))

	// The watch loop writes from its own goroutine, so capture output in a
	// locked buffer that can be polled while it runs.
	buf := &testlog.LogBuffer{}
	cmdCtx := newTestContext(nil, &testutil.TestRenderer{
		Renderer: output.NewRendererWithTTY(buf, nil, false, output.ModeMarkdown),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, cmdCtx, []string{dir}, []string{watched}, lint.DefaultConfig(), core.SeverityWarning)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "Watching for changes")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, buf.String(), "No lint issues found in 1 files")

	t.Run("changed file is re-linted", func(t *testing.T) {
		require.NoError(t, os.WriteFile(watched, []byte("x = 1   \n"), 0644))
		require.Eventually(t, func() bool {
			out := buf.String()
			return strings.Contains(out, "1 changed") && strings.Contains(out, lint.RuleNoTrailingWhitespace)
		}, 5*time.Second, 20*time.Millisecond)
	})

	t.Run("new subdirectory is watched", func(t *testing.T) {
		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.Mkdir(sub, 0755))
		bad := filepath.Join(sub, "b.coffee")
		// Keep rewriting until the watcher has registered sub/.
		require.Eventually(t, func() bool {
			if err := os.WriteFile(bad, []byte("class foo\n"), 0644); err != nil {
				return false
			}
			return strings.Contains(buf.String(), lint.RuleCamelCaseClasses)
		}, 5*time.Second, 300*time.Millisecond)
	})

	t.Run("ignored extension", func(t *testing.T) {
		time.Sleep(3 * watchDebounce)
		before := strings.Count(buf.String(), "changed")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("tab\t\n"), 0644))
		time.Sleep(3 * watchDebounce)
		assert.Equal(t, before, strings.Count(buf.String(), "changed"))
	})

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runWatch did not return after cancel")
	}
}
