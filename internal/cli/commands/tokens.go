package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/coffeelint/internal/cli/output"
	"github.com/leapstack-labs/coffeelint/pkg/lexer"
	"github.com/leapstack-labs/coffeelint/pkg/token"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	Format string // text, markdown, json, yaml
}

// tokenRecord is the YAML view of a token.
type tokenRecord struct {
	Line      int    `yaml:"line"`
	Tag       string `yaml:"tag"`
	Value     string `yaml:"value"`
	Generated bool   `yaml:"generated,omitempty"`
	NewLine   bool   `yaml:"newLine,omitempty"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}
	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a CoffeeScript file",
		Long: `Tokenize a CoffeeScript file and print the tokens the lint rules see.

Lines are 0-based. Use "-" to read from standard input.
The json format is the tuple form accepted by 'coffeelint lint --tokens'.`,
		Example: `  # Show tokens as a table
  coffeelint tokens app.coffee

  # Save a token stream and lint against it
  coffeelint tokens app.coffee --format json > app.tokens.json
  coffeelint lint --tokens app.tokens.json app.coffee`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "markdown", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runTokens(cmd *cobra.Command, path string, opts *TokensOptions) error {
	var (
		source []byte
		err    error
	)
	if path == "-" {
		source, err = io.ReadAll(cmd.InOrStdin())
	} else {
		source, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	tokens, err := lexer.Tokenize(string(source))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if strings.EqualFold(opts.Format, "yaml") {
		return writeTokensYAML(cmd.OutOrStdout(), tokens)
	}

	r := NewCommandContext(cmd, opts.Format).Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return lexer.EncodeJSON(r.Writer(), tokens)
	case output.ModeMarkdown:
		renderTokensTable(r, tokens, true)
	default:
		renderTokensTable(r, tokens, false)
	}
	return nil
}

func writeTokensYAML(w io.Writer, tokens []token.Token) error {
	records := make([]tokenRecord, 0, len(tokens))
	for _, tok := range tokens {
		records = append(records, tokenRecord{
			Line:      tok.Line,
			Tag:       tok.Type.String(),
			Value:     tok.Value,
			Generated: tok.Generated,
			NewLine:   tok.NewLine,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}

func renderTokensTable(r *output.Renderer, tokens []token.Token, markdown bool) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Line", "Tag", "Value", "Flags"})
	for _, tok := range tokens {
		t.AppendRow(table.Row{tok.Line, tok.Type.String(), fmt.Sprintf("%q", tok.Value), tokenFlags(tok)})
	}
	if markdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	r.Printf("(%d tokens)\n", len(tokens))
}

func tokenFlags(tok token.Token) string {
	var flags []string
	if tok.Generated {
		flags = append(flags, "generated")
	}
	if tok.NewLine {
		flags = append(flags, "newLine")
	}
	return strings.Join(flags, ",")
}
