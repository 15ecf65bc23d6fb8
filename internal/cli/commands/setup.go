package commands

import (
	"errors"
	"log/slog"

	"github.com/leapstack-labs/coffeelint/internal/cli/config"
	"github.com/leapstack-labs/coffeelint/internal/cli/output"
	"github.com/leapstack-labs/coffeelint/pkg/lexer"
	"github.com/leapstack-labs/coffeelint/pkg/lint"
	"github.com/spf13/cobra"
)

// ErrLintIssues is returned when linting found violations or unreadable
// files. The CLI maps it to exit status 1 without printing it.
var ErrLintIssues = errors.New("lint issues found")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Registry *lint.Registry
	Linter   *lint.Linter
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's context.
// A non-empty format overrides the configured output mode.
func NewCommandContext(cmd *cobra.Command, format string) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.Output)
	if format != "" {
		mode = output.Mode(format)
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	registry := lint.DefaultRegistry()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Registry: registry,
		Linter:   lint.NewLinter(registry, lexer.New()),
		Renderer: r,
	}
}
