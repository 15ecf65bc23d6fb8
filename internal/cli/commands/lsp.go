package commands

import (
	"github.com/leapstack-labs/coffeelint/internal/cli/config"
	"github.com/leapstack-labs/coffeelint/internal/lsp"
	"github.com/spf13/cobra"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for IDE integration.

The server communicates over stdin/stdout using JSON-RPC. Open
CoffeeScript documents are linted on open, change and save. The
coffeelint.yaml of the client's workspace (rootUri) is loaded on
initialization and reloaded whenever it is saved.`,
		Example: `  # Start LSP server (usually called by an IDE)
  coffeelint lsp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command) error {
	logger := config.GetLogger(cmd.Context())
	server := lsp.NewServerWithLogger(cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	return server.Run()
}
