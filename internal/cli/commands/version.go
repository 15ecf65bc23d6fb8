package commands

import (
	"fmt"

	"github.com/leapstack-labs/coffeelint/pkg/lint"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display coffeelint version and the version of the built-in rule set.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "coffeelint v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rules v%s (%d built-in)\n", lint.RulesVersion, lint.DefaultRegistry().Count())
		},
	}
}
