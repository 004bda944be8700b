package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, buildDate, gitCommit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display tinybars version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tinybars v%s\n", version)
			if buildDate != "unknown" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", buildDate)
			}
			if gitCommit != "unknown" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", gitCommit)
			}
		},
	}
}
