// Package cli provides the command-line interface for tinybars.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eslym/tinybars/internal/cli/commands"
	"github.com/eslym/tinybars/internal/cli/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tinybars",
		Short: "tinybars - compile templates to JavaScript",
		Long: `tinybars compiles a small handlebars-subset template language into plain
JavaScript functions, with source maps back to the template.

Templates support {{expr}} interpolation, {{{raw}}} output, and the
#if, #unless, #each and #with block helpers.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./tinybars.yaml)")
	rootCmd.PersistentFlags().String("scope-var", "", "Name of the generated function's scope parameter")
	rootCmd.PersistentFlags().String("data-var", "", "Name of the generated function's data parameter")
	rootCmd.PersistentFlags().StringP("format", "f", "", "Output module format (esm|cjs)")
	rootCmd.PersistentFlags().Bool("strip-comments", false, "Drop template comments from the output")
	rootCmd.PersistentFlags().StringSlice("extensions", nil, "Template file extensions (default: .hbs)")
	rootCmd.PersistentFlags().StringP("out-dir", "o", "", "Output directory for compiled files")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	// Register completion for format flag
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"esm", "cjs"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewCompileCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewBundleCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
