package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eslym/tinybars/pkg/compiler"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file|dir>...",
		Short: "Validate templates without writing output",
		Long: `Parse and compile each template, reporting syntax errors and
unsupported constructs with their source position. Nothing is written.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()

			files, err := collectTemplates(args, cfg.Extensions)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no template files matched %v", cfg.Extensions)
			}

			failed := 0
			for _, path := range files {
				source, err := os.ReadFile(path)
				if err != nil {
					return err
				}

				opts := cfg.CompilerOptions()
				opts.SourceName = filepath.Base(path)
				if _, err := compiler.Compile(string(source), opts); err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}
				if cfg.Verbose {
					fmt.Fprintf(cmd.OutOrStdout(), "  ok %s\n", path)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d templates failed", failed, len(files))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Checked %d templates\n", len(files))
			return nil
		},
	}
}
