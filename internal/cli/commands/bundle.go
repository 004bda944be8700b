package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eslym/tinybars/pkg/bundler"
)

// NewBundleCommand creates the bundle command.
func NewBundleCommand() *cobra.Command {
	var outFile string
	var minify bool

	cmd := &cobra.Command{
		Use:   "bundle <entry>",
		Short: "Bundle a JavaScript entry point with its template imports",
		Long: `Bundle runs esbuild over a JavaScript entry point. Imports of template
files are compiled on the fly; everything else is bundled as usual. The
runtime module stays external and resolves where the bundle runs.`,
		Example: `  # Bundle to stdout
  tinybars bundle src/main.js

  # Bundle to a file, minified
  tinybars bundle src/main.js --out dist/app.js --minify`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()

			js, err := bundler.Bundle(args[0], cfg.CompilerOptions(), cfg.Extensions, minify)
			if err != nil {
				return err
			}

			if outFile == "" {
				fmt.Fprint(cmd.OutOrStdout(), js)
				return nil
			}

			if dir := filepath.Dir(outFile); dir != "." {
				if err := os.MkdirAll(dir, 0750); err != nil {
					return err
				}
			}
			if err := os.WriteFile(outFile, []byte(js), 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&outFile, "out", "", "Write the bundle to a file instead of stdout")
	cmd.Flags().BoolVar(&minify, "minify", false, "Minify the bundle")

	return cmd
}
