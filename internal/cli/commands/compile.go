package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eslym/tinybars/internal/cli/config"
	"github.com/eslym/tinybars/pkg/compiler"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "compile <file|dir>...",
		Short: "Compile templates to JavaScript modules",
		Long: `Compile each template to a .js module plus a .js.map source map,
written next to the input or under --out-dir.`,
		Example: `  # Compile a single template
  tinybars compile views/card.hbs

  # Compile a directory to dist/, as CommonJS
  tinybars compile views/ --out-dir dist --format cjs

  # Recompile on change
  tinybars compile views/ --watch`,
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

			if err := compileAll(cmd, cfg, files); err != nil {
				if !watch {
					return err
				}
				// In watch mode a failing template is reported, not fatal.
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}

			if watch {
				return watchTemplates(cmd, cfg, args)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Compiled %d templates\n", len(files))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Recompile when template files change")

	return cmd
}

// compileAll compiles files in parallel.
func compileAll(cmd *cobra.Command, cfg *config.Config, files []string) error {
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())

	for _, path := range files {
		path := path
		g.Go(func() error {
			return compileFile(cmd, cfg, path)
		})
	}

	return g.Wait()
}

// compileFile compiles one template and writes the .js and .js.map outputs.
func compileFile(cmd *cobra.Command, cfg *config.Config, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	opts := cfg.CompilerOptions()
	opts.SourceName = filepath.Base(path)

	res, err := compiler.Compile(string(source), opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	outPath := outputPath(path, cfg.OutDir)
	mapPath := outPath + ".map"

	mapJSON, err := res.SourceMap.JSON()
	if err != nil {
		return err
	}
	code := res.Code + "//# sourceMappingURL=" + filepath.Base(mapPath) + "\n"

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}
	if err := os.WriteFile(outPath, []byte(code), 0644); err != nil {
		return err
	}
	if err := os.WriteFile(mapPath, mapJSON, 0644); err != nil {
		return err
	}

	if cfg.Verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s -> %s\n", path, outPath)
	}
	return nil
}

// watchTemplates recompiles templates as they change, until interrupted.
func watchTemplates(cmd *cobra.Command, cfg *config.Config, roots []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return err
		}
		if info.IsDir() {
			err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return watcher.Add(path)
				}
				return nil
			})
		} else {
			err = watcher.Add(root)
		}
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for changes (ctrl-c to stop)")

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !matchesExtension(event.Name, cfg.Extensions) {
				continue
			}
			if err := compileFile(cmd, cfg, event.Name); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Recompiled %s\n", event.Name)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Watch error: %v\n", werr)
		}
	}
}
