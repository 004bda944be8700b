// Package commands implements the tinybars CLI subcommands.
package commands

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/eslym/tinybars/internal/cli/config"
	"github.com/eslym/tinybars/pkg/bundler"
	"github.com/eslym/tinybars/pkg/compiler"
)

// getConfig returns the current configuration, falling back to defaults
// when LoadConfig has not run (e.g. in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		ScopeVar:   compiler.DefaultScopeVar,
		DataVar:    compiler.DefaultDataVar,
		Format:     config.DefaultFormat,
		Extensions: bundler.DefaultExtensions,
	}
}

// collectTemplates expands file and directory arguments into template paths.
// Directory arguments are walked recursively and filtered by extension;
// explicit file arguments are taken as-is.
func collectTemplates(args []string, extensions []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && matchesExtension(path, extensions) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func matchesExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// outputPath maps a template path to its .js output location.
func outputPath(path, outDir string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".js"
	if outDir == "" {
		return filepath.Join(filepath.Dir(path), name)
	}
	return filepath.Join(outDir, name)
}
