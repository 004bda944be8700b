// Package bundler integrates the template compiler with esbuild so template
// files can participate in a JavaScript bundle.
package bundler

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/eslym/tinybars/pkg/compiler"
)

// DefaultExtensions are the file extensions routed through the compiler
// when no filter is configured.
var DefaultExtensions = []string{".hbs"}

// Transform compiles source when path's extension matches one of the
// configured extensions. It reports ok=false, with no error, for files the
// filter does not select; callers pass those through untouched.
func Transform(source, path string, opts compiler.Options, extensions []string) (*compiler.Result, bool, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	ext := filepath.Ext(path)
	match := false
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			match = true
			break
		}
	}
	if !match {
		return nil, false, nil
	}

	if opts.SourceName == "" {
		opts.SourceName = filepath.Base(path)
	}
	res, err := compiler.Compile(source, opts)
	if err != nil {
		return nil, true, err
	}
	return res, true, nil
}

// Plugin returns an esbuild plugin that loads matching template files as
// compiled JavaScript with an inline source map.
func Plugin(opts compiler.Options, extensions []string) api.Plugin {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	filter := extensionFilter(extensions)

	return api.Plugin{
		Name: "tinybars",
		Setup: func(build api.PluginBuild) {
			build.OnLoad(api.OnLoadOptions{Filter: filter}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				source, err := os.ReadFile(args.Path)
				if err != nil {
					return api.OnLoadResult{}, err
				}

				o := opts
				o.Format = compiler.FormatESM // esbuild consumes ES modules
				o.SourceName = filepath.Base(args.Path)
				res, _, err := Transform(string(source), args.Path, o, extensions)
				if err != nil {
					return api.OnLoadResult{}, err
				}

				comment, err := res.SourceMap.InlineComment()
				if err != nil {
					return api.OnLoadResult{}, err
				}
				contents := res.Code + comment + "\n"
				return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJS}, nil
			})
		},
	}
}

// extensionFilter builds the esbuild OnLoad path filter for the given
// extensions.
func extensionFilter(extensions []string) string {
	alts := make([]string, len(extensions))
	for i, e := range extensions {
		alts[i] = regexp.QuoteMeta(strings.TrimPrefix(e, "."))
	}
	return `\.(` + strings.Join(alts, "|") + `)$`
}

// Bundle compiles entry and everything it imports into a single in-memory
// ESM bundle. Matching template imports go through the compiler; the
// runtime module stays external and resolves where the bundle runs.
func Bundle(entry string, opts compiler.Options, extensions []string, minify bool) (string, error) {
	buildOpts := api.BuildOptions{
		EntryPoints: []string{entry},
		Bundle:      true,
		Write:       false, // Keep in memory

		// Virtual output directory (required even with Write: false)
		Outdir: "out",

		Format:   api.FormatESModule,
		Platform: api.PlatformBrowser,

		External: []string{compiler.RuntimeModule},

		Sourcemap: api.SourceMapInline,
		LogLevel:  api.LogLevelSilent,

		Plugins: []api.Plugin{Plugin(opts, extensions)},
	}

	if minify {
		buildOpts.MinifyWhitespace = true
		buildOpts.MinifyIdentifiers = true
		buildOpts.MinifySyntax = true
	}

	result := api.Build(buildOpts)

	if len(result.Errors) > 0 {
		var errMsg string
		for _, e := range result.Errors {
			if e.Location != nil {
				errMsg += fmt.Sprintf("%s:%d:%d: %s\n", e.Location.File, e.Location.Line, e.Location.Column, e.Text)
			} else {
				errMsg += e.Text + "\n"
			}
		}
		return "", fmt.Errorf("esbuild errors:\n%s", errMsg)
	}

	for _, file := range result.OutputFiles {
		if filepath.Ext(file.Path) == ".js" {
			return string(file.Contents), nil
		}
	}

	return "", fmt.Errorf("no JavaScript output generated")
}
