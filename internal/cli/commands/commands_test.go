// Package commands tests exercise the CLI subcommands against real files.
package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslym/tinybars/internal/cli/config"
)

func TestNewCompileCommand(t *testing.T) {
	cmd := NewCompileCommand()

	assert.Equal(t, "compile <file|dir>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("watch"), "flag watch should exist")
}

func TestNewCheckCommand(t *testing.T) {
	cmd := NewCheckCommand()

	assert.Equal(t, "check <file|dir>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestNewBundleCommand(t *testing.T) {
	cmd := NewBundleCommand()

	assert.Equal(t, "bundle <entry>", cmd.Use)
	for _, flag := range []string{"out", "minify"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		buildDate string
		gitCommit string
		wantOut   []string
		notWant   []string
	}{
		{
			name:      "version only",
			version:   "0.1.0",
			buildDate: "unknown",
			gitCommit: "unknown",
			wantOut:   []string{"tinybars v0.1.0"},
			notWant:   []string{"built:", "commit:"},
		},
		{
			name:      "full build info",
			version:   "1.2.3",
			buildDate: "2026-01-02",
			gitCommit: "abc1234",
			wantOut:   []string{"tinybars v1.2.3", "built:  2026-01-02", "commit: abc1234"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version, tt.buildDate, tt.gitCommit)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			require.NoError(t, cmd.Execute())
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
			for _, notWant := range tt.notWant {
				assert.NotContains(t, buf.String(), notWant)
			}
		})
	}
}

func TestCompileCommand_WritesOutputs(t *testing.T) {
	config.ResetConfig()
	dir := t.TempDir()
	tpl := filepath.Join(dir, "card.hbs")
	require.NoError(t, os.WriteFile(tpl, []byte("Hi {{name}}"), 0o644))

	cmd := NewCompileCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{tpl})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Compiled 1 templates")

	js, err := os.ReadFile(filepath.Join(dir, "card.js"))
	require.NoError(t, err)
	assert.Contains(t, string(js), "export default function")
	assert.Contains(t, string(js), "//# sourceMappingURL=card.js.map")

	mapData, err := os.ReadFile(filepath.Join(dir, "card.js.map"))
	require.NoError(t, err)
	assert.Contains(t, string(mapData), `"version":3`)
	assert.Contains(t, string(mapData), "card.hbs")
}

func TestCompileCommand_Directory(t *testing.T) {
	config.ResetConfig()
	dir := t.TempDir()
	outDir := filepath.Join(dir, "dist")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "views", "nested"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "views", "a.hbs"), []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "views", "nested", "b.hbs"), []byte("B"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "views", "skip.txt"), []byte("not a template"), 0o644))

	// out-dir is a persistent flag on the root command in normal use; the
	// standalone subcommand picks it up from the loaded config instead.
	wd, werr := os.Getwd()
	require.NoError(t, werr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("TINYBARS_OUT_DIR", outDir)
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	t.Cleanup(config.ResetConfig)

	cmd := NewCompileCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{filepath.Join(dir, "views")})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Compiled 2 templates")

	assert.FileExists(t, filepath.Join(outDir, "a.js"))
	assert.FileExists(t, filepath.Join(outDir, "b.js"))
	assert.NoFileExists(t, filepath.Join(outDir, "skip.js"))
}

func TestCompileCommand_BadTemplate(t *testing.T) {
	config.ResetConfig()
	dir := t.TempDir()
	tpl := filepath.Join(dir, "bad.hbs")
	require.NoError(t, os.WriteFile(tpl, []byte("{{#if x}}never closed"), 0o644))

	cmd := NewCompileCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{tpl})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.hbs")
	assert.Contains(t, err.Error(), "unclosed block")
}

func TestCompileCommand_NoMatches(t *testing.T) {
	config.ResetConfig()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	cmd := NewCompileCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no template files matched")
}

func TestCheckCommand(t *testing.T) {
	config.ResetConfig()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.hbs"), []byte("Hi {{name}}"), 0o644))

	cmd := NewCheckCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Checked 1 templates")

	// check writes nothing
	assert.NoFileExists(t, filepath.Join(dir, "good.js"))
}

func TestCheckCommand_ReportsFailures(t *testing.T) {
	config.ResetConfig()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.hbs"), []byte("ok"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.hbs"), []byte("{{@key}}"), 0o644))

	cmd := NewCheckCommand()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 templates failed")
	assert.Contains(t, errOut.String(), "bad.hbs")
	assert.Contains(t, errOut.String(), "outside of an each")
}

func TestBundleCommand_WritesFile(t *testing.T) {
	config.ResetConfig()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greet.hbs"), []byte("Hi {{name}}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entry.js"),
		[]byte("import greet from \"./greet.hbs\";\nconsole.log(greet({}));\n"), 0o644))

	outFile := filepath.Join(dir, "dist", "app.js")
	cmd := NewBundleCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{filepath.Join(dir, "entry.js"), "--out", outFile})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Wrote "+outFile)

	bundle, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(bundle), "@eslym/tinybars/runtime")
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		path   string
		outDir string
		want   string
	}{
		{"views/card.hbs", "", filepath.Join("views", "card.js")},
		{"views/card.hbs", "dist", filepath.Join("dist", "card.js")},
		{"card.hbs", "", "card.js"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, outputPath(tt.path, tt.outDir), "outputPath(%q, %q)", tt.path, tt.outDir)
	}
}

func TestMatchesExtension(t *testing.T) {
	exts := []string{".hbs", ".tpl"}
	assert.True(t, matchesExtension("a/b.hbs", exts))
	assert.True(t, matchesExtension("a/B.HBS", exts))
	assert.True(t, matchesExtension("x.tpl", exts))
	assert.False(t, matchesExtension("x.js", exts))
	assert.False(t, matchesExtension("noext", exts))
}

func TestGetConfig_Fallback(t *testing.T) {
	config.ResetConfig()
	cfg := getConfig()
	assert.Equal(t, "ctx", cfg.ScopeVar)
	assert.Equal(t, "esm", cfg.Format)
	assert.Equal(t, []string{".hbs"}, cfg.Extensions)
}
