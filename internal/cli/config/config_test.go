package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslym/tinybars/pkg/compiler"
)

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	chdirTemp(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "ctx", cfg.ScopeVar)
	assert.Equal(t, "data", cfg.DataVar)
	assert.Equal(t, "esm", cfg.Format)
	assert.False(t, cfg.StripComments)
	assert.Equal(t, []string{".hbs"}, cfg.Extensions)
	assert.Empty(t, cfg.OutDir)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := chdirTemp(t)

	content := "scope_var: scope\nformat: cjs\nstrip_comments: true\nextensions:\n  - .hbs\n  - .tpl\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tinybars.yaml"), []byte(content), 0o644))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "scope", cfg.ScopeVar)
	assert.Equal(t, "data", cfg.DataVar, "unset keys keep their defaults")
	assert.Equal(t, "cjs", cfg.Format)
	assert.True(t, cfg.StripComments)
	assert.Equal(t, []string{".hbs", ".tpl"}, cfg.Extensions)
	assert.Equal(t, "tinybars.yaml", GetConfigFileUsed())
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	ResetConfig()
	dir := chdirTemp(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: cjs\n"), 0o644))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "cjs", cfg.Format)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	chdirTemp(t)

	_, err := LoadConfig("does-not-exist.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist.yaml")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	ResetConfig()
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tinybars.yaml"), []byte("format: cjs\n"), 0o644))
	t.Setenv("TINYBARS_FORMAT", "esm")
	t.Setenv("TINYBARS_SCOPE_VAR", "root")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "esm", cfg.Format)
	assert.Equal(t, "root", cfg.ScopeVar)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	chdirTemp(t)

	t.Setenv("TINYBARS_FORMAT", "cjs")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "esm", "")
	flags.String("scope-var", "ctx", "")
	require.NoError(t, flags.Parse([]string{"--format=esm"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "esm", cfg.Format, "changed flag wins over env")
	assert.Equal(t, "ctx", cfg.ScopeVar, "unchanged flags do not override")
}

func TestLoadConfig_BadFormat(t *testing.T) {
	ResetConfig()
	chdirTemp(t)

	t.Setenv("TINYBARS_FORMAT", "umd")

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported output format "umd"`)
}

func TestCompilerOptions(t *testing.T) {
	cfg := &Config{
		ScopeVar:      "s",
		DataVar:       "d",
		Format:        "cjs",
		StripComments: true,
	}

	opts := cfg.CompilerOptions()
	assert.Equal(t, "s", opts.ScopeVar)
	assert.Equal(t, "d", opts.DataVar)
	assert.Equal(t, compiler.FormatCJS, opts.Format)
	assert.True(t, opts.StripComments)
}

func TestResetConfig(t *testing.T) {
	ResetConfig()
	chdirTemp(t)

	_, err := LoadConfig("", nil)
	require.NoError(t, err)
	require.NotNil(t, GetCurrentConfig())

	ResetConfig()
	assert.Nil(t, GetCurrentConfig())
	assert.Empty(t, GetConfigFileUsed())
}

// chdirTemp moves into a fresh temp dir so tinybars.yaml lookup never finds
// a stray file from the working tree.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}
