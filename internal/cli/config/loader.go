package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/eslym/tinybars/pkg/bundler"
	"github.com/eslym/tinybars/pkg/compiler"
)

// DefaultFormat is the output module format used when none is configured.
const DefaultFormat = string(compiler.FormatESM)

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// findConfigFile finds the config file to use.
// Priority: explicit path > tinybars.yaml > tinybars.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("tinybars.yaml"); err == nil {
		return "tinybars.yaml"
	}
	if _, err := os.Stat("tinybars.yml"); err == nil {
		return "tinybars.yml"
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"scope_var":      compiler.DefaultScopeVar,
		"data_var":       compiler.DefaultDataVar,
		"format":         DefaultFormat,
		"strip_comments": false,
		"extensions":     bundler.DefaultExtensions,
		"out_dir":        "",
		"verbose":        false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (TINYBARS_ prefix)
	// Transform: TINYBARS_SCOPE_VAR -> scope_var
	if err := k.Load(env.Provider("TINYBARS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TINYBARS_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			name := strings.ReplaceAll(f.Name, "-", "_")
			return name, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	switch compiler.Format(cfg.Format) {
	case compiler.FormatESM, compiler.FormatCJS:
	default:
		return nil, fmt.Errorf("unsupported output format %q (expected esm or cjs)", cfg.Format)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// GetConfigFileUsed returns the path of the config file that was loaded.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// Returns nil if LoadConfig has not been called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// CompilerOptions converts the CLI configuration into compiler options.
func (c *Config) CompilerOptions() compiler.Options {
	return compiler.Options{
		ScopeVar:      c.ScopeVar,
		DataVar:       c.DataVar,
		StripComments: c.StripComments,
		Format:        compiler.Format(c.Format),
	}
}
