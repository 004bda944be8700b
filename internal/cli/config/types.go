package config

// Config is the resolved CLI configuration.
type Config struct {
	ScopeVar      string   `koanf:"scope_var"`
	DataVar       string   `koanf:"data_var"`
	Format        string   `koanf:"format"`
	StripComments bool     `koanf:"strip_comments"`
	Extensions    []string `koanf:"extensions"`
	OutDir        string   `koanf:"out_dir"`
	Verbose       bool     `koanf:"verbose"`
}
