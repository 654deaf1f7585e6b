// Package config loads sigil's lint configuration from a sigilfile and
// the environment.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Cache configures the report cache.
type Cache struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Log configures logging output.
type Log struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Config is the resolved lint configuration. CLI flags override it.
type Config struct {
	// Strict promotes unknown-field findings to errors.
	Strict bool `yaml:"strict" mapstructure:"strict"`

	// Workers bounds per-document validation concurrency.
	Workers int `yaml:"workers" mapstructure:"workers"`

	// Format is the report output format: text or json.
	Format string `yaml:"format" mapstructure:"format"`

	Cache Cache `yaml:"cache" mapstructure:"cache"`
	Log   Log   `yaml:"log" mapstructure:"log"`
}

// Default returns the configuration used when no sigilfile is found.
func Default() *Config {
	return &Config{
		Workers: 4,
		Format:  "text",
		Cache:   Cache{Dir: defaultCacheDir(), TTL: 7 * 24 * time.Hour},
		Log:     Log{Level: "info"},
	}
}

// Load reads the sigilfile at path, or searches the usual locations when
// path is empty. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if path == "" {
		v.SetConfigName("sigilfile")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/sigil/")
	}
	v.SetEnvPrefix("SIGIL")
	v.AutomaticEnv()

	cfg := Default()
	if err := v.ReadInConfig(); err == nil {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "sigil-cache")
	}
	return filepath.Join(home, ".sigil", "cache")
}
