package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = ".demver"
	// EnvPrefix prefixes environment overrides, e.g. DEMVER_VERBOSE.
	EnvPrefix = "DEMVER"
)

// Config holds the CLI settings.
type Config struct {
	Verbose bool   `mapstructure:"verbose"`
	MaxTags int    `mapstructure:"max_tags"`
	Format  string `mapstructure:"format"`
	Color   bool   `mapstructure:"color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Verbose: false,
		MaxTags: 0,
		Format:  "text",
		Color:   true,
	}
}

// Load merges defaults, the config file, environment and flags, in
// increasing priority. path overrides the lookup of .demver.yaml in dir.
// Flags whose names match a key (with '-' for '_') are bound when set.
func Load(path, dir string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("max_tags", def.MaxTags)
	v.SetDefault("format", def.Format)
	v.SetDefault("color", def.Color)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	if flags != nil {
		for _, key := range []string{"verbose", "max_tags", "format", "color"} {
			if f := flags.Lookup(flagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", f.Name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.MaxTags < 0 {
		return nil, fmt.Errorf("max_tags must not be negative, got %d", cfg.MaxTags)
	}
	return &cfg, nil
}

func flagName(key string) string {
	if key == "max_tags" {
		return "max-tags"
	}
	return key
}
