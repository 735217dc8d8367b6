package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// ConfigFile, when set, is read instead of searching the default
	// locations. A missing explicit file is an error; a missing
	// default file is not.
	ConfigFile string
}

// Load builds the configuration from defaults, an optional config
// file, and HTMLWHITELIST_* environment variables, in increasing
// precedence.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setViperDefaults(v, Default())

	v.SetEnvPrefix("HTMLWHITELIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("htmlwhitelist")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/htmlwhitelist")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from an explicit file path.
func LoadFromFile(path string) (*Config, error) {
	return Load(LoadOptions{ConfigFile: path})
}

func setViperDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("rules.base", cfg.Rules.Base)
	v.SetDefault("rules.extended", cfg.Rules.Extended)
	v.SetDefault("link_rel", cfg.LinkRel)
	v.SetDefault("no_link_rel", cfg.NoLinkRel)
	v.SetDefault("markdown", cfg.Markdown)
	v.SetDefault("include", cfg.Include)
	v.SetDefault("out_dir", cfg.OutDir)
	v.SetDefault("debounce", cfg.Debounce)
}
