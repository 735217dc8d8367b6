// Package config provides configuration management for the
// htmlwhitelist command line tool.
package config

import (
	"time"

	"github.com/gobwas/glob"

	"github.com/njchilds90/htmlwhitelist"
)

// Default configuration values.
const (
	// DefaultInclude matches HTML files at any depth below the
	// directories handed to the clean and watch commands.
	DefaultInclude = "**.html"

	// DefaultDebounce is how long the watch command waits after the
	// last write to a file before sanitising it.
	DefaultDebounce = 200 * time.Millisecond
)

// Config is the root configuration structure for the CLI.
type Config struct {
	// Whitelist rule strings.
	Rules RulesConfig `mapstructure:"rules"`

	// LinkRel is the rel value written onto anchors that carry a
	// target attribute. NoLinkRel disables the policy entirely.
	LinkRel   string `mapstructure:"link_rel"`
	NoLinkRel bool   `mapstructure:"no_link_rel"`

	// Markdown renders input files as Markdown before sanitising.
	Markdown bool `mapstructure:"markdown"`

	// Include is the glob pattern selecting files when a directory is
	// given, matched against '/'-separated relative paths.
	Include string `mapstructure:"include"`

	// OutDir is where sanitised files are written. Empty means stdout
	// for clean; watch refuses to run without it.
	OutDir string `mapstructure:"out_dir"`

	// Debounce coalesces rapid file events in watch mode.
	Debounce time.Duration `mapstructure:"debounce"`
}

// RulesConfig holds the whitelist rule strings. Base is always
// compiled; Extended, when set, is compiled as a second pass and may
// override or add to the base rules.
type RulesConfig struct {
	Base     string `mapstructure:"base"`
	Extended string `mapstructure:"extended"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Rules:    RulesConfig{Base: htmlwhitelist.DefaultRules},
		LinkRel:  htmlwhitelist.DefaultLinkRel,
		Include:  DefaultInclude,
		Debounce: DefaultDebounce,
	}
}

// Sanitizer compiles the configured rules into a ready sanitiser.
func (c *Config) Sanitizer() *htmlwhitelist.Sanitizer {
	wl := htmlwhitelist.Compile(c.Rules.Base, c.Rules.Extended)
	if c.NoLinkRel {
		return htmlwhitelist.New(wl, htmlwhitelist.WithoutLinkRel())
	}
	return htmlwhitelist.New(wl, htmlwhitelist.WithLinkRel(c.LinkRel))
}

// IncludeMatcher compiles the include pattern. Patterns use '/' as the
// separator on every platform.
func (c *Config) IncludeMatcher() (glob.Glob, error) {
	return glob.Compile(c.Include, '/')
}
