// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath    = "config.toml"
	DefaultHTTPAddr      = ":8080"
	DefaultCommandPrefix = "!"
	DefaultStorePath     = "avrae.db"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	Discord DiscordConfig `toml:"discord"`
	Store   StoreConfig   `toml:"store"`
	Inline  InlineConfig  `toml:"inline"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DiscordConfig holds the bot token and the command prefix.
type DiscordConfig struct {
	Token  string `toml:"token"`
	Prefix string `toml:"prefix"`
}

// StoreConfig holds the SQLite database path.
type StoreConfig struct {
	Path string `toml:"path"`
}

// InlineConfig tunes inline rolling. ReactOnly makes the bot react to a
// message containing dice instead of rolling immediately; the author
// clicks the reaction to roll.
type InlineConfig struct {
	Enabled       bool `toml:"enabled"`
	ReactOnly     bool `toml:"react_only"`
	BeforeWords   int  `toml:"context_before_words"`
	AfterWords    int  `toml:"context_after_words"`
	MaxContextLen int  `toml:"max_context_len"`
}

// Load reads and parses the TOML config file at path and applies default
// values for missing fields. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Discord: DiscordConfig{
			Prefix: DefaultCommandPrefix,
		},
		Store: StoreConfig{
			Path: DefaultStorePath,
		},
		Inline: InlineConfig{
			Enabled:       true,
			BeforeWords:   5,
			AfterWords:    2,
			MaxContextLen: 128,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
