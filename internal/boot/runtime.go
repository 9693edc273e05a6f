// Package boot provides runtime configuration and dependency wiring for
// the bot process.
package boot

import (
	"errors"
	"os"
	"strings"

	"github.com/ProperAttorney/avrae/internal/config"
)

// RuntimeConfig holds parsed runtime settings. Values may be overridden by
// environment variables (DISCORD_TOKEN, HTTP_ADDR, STORE_PATH).
type RuntimeConfig struct {
	DiscordToken  string
	CommandPrefix string
	ServerAddr    string
	StorePath     string
}

// ProvideRuntimeConfig builds RuntimeConfig from the given config and
// applies env overrides.
func ProvideRuntimeConfig(cfg config.Config) (*RuntimeConfig, error) {
	ret := &RuntimeConfig{
		DiscordToken:  cfg.Discord.Token,
		CommandPrefix: cfg.Discord.Prefix,
		ServerAddr:    cfg.Server.Addr,
		StorePath:     cfg.Store.Path,
	}

	if value := os.Getenv("DISCORD_TOKEN"); value != "" {
		ret.DiscordToken = value
	}
	if value := os.Getenv("HTTP_ADDR"); value != "" {
		ret.ServerAddr = value
	}
	if value := os.Getenv("STORE_PATH"); value != "" {
		ret.StorePath = value
	}

	if strings.TrimSpace(ret.DiscordToken) == "" {
		return nil, errors.New("discord token is required")
	}
	if ret.CommandPrefix == "" {
		ret.CommandPrefix = config.DefaultCommandPrefix
	}
	return ret, nil
}
