package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultCommandPrefix, cfg.Discord.Prefix)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
	assert.True(t, cfg.Inline.Enabled)
	assert.False(t, cfg.Inline.ReactOnly)
	assert.Equal(t, 5, cfg.Inline.BeforeWords)
	assert.Equal(t, 2, cfg.Inline.AfterWords)
	assert.Equal(t, 128, cfg.Inline.MaxContextLen)
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "debug"

[discord]
token = "abc"
prefix = "?"

[inline]
react_only = true
context_before_words = 3
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "abc", cfg.Discord.Token)
	assert.Equal(t, "?", cfg.Discord.Prefix)
	assert.True(t, cfg.Inline.ReactOnly)
	assert.Equal(t, 3, cfg.Inline.BeforeWords)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)
	assert.Equal(t, 2, cfg.Inline.AfterWords)
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[log`), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
