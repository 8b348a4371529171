package config

import (
	"encoding/hex"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "board_cache.db", c.CacheDSN)
	assert.Equal(t, 30*24*time.Hour, c.PostTTL)
	assert.Equal(t, 60*time.Second, c.SweepInterval)
	assert.Equal(t, 30*time.Second, c.PollInterval)
	assert.Equal(t, 5*time.Second, c.RemoteTimeout)
	assert.Equal(t, 24*time.Hour, c.TokenValidity)
	assert.Empty(t, c.AccessVerifier)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.ProbeInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"cache_dsn":     "from-json.db",
		"poll_interval": "45s",
		"log_level":     "debug",
	})
	t.Setenv("BOARD_CACHE_DSN", "from-env.db")
	t.Setenv("BOARD_LOG_LEVEL", "warn")
	os.Args = []string{"testbin", "-c", path, "-log", "error"}

	cfg := LoadConfig()

	assert.Equal(t, "from-env.db", cfg.CacheDSN)
	assert.Equal(t, 45*time.Second, cfg.PollInterval)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestAccessSecrets(t *testing.T) {
	c := Config{}
	salt, verifier, err := c.AccessSecrets()
	require.NoError(t, err)
	assert.Empty(t, salt)
	assert.Empty(t, verifier)

	c.AccessSalt = hex.EncodeToString([]byte("salt"))
	c.AccessVerifier = hex.EncodeToString([]byte("verifier"))
	salt, verifier, err = c.AccessSecrets()
	require.NoError(t, err)
	assert.Equal(t, []byte("salt"), salt)
	assert.Equal(t, []byte("verifier"), verifier)

	c.AccessVerifier = "zz"
	_, _, err = c.AccessSecrets()
	require.Error(t, err)

	c = Config{AccessVerifier: "abcd"}
	_, _, err = c.AccessSecrets()
	require.Error(t, err)
}
