package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TOKEN_KEY", "secret")
	t.Setenv("ENGINEERS", "jdoe:$2a$10$x, asmith:$2a$10$y")
	t.Setenv("RATE_BURST", "10")

	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":443", c.Addr)
	assert.Equal(t, "secret", c.TokenKey)
	assert.Equal(t, []string{"jdoe:$2a$10$x", "asmith:$2a$10$y"}, c.Engineers)
	assert.Equal(t, 10, c.RateBurst)
	assert.Equal(t, 1.0, c.RateLimit)
	assert.False(t, c.AuthDisabled)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TOKEN_KEY=from-dotenv\nREFDATA_DIR=/srv/ref\n"), 0o600))
	t.Setenv("TOKEN_KEY", "")
	os.Unsetenv("TOKEN_KEY")
	t.Setenv("REFDATA_DIR", "")
	os.Unsetenv("REFDATA_DIR")

	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", c.TokenKey)
	assert.Equal(t, "/srv/ref", c.RefdataDir)
}

func TestLoadRequiresTokenKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TOKEN_KEY", "")

	_, err := Load(nil)
	assert.ErrorIs(t, err, ErrNoTokenKey)

	t.Setenv("AUTH_DISABLED", "true")
	c, err := Load(nil)
	require.NoError(t, err)
	assert.True(t, c.AuthDisabled)
}

func TestLoadConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("TOKEN_KEY", "secret")
	file := filepath.Join(dir, "plantroom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("addr: \":8443\"\nengineers:\n  - \"jdoe:hash\"\nrate_limit: 5\n"), 0o600))

	fs := Flags()
	require.NoError(t, fs.Parse([]string{"--config", file, "--log-level", "debug"}))
	c, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, ":8443", c.Addr)
	assert.Equal(t, []string{"jdoe:hash"}, c.Engineers)
	assert.Equal(t, 5.0, c.RateLimit)
	assert.Equal(t, "debug", c.LogLevel)

	fs = Flags()
	require.NoError(t, fs.Parse([]string{"--config", file, "--addr", ":9000"}))
	c, err = Load(fs)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Addr)
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	require.NoError(t, SetupLogging("warn"))
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.Error(t, SetupLogging("loud"))
}
