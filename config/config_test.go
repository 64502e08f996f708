package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's real config and environment out of tests.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"SERIAL_PORT", "SERIAL_BACKOFF", "LOG_DIR", "LOG_DEBUG", "STATUS_ADDR", "MEDIA_DRY_RUN", "MEDIA_ACTION_TIMEOUT"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		os.Unsetenv(EnvPrefix + "_" + key)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, l, err := Load(nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.Serial.Port)
	assert.Equal(t, 2*time.Second, cfg.Serial.Backoff)
	assert.Equal(t, 115200, cfg.BaudRate)
	assert.Equal(t, 5*time.Second, cfg.Media.ActionTimeout)
	assert.False(t, cfg.Log.Debug)
	assert.False(t, cfg.Media.DryRun)
	assert.Empty(t, cfg.Status.Addr)
	assert.Empty(t, l.ConfigFile())
}

func TestLoadFlags(t *testing.T) {
	isolate(t)

	cfg, _, err := Load([]string{"-p", "/dev/ttyACM1", "--debug", "--dry-run", "--backoff", "500ms", "--status-addr", "127.0.0.1:8989"})
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM1", cfg.Serial.Port)
	assert.True(t, cfg.Log.Debug)
	assert.True(t, cfg.Media.DryRun)
	assert.Equal(t, 500*time.Millisecond, cfg.Serial.Backoff)
	assert.Equal(t, "127.0.0.1:8989", cfg.Status.Addr)
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("GESTURE_BRIDGE_SERIAL_PORT", "COM7")
	t.Setenv("GESTURE_BRIDGE_MEDIA_ACTION_TIMEOUT", "3s")

	cfg, _, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "COM7", cfg.Serial.Port)
	assert.Equal(t, 3*time.Second, cfg.Media.ActionTimeout)

	// Flags win over the environment.
	cfg, _, err = Load([]string{"--port", "COM9"})
	require.NoError(t, err)
	assert.Equal(t, "COM9", cfg.Serial.Port)
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
serial:
  port: tcp://localhost:9999
  backoff: 5s
log:
  debug: true
media:
  dry_run: true
`), 0644))

	cfg, l, err := Load([]string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, path, l.ConfigFile())
	assert.Equal(t, "tcp://localhost:9999", cfg.Serial.Port)
	assert.Equal(t, 5*time.Second, cfg.Serial.Backoff)
	assert.True(t, cfg.Log.Debug)
	assert.True(t, cfg.Media.DryRun)
}

func TestLoadXDGConfig(t *testing.T) {
	isolate(t)
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, AppName)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("status:\n  addr: :8989\n"), 0644))

	cfg, _, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":8989", cfg.Status.Addr)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	_, _, err := Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	_, _, err = Load([]string{"--backoff", "0s"})
	assert.ErrorContains(t, err, "serial.backoff must be positive")

	_, _, err = Load([]string{"--bogus"})
	assert.Error(t, err)

	_, _, err = Load([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestValidateConfig(t *testing.T) {
	cfg := Config{}
	cfg.Serial.Backoff = -time.Second
	cfg.Media.ActionTimeout = -time.Second
	assert.Len(t, validateConfig(&cfg), 2)

	cfg.Serial.Backoff = time.Second
	cfg.Media.ActionTimeout = 0
	assert.Empty(t, validateConfig(&cfg))
}
