package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, Default().ControlRateHz, cfg.ControlRateHz)
}

func TestLoadParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
control_rate_hz = 500
audio_rate_hz = 44100

[[transport]]
name = "launchpad"
host = "127.0.0.1"
port = 9000

[[route]]
id = 0
type = "launchpad"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.EqualValues(t, 500, cfg.ControlRateHz)
	require.Len(t, cfg.Transports, 1)
	require.Equal(t, "launchpad", cfg.Transports[0].Name)
	require.Len(t, cfg.Routes, 1)
}
