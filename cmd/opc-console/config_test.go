package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, defaultConfig(), cfg)
}

func TestParseConfigFile(t *testing.T) {
	path := writeConfig(t, `
mode: listen
address: ":4100"
log_level: debug
capture: out.olog
metrics_address: ":9100"
command:
  timeout: 1500ms
  retry_on_nak: true
  persist_delay: 5s
  feedback: false
decoder:
  accept_zero_checksum: true
  parse_prefix: true
  location: Europe/Amsterdam
`)

	cfg, err := parseConfig([]string{"-config", path})
	require.NoError(t, err)

	assert.Equal(t, ModeListen, cfg.Mode)
	assert.Equal(t, ":4100", cfg.Address)
	assert.Equal(t, "scanner", cfg.DeviceID, "unset keys keep defaults")
	assert.Equal(t, "out.olog", cfg.Capture)
	assert.Equal(t, 1500*time.Millisecond, cfg.Command.Timeout)
	assert.True(t, cfg.Command.RetryOnNak)
	assert.Equal(t, 5*time.Second, cfg.Command.PersistDelay)
	assert.False(t, cfg.Command.Feedback)
	assert.True(t, cfg.Decoder.AcceptZeroChecksum)
	assert.True(t, cfg.Decoder.ParsePrefix)

	loc, err := cfg.location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Amsterdam", loc.String())
}

func TestParseConfigFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
mode: listen
address: ":4100"
command:
  feedback: false
`)

	cfg, err := parseConfig([]string{"-config", path, "-mode", "dial", "-addr", "bridge:4001", "-feedback"})
	require.NoError(t, err)

	assert.Equal(t, ModeDial, cfg.Mode)
	assert.Equal(t, "bridge:4001", cfg.Address)
	assert.True(t, cfg.Command.Feedback)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad mode", []string{"-mode", "serial"}},
		{"bad level", []string{"-log-level", "loud"}},
		{"bad zone", []string{"-tz", "Mars/Olympus"}},
		{"empty device", []string{"-device", ""}},
		{"missing file", []string{"-config", "/nonexistent/console.yaml"}},
		{"unknown flag", []string{"-baud", "9600"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestParseConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "mode: [dial\n")

	_, err := parseConfig([]string{"-config", path})
	assert.Error(t, err)
}
