package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/sinkswitch/internal/pulse"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "HDA Intel PCH", cfg.Roles.Fallback)
	assert.Equal(t, "USB Audio DAC", cfg.Roles.Preferred)
	assert.Equal(t, pulse.DefaultCommands(), cfg.Commands)
	assert.False(t, cfg.Notify.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Notify.MinInterval.Duration())
	assert.False(t, cfg.Feedback.Enabled)
	assert.Equal(t, 80, cfg.Feedback.Volume)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[roles]
fallback = "Built-in Audio"
preferred = "Schiit Modi"

[commands]
subscribe = ["pactl", "--server", "unix:/run/pulse/native", "subscribe"]
move_stream = ["pactl", "move-sink-input"]

[notify]
enabled = true
min_interval = "10s"
expire_timeout = "2s"

[feedback]
enabled = true
sound = "~/sounds/switch.wav"
volume = 40

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Built-in Audio", cfg.Roles.Fallback)
	assert.Equal(t, "Schiit Modi", cfg.Roles.Preferred)
	assert.Equal(t, []string{"pactl", "--server", "unix:/run/pulse/native", "subscribe"}, cfg.Commands.Subscribe)
	assert.Equal(t, []string{"pactl", "move-sink-input"}, cfg.Commands.MoveStream)
	assert.True(t, cfg.Notify.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Notify.MinInterval.Duration())
	assert.Equal(t, 2*time.Second, cfg.Notify.ExpireTimeout.Duration())
	assert.True(t, cfg.Feedback.Enabled)
	assert.Equal(t, 40, cfg.Feedback.Volume)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[roles]
preferred = "Focusrite Scarlett"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Focusrite Scarlett", cfg.Roles.Preferred)
	assert.Equal(t, DefaultFallbackSink, cfg.Roles.Fallback)
	assert.Equal(t, pulse.DefaultCommands(), cfg.Commands)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty fallback", "[roles]\nfallback = \"\"\n"},
		{"same roles", "[roles]\nfallback = \"X\"\npreferred = \"X\"\n"},
		{"empty command", "[commands]\nlist_sinks = []\n"},
		{"volume out of range", "[feedback]\nvolume = 150\n"},
		{"feedback without sound", "[feedback]\nenabled = true\n"},
		{"bad log level", "[log]\nlevel = \"loud\"\n"},
		{"bad duration", "[notify]\nmin_interval = \"soon\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Roles.Preferred = "Schiit Modi"
	cfg.Notify.Enabled = true
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/sinkswitch/config.toml", ConfigPath())
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Contains(t, ConfigPath(), "sinkswitch/config.toml")
}

func TestSoundPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Feedback.Sound = "~/sounds/switch.wav"
	assert.Equal(t, filepath.Join(home, "sounds", "switch.wav"), cfg.SoundPath())

	cfg.Feedback.Sound = "/usr/share/sounds/switch.ogg"
	assert.Equal(t, "/usr/share/sounds/switch.ogg", cfg.SoundPath())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"5s", 5 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"1500", 1500 * time.Millisecond, false},
		{"0", 0, false},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Duration())
		})
	}
}
