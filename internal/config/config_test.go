package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/expect/internal/codec"
	"github.com/roach88/expect/internal/diff"
)

// clearEnv unsets every EXPECT_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{EnvCodec, EnvColor, EnvHistory, EnvLogLevel} {
		t.Setenv(env, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "json", cfg.Codec)
	assert.Equal(t, "auto", cfg.Color)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.History)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "codec: yaml\ncolor: never\nhistory: history.db\nlog_level: debug\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Codec)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, filepath.Join(dir, "history.db"), cfg.History)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_AbsoluteHistoryKept(t *testing.T) {
	clearEnv(t)
	abs := filepath.Join(t.TempDir(), "ledger.db")
	dir := writeConfig(t, "history: "+abs+"\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.History)
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "codec: yaml\ncolor: never\n")
	t.Setenv(EnvCodec, "cue")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "cue", cfg.Codec)
	assert.Equal(t, "never", cfg.Color, "file value kept when env is unset")
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_UnknownField(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, "codecs: yaml\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codecs")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "codec", body: "codec: toml\n", want: "invalid codec"},
		{name: "color", body: "color: sometimes\n", want: "invalid color mode"},
		{name: "log level", body: "log_level: loud\n", want: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvColor, "rainbow")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rainbow")
}

func TestConfig_Resolvers(t *testing.T) {
	cfg := &Config{Codec: "YAML", Color: "always", LogLevel: "debug"}

	c, err := cfg.CodecValue()
	require.NoError(t, err)
	assert.Equal(t, codec.YAML{}, c)

	mode, err := cfg.ColorMode()
	require.NoError(t, err)
	assert.Equal(t, diff.ColorAlways, mode)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(dir, &Config{Codec: "yaml"}))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, "codec: yaml\n", string(data))

	cfg, err := ReadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, &Config{Codec: "yaml"}, cfg)
}

func TestReadFile_Missing(t *testing.T) {
	cfg, err := ReadFile(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestReadFile_SkipsEnvAndDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvCodec, "cue")
	dir := writeConfig(t, "color: never\n")

	cfg, err := ReadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, &Config{Color: "never"}, cfg)
}
