// Package config resolves expect settings for one .expect directory.
//
// Sources, lowest to highest precedence:
//
//   - built-in defaults
//   - <module dir>/.expect/config.yaml
//   - EXPECT_CODEC, EXPECT_COLOR, EXPECT_HISTORY, EXPECT_LOG_LEVEL
//
// Options passed to expect.New override all of these.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/expect/internal/codec"
	"github.com/roach88/expect/internal/diff"
)

// FileName is the optional configuration file inside an .expect directory.
const FileName = "config.yaml"

// Environment variable names.
const (
	EnvCodec    = "EXPECT_CODEC"
	EnvColor    = "EXPECT_COLOR"
	EnvHistory  = "EXPECT_HISTORY"
	EnvLogLevel = "EXPECT_LOG_LEVEL"
)

// Default configuration values.
const (
	DefaultCodec    = "json"
	DefaultColor    = "auto"
	DefaultLogLevel = "info"
)

// Config holds resolved settings.
type Config struct {
	// Codec names the serializer for structured artifacts.
	Codec string `yaml:"codec,omitempty"`

	// Color is one of auto, always, never.
	Color string `yaml:"color,omitempty"`

	// History is the path of the sqlite outcome ledger. Empty disables it.
	// Relative paths are resolved against the .expect directory.
	History string `yaml:"history,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Load resolves the configuration for the .expect directory at dir.
// A missing config file is not an error; a malformed one is.
func Load(dir string) (*Config, error) {
	cfg, err := ReadFile(dir)
	if err != nil {
		return nil, err
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if cfg.History != "" && !filepath.IsAbs(cfg.History) {
		cfg.History = filepath.Join(dir, cfg.History)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile decodes config.yaml in dir without applying the environment or
// defaults. A missing file yields an empty Config.
func ReadFile(dir string) (*Config, error) {
	cfg := &Config{}
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// WriteFile writes cfg to config.yaml in dir. Empty fields are omitted.
func WriteFile(dir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Defaults returns the configuration used when no sources are present.
func Defaults() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// decode parses YAML with strict field validation so typos such as
// "codecs:" are reported instead of silently ignored.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	for env, field := range map[string]*string{
		EnvCodec:    &cfg.Codec,
		EnvColor:    &cfg.Color,
		EnvHistory:  &cfg.History,
		EnvLogLevel: &cfg.LogLevel,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*field = v
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Codec == "" {
		cfg.Codec = DefaultCodec
	}
	if cfg.Color == "" {
		cfg.Color = DefaultColor
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// Validate checks enum-valued fields.
func Validate(cfg *Config) error {
	if _, err := codec.Lookup(cfg.Codec); err != nil {
		return fmt.Errorf("invalid codec: %w", err)
	}
	if _, err := diff.ParseColorMode(cfg.Color); err != nil {
		return err
	}
	if _, err := cfg.Level(); err != nil {
		return err
	}
	return nil
}

// CodecValue resolves the configured codec.
func (c *Config) CodecValue() (codec.Codec, error) {
	return codec.Lookup(c.Codec)
}

// ColorMode resolves the configured color mode.
func (c *Config) ColorMode() (diff.ColorMode, error) {
	return diff.ParseColorMode(c.Color)
}

// Level resolves the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
