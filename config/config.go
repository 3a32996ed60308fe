// SPDX-License-Identifier: MIT

// Package config loads lawt settings.
//
// Sources, highest priority first:
//
//  1. Command-line flags bound with BindFlags
//  2. Environment variables (LAWT_SERVER_ADDR, LAWT_MODEL_URL, ...)
//  3. A YAML config file
//  4. Defaults
//
// All values are validated on load.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "LAWT"

// Config is the full lawt configuration.
type Config struct {
	Server Server `mapstructure:"server"`
	Model  Model  `mapstructure:"model"`
	Render Render `mapstructure:"render"`
	Log    Log    `mapstructure:"log"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"` // 0 = unbounded
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Model configures the model-inference backend.
type Model struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 = unbounded
}

// Render configures result rendering.
type Render struct {
	MaxDenominator int     `mapstructure:"max_denominator"`
	Tolerance      float64 `mapstructure:"tolerance"`
}

// Log configures the logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

// ErrInvalid marks a configuration that failed validation.
var ErrInvalid = errors.New("config: invalid value")

var defaults = map[string]any{
	"server.addr":             ":8080",
	"server.read_timeout":     10 * time.Second,
	"server.write_timeout":    time.Duration(0),
	"server.shutdown_timeout": 5 * time.Second,
	"model.enabled":           false,
	"model.url":               "",
	"model.timeout":           time.Duration(0),
	"render.max_denominator":  1000,
	"render.tolerance":        1e-9,
	"log.level":               "info",
	"log.format":              "json",
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"addr":          "server.addr",
	"model-url":     "model.url",
	"model-enabled": "model.enabled",
	"model-timeout": "model.timeout",
	"log-level":     "log.level",
	"log-format":    "log.format",
}

// BindFlags registers the overridable flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("addr", defaults["server.addr"].(string), "listen address")
	fs.String("model-url", "", "model backend base URL")
	fs.Bool("model-enabled", false, "enable the model backend")
	fs.Duration("model-timeout", 0, "per-call model timeout (0 = unbounded)")
	fs.String("log-level", defaults["log.level"].(string), "log level (debug, info, warn, error)")
	fs.String("log-format", defaults["log.format"].(string), "log format (json, console)")
}

// Load reads the config file at path (optional), the environment and the
// changed flags in fs (optional), then validates the result.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in defaults.
func Default() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		panic(fmt.Sprintf("config: defaults do not validate: %v", err))
	}

	return cfg
}

// Validate reports the first invalid value, wrapped with ErrInvalid.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Server.Addr) == "":
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	case c.Server.ReadTimeout < 0, c.Server.WriteTimeout < 0, c.Server.ShutdownTimeout < 0:
		return fmt.Errorf("%w: server timeouts must not be negative", ErrInvalid)
	case c.Model.Timeout < 0:
		return fmt.Errorf("%w: model.timeout must not be negative", ErrInvalid)
	case c.Model.Enabled && strings.TrimSpace(c.Model.URL) == "":
		return fmt.Errorf("%w: model.url is required when model.enabled is set", ErrInvalid)
	case c.Render.MaxDenominator < 1:
		return fmt.Errorf("%w: render.max_denominator must be at least 1", ErrInvalid)
	case !(c.Render.Tolerance > 0 && c.Render.Tolerance < 1):
		return fmt.Errorf("%w: render.tolerance must be in (0, 1)", ErrInvalid)
	case c.Log.Format != "json" && c.Log.Format != "console":
		return fmt.Errorf("%w: log.format must be json or console, got %q", ErrInvalid, c.Log.Format)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %s", ErrInvalid, err)
	}

	return nil
}
