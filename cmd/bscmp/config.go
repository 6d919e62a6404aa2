package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the demo server configuration, read from YAML:
//
//	addr: ":8080"
//	secret: change-me
//	log_level: debug
//	log_format: json
//	metrics: true
//	session:
//	  cookie: bscmp_session
//	  secure: true
//	  encrypt: true
//	  max_age: 720h
//
// BSCMP_SECRET and BSCMP_ADDR override the file.
type Config struct {
	Addr      string        `yaml:"addr"`
	Secret    string        `yaml:"secret"`
	LogLevel  string        `yaml:"log_level"`
	LogFormat string        `yaml:"log_format"`
	Metrics   bool          `yaml:"metrics"`
	Session   SessionConfig `yaml:"session"`
}

// SessionConfig configures the session cookie.
type SessionConfig struct {
	Cookie  string        `yaml:"cookie"`
	Secure  bool          `yaml:"secure"`
	Encrypt bool          `yaml:"encrypt"`
	MaxAge  time.Duration `yaml:"max_age"`
}

func defaultConfig() *Config {
	return &Config{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
		Session: SessionConfig{
			Cookie: "bscmp_session",
			MaxAge: 30 * 24 * time.Hour,
		},
	}
}

// loadConfig reads path (if not empty) over the defaults and applies the
// environment overrides.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("BSCMP_SECRET"); v != "" {
		cfg.Secret = v
	}
	if v := os.Getenv("BSCMP_ADDR"); v != "" {
		cfg.Addr = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Secret == "" {
		return errors.New("config: secret is required (set it in the file or BSCMP_SECRET)")
	}
	if c.Session.MaxAge < 0 {
		return fmt.Errorf("config: session.max_age must not be negative, got %s", c.Session.MaxAge)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	return nil
}

// logger builds the structured logger described by the config.
func (c *Config) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("component", "bscmp")), nil
}
