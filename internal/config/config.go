// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

// Package config loads the server configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// command-line flags that were set explicitly. DATABASE_URL from the
// environment is used when no database URL is configured.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/assoplat/assoplat/internal/logging"
	"github.com/assoplat/assoplat/internal/session"
)

// DatabaseURLEnv is read when database_url is not configured.
const DatabaseURLEnv = "DATABASE_URL"

// Config is the complete server configuration.
type Config struct {
	DatabaseURL string  `koanf:"database_url"`
	HTTPAddr    string  `koanf:"http_addr"`
	MetricsAddr string  `koanf:"metrics_addr"`
	LogFormat   string  `koanf:"log_format"`
	LogLevel    string  `koanf:"log_level"`
	Session     Session `koanf:"session"`
}

// Session configures cookies and session storage.
type Session struct {
	CookieName     string        `koanf:"cookie_name"`
	CookieDomain   string        `koanf:"cookie_domain"`
	CookiePath     string        `koanf:"cookie_path"`
	CookieHTTPOnly bool          `koanf:"cookie_http_only"`
	CookieSecure   bool          `koanf:"cookie_secure"`
	Lifetime       time.Duration `koanf:"lifetime"`
	Codec          string        `koanf:"codec"`
	EnforceExpiry  bool          `koanf:"enforce_expiry"`
	SweepInterval  time.Duration `koanf:"sweep_interval"` // 0 disables the sweeper
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTPAddr:    "127.0.0.1:8080",
		MetricsAddr: "127.0.0.1:9100",
		LogFormat:   "json",
		LogLevel:    "info",
		Session: Session{
			CookieName:     "session",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			Lifetime:       session.DefaultLifetime,
			Codec:          session.CodecProto,
		},
	}
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"database-url":           "database_url",
	"http-addr":              "http_addr",
	"metrics-addr":           "metrics_addr",
	"log-format":             "log_format",
	"log-level":              "log_level",
	"session-cookie-name":    "session.cookie_name",
	"session-cookie-domain":  "session.cookie_domain",
	"session-cookie-path":    "session.cookie_path",
	"session-cookie-secure":  "session.cookie_secure",
	"session-lifetime":       "session.lifetime",
	"session-codec":          "session.codec",
	"session-enforce-expiry": "session.enforce_expiry",
	"session-sweep-interval": "session.sweep_interval",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("database-url", "", "PostgreSQL URL (default: $"+DatabaseURLEnv+")")
	fs.String("http-addr", d.HTTPAddr, "API listen address")
	fs.String("metrics-addr", d.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.String("log-format", d.LogFormat, "log format (json or text)")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	fs.String("session-cookie-name", d.Session.CookieName, "session cookie name")
	fs.String("session-cookie-domain", d.Session.CookieDomain, "session cookie domain")
	fs.String("session-cookie-path", d.Session.CookiePath, "session cookie path")
	fs.Bool("session-cookie-secure", d.Session.CookieSecure, "mark the session cookie Secure")
	fs.Duration("session-lifetime", d.Session.Lifetime, "session lifetime after the last write")
	fs.String("session-codec", d.Session.Codec, "session blob codec (proto or json)")
	fs.Bool("session-enforce-expiry", d.Session.EnforceExpiry, "treat expired sessions as missing")
	fs.Duration("session-sweep-interval", d.Session.SweepInterval, "expired session sweep interval (0 = disabled)")
}

// Load builds the configuration from defaults, the YAML file at path (if
// not empty) and the flags in fs that were set explicitly.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv(DatabaseURLEnv)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return invalid("http_addr", "is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return invalid("log_format", "must be 'json' or 'text', got %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return invalid("log_level", "unknown level %q", c.LogLevel)
	}
	if c.Session.CookieName == "" {
		return invalid("session.cookie_name", "is required")
	}
	if c.Session.Lifetime <= 0 {
		return invalid("session.lifetime", "must be positive, got %s", c.Session.Lifetime)
	}
	if c.Session.SweepInterval < 0 {
		return invalid("session.sweep_interval", "must not be negative, got %s", c.Session.SweepInterval)
	}
	if _, err := session.CodecByName(c.Session.Codec); err != nil {
		return invalid("session.codec", "must be 'proto' or 'json', got %q", c.Session.Codec)
	}
	return nil
}

func invalid(key, format string, args ...any) error {
	return oops.Code("CONFIG_INVALID").With("key", key).Errorf(key+" "+format, args...)
}

// StoreConfig returns the session store configuration.
func (s Session) StoreConfig() session.Config {
	return session.Config{
		Cookie: session.CookieConfig{
			Name:     s.CookieName,
			Domain:   s.CookieDomain,
			Path:     s.CookiePath,
			HTTPOnly: s.CookieHTTPOnly,
			Secure:   s.CookieSecure,
		},
		Lifetime:      s.Lifetime,
		EnforceExpiry: s.EnforceExpiry,
		RefreshExpiry: s.EnforceExpiry || s.SweepInterval > 0,
	}
}
