// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Config is the root configuration structure.
type Config struct {
	REPL    REPLConfig    `toml:"repl"`
	UI      UIConfig      `toml:"ui"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// REPLConfig shapes the produced invocation.
type REPLConfig struct {
	// Accessor wraps the class name to get an instance, e.g. "$" or "get".
	Accessor string `toml:"accessor"`
	// Assign prefixes the invocation with `let <method> = `.
	Assign bool `toml:"assign"`
}

// AccessorOrDefault returns the configured accessor or "$" if unset.
func (r REPLConfig) AccessorOrDefault() string {
	if r.Accessor == "" {
		return "$"
	}
	return r.Accessor
}

// UIConfig holds user-interface settings.
type UIConfig struct {
	// SyntaxTheme is the Chroma theme used by `show`. Prompt colors are
	// derived from it via highlight.ThemePalette.
	SyntaxTheme string `toml:"syntax_theme"`
}

// SyntaxThemeOrDefault returns the configured syntax theme or "github-dark" if unset.
func (u UIConfig) SyntaxThemeOrDefault() string {
	if u.SyntaxTheme == "" {
		return "github-dark"
	}
	return u.SyntaxTheme
}

// HistoryConfig controls the invocation history database.
type HistoryConfig struct {
	// Enabled is a pointer so an absent key keeps the default (on).
	Enabled *bool  `toml:"enabled"`
	Path    string `toml:"path"`
	Keep    int    `toml:"keep"`
}

// IsEnabled reports whether invocations are recorded.
func (h HistoryConfig) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// PathOrDefault returns the configured database path or
// ~/.config/nestcall/history.db.
func (h HistoryConfig) PathOrDefault() (string, error) {
	if h.Path != "" {
		return h.Path, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// KeepOrDefault returns the retention limit or 500 if unset.
func (h HistoryConfig) KeepOrDefault() int {
	if h.Keep <= 0 {
		return 500
	}
	return h.Keep
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LevelOrDefault returns the parsed log level or warn if unset.
func (l LogConfig) LevelOrDefault() zerolog.Level {
	if l.Level == "" {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.WarnLevel
	}
	return lvl
}

// Load reads configuration from a TOML file and applies environment variable
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if strings.ContainsAny(c.REPL.Accessor, " \t\n()") {
		errs = append(errs, fmt.Errorf("repl.accessor=%q must be a bare identifier", c.REPL.Accessor))
	}

	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level=%q is invalid: %v", c.Log.Level, err))
		}
	}

	if c.History.Keep < 0 {
		errs = append(errs, fmt.Errorf("history.keep=%d must not be negative", c.History.Keep))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"NESTCALL_ACCESSOR", func(v string) {
			if v != "" {
				cfg.REPL.Accessor = v
			}
		}},
		{"NESTCALL_LOG_LEVEL", func(v string) {
			if v != "" {
				cfg.Log.Level = v
			}
		}},
		{"NESTCALL_HISTORY", func(v string) {
			if v == "" {
				return
			}
			if on, err := strconv.ParseBool(v); err == nil {
				cfg.History.Enabled = &on
			}
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
}

// DataDir returns the path to the nestcall data directory (~/.config/nestcall).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nestcall"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}
