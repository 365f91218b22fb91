// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/xonecas/retest/internal/constants"
	"github.com/xonecas/retest/internal/match"
)

// Config is the root configuration structure.
type Config struct {
	Engine         string        `toml:"engine"`
	MatchTimeoutMS int           `toml:"match_timeout_ms"`
	Palette        PaletteConfig `toml:"palette"`
	UI             UIConfig      `toml:"ui"`
	Session        SessionConfig `toml:"session"`
}

// PaletteConfig holds the colors used to annotate matches.
type PaletteConfig struct {
	GroupColors        []string `toml:"group_colors"`
	FullMatchColor     string   `toml:"full_match_color"`
	OverflowBackground string   `toml:"overflow_background"`
	OverflowForeground string   `toml:"overflow_foreground"`
}

// UIConfig holds user-interface settings.
type UIConfig struct {
	// SyntaxTheme is the Chroma theme UI chrome colors are derived from via
	// highlight.ThemePalette. Defaults to constants.SyntaxTheme if unset.
	SyntaxTheme string `toml:"syntax_theme"`
	LineNumbers bool   `toml:"line_numbers"`
}

// SyntaxThemeOrDefault returns the configured syntax theme or
// constants.SyntaxTheme if unset.
func (u UIConfig) SyntaxThemeOrDefault() string {
	if u.SyntaxTheme == "" {
		return constants.SyntaxTheme
	}
	return u.SyntaxTheme
}

// SessionConfig controls persistence of the last pattern and text.
type SessionConfig struct {
	Restore bool `toml:"restore"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine:         string(match.EngineRE2),
		MatchTimeoutMS: int(match.DefaultMatchTimeout / time.Millisecond),
		Palette: PaletteConfig{
			GroupColors: []string{
				"#694848", "#823535", "#9B0101", "#2C5A36", "#4E5A47",
				"#3D4E5A", "#302FF0", "#44448C", "#0707F0", "#585A09",
			},
			FullMatchColor:     "#3b6a6e",
			OverflowBackground: "#8FF0A4",
			OverflowForeground: "#29251c",
		},
		UI:      UIConfig{SyntaxTheme: constants.SyntaxTheme, LineNumbers: true},
		Session: SessionConfig{Restore: true},
	}
}

// MatchTimeout returns the backtracking engine's per-search limit.
func (c *Config) MatchTimeout() time.Duration {
	return time.Duration(c.MatchTimeoutMS) * time.Millisecond
}

// EngineKind returns the parsed engine setting.
func (c *Config) EngineKind() match.EngineKind {
	k, err := match.ParseEngine(c.Engine)
	if err != nil {
		return match.EngineRE2
	}
	return k
}

// Load reads configuration from a TOML file and applies environment variable
// overrides. It never fails: a missing file is created with defaults, and a
// malformed file or invalid value falls back to the defaults. Every fallback
// is reported in the returned warnings.
func Load(path string) (*Config, []error) {
	var warnings []error

	cfg := Default()
	switch _, err := os.Stat(path); {
	case path == "":
		warnings = append(warnings, errors.New("config path is empty, using defaults"))
	case errors.Is(err, os.ErrNotExist):
		if err := Write(path, cfg); err != nil {
			warnings = append(warnings, fmt.Errorf("failed to write default config: %w", err))
		}
	case err != nil:
		warnings = append(warnings, fmt.Errorf("config file unreadable, using defaults: %w", err))
	default:
		loaded := Default()
		if _, err := toml.DecodeFile(path, loaded); err != nil {
			warnings = append(warnings, fmt.Errorf("failed to parse config, using defaults: %w", err))
		} else {
			cfg = loaded
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		warnings = append(warnings, err)
		cfg.repair()
	}

	return cfg, warnings
}

// Write encodes cfg as TOML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if _, err := match.ParseEngine(c.Engine); err != nil {
		errs = append(errs, fmt.Errorf("engine: %w", err))
	}
	if c.MatchTimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("match_timeout_ms=%d must be positive", c.MatchTimeoutMS))
	}

	if len(c.Palette.GroupColors) == 0 {
		errs = append(errs, errors.New("palette.group_colors: at least one color is required"))
	}
	for i, col := range c.Palette.GroupColors {
		if !hexColorRe.MatchString(col) {
			errs = append(errs, fmt.Errorf("palette.group_colors[%d]=%q is not a hex color", i, col))
		}
	}
	for _, f := range []struct{ key, val string }{
		{"palette.full_match_color", c.Palette.FullMatchColor},
		{"palette.overflow_background", c.Palette.OverflowBackground},
		{"palette.overflow_foreground", c.Palette.OverflowForeground},
	} {
		if !hexColorRe.MatchString(f.val) {
			errs = append(errs, fmt.Errorf("%s=%q is not a hex color", f.key, f.val))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// repair replaces each invalid setting with its default, leaving valid
// settings alone.
func (c *Config) repair() {
	def := Default()
	if _, err := match.ParseEngine(c.Engine); err != nil {
		c.Engine = def.Engine
	}
	if c.MatchTimeoutMS <= 0 {
		c.MatchTimeoutMS = def.MatchTimeoutMS
	}
	valid := len(c.Palette.GroupColors) > 0
	for _, col := range c.Palette.GroupColors {
		valid = valid && hexColorRe.MatchString(col)
	}
	if !valid {
		c.Palette.GroupColors = def.Palette.GroupColors
	}
	for _, f := range []struct {
		val *string
		def string
	}{
		{&c.Palette.FullMatchColor, def.Palette.FullMatchColor},
		{&c.Palette.OverflowBackground, def.Palette.OverflowBackground},
		{&c.Palette.OverflowForeground, def.Palette.OverflowForeground},
	} {
		if !hexColorRe.MatchString(*f.val) {
			*f.val = f.def
		}
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"RETEST_ENGINE", func(v string) {
			if v != "" {
				cfg.Engine = v
			}
		}},
		{"RETEST_THEME", func(v string) {
			if v != "" {
				cfg.UI.SyntaxTheme = v
			}
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
}

// DataDir returns the path to the retest data directory (~/.config/retest).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", constants.AppName), nil
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

// DefaultPath returns the config file location inside the data directory.
func DefaultPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFile), nil
}
