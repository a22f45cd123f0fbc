// Package config loads and validates the gallery configuration from a
// TOML file. Absent files and absent keys fall back to defaults, so a
// configuration file is never required.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Display fallback policies.
const (
	// FallbackAuto probes the terminal and substitutes only what it
	// cannot show.
	FallbackAuto = "auto"

	// FallbackAlways transliterates all box-drawing output to ASCII.
	FallbackAlways = "always"

	// FallbackNever trusts the terminal with raw glyphs.
	FallbackNever = "never"
)

// True-color overrides.
const (
	TrueColorAuto = "auto"
	TrueColorOn   = "on"
	TrueColorOff  = "off"
)

// Config is the root of the configuration file.
type Config struct {
	Gallery GallerySection `toml:"gallery"`
	Display DisplaySection `toml:"display"`
	Scroll  ScrollSection  `toml:"scroll"`
	Log     LogSection     `toml:"log"`
}

// GallerySection selects and orders sections.
type GallerySection struct {
	// Sections filters and orders the builtin sections by name. Empty
	// keeps every section in its default order.
	Sections []string `toml:"sections"`

	// ScriptsEnabled loads Lua section scripts at startup.
	ScriptsEnabled bool `toml:"scripts_enabled"`

	// ScriptDir is the directory searched for *.lua scripts. Empty
	// resolves to a scripts directory next to the config file.
	ScriptDir string `toml:"script_dir"`
}

// DisplaySection controls glyph substitution and color depth.
type DisplaySection struct {
	// Fallback is one of auto, always or never.
	Fallback string `toml:"fallback"`

	// TrueColor is one of auto, on or off. auto trusts the terminal's
	// own report.
	TrueColor string `toml:"true_color"`
}

// ScrollSection controls viewport movement.
type ScrollSection struct {
	// Smooth animates scrolling instead of jumping.
	Smooth bool `toml:"smooth"`

	// WheelLines is how many lines one wheel step moves.
	WheelLines int `toml:"wheel_lines"`

	// Margin keeps this many lines visible above and below the cursor
	// line while scrolling.
	Margin int `toml:"margin"`
}

// LogSection controls the file logger.
type LogSection struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`

	// File receives log output. Empty disables file logging.
	File string `toml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Gallery: GallerySection{
			ScriptsEnabled: true,
		},
		Display: DisplaySection{
			Fallback:  FallbackAuto,
			TrueColor: TrueColorAuto,
		},
		Scroll: ScrollSection{
			Smooth:     true,
			WheelLines: 3,
			Margin:     2,
		},
		Log: LogSection{
			Level: "info",
		},
	}
}

// Validate checks every field and reports all violations at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Display.Fallback {
	case FallbackAuto, FallbackAlways, FallbackNever:
	default:
		errs = append(errs, fmt.Errorf("display.fallback %q: must be auto, always or never", c.Display.Fallback))
	}

	switch c.Display.TrueColor {
	case TrueColorAuto, TrueColorOn, TrueColorOff:
	default:
		errs = append(errs, fmt.Errorf("display.true_color %q: must be auto, on or off", c.Display.TrueColor))
	}

	if c.Scroll.WheelLines < 1 {
		errs = append(errs, fmt.Errorf("scroll.wheel_lines %d: must be at least 1", c.Scroll.WheelLines))
	}
	if c.Scroll.Margin < 0 {
		errs = append(errs, fmt.Errorf("scroll.margin %d: must not be negative", c.Scroll.Margin))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q: must be debug, info, warn or error", c.Log.Level))
	}

	seen := make(map[string]bool, len(c.Gallery.Sections))
	for _, name := range c.Gallery.Sections {
		if name == "" {
			errs = append(errs, errors.New("gallery.sections: empty section name"))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("gallery.sections: %q listed twice", name))
		}
		seen[name] = true
	}

	return errors.Join(errs...)
}

// ScriptDirFor resolves the script directory relative to the config
// file location when the configured value is empty or relative.
func (c *Config) ScriptDirFor(configPath string) string {
	dir := c.Gallery.ScriptDir
	if dir == "" {
		dir = "scripts"
	}
	if filepath.IsAbs(dir) || configPath == "" {
		return dir
	}
	return filepath.Join(filepath.Dir(configPath), dir)
}

// DefaultPath returns the standard location of the config file,
// $XDG_CONFIG_HOME/termgallery/config.toml on Linux. Empty when the
// user config directory cannot be determined.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "termgallery", "config.toml")
}
