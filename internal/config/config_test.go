package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Display.Fallback != FallbackAuto {
		t.Errorf("default fallback = %q", cfg.Display.Fallback)
	}
	if !cfg.Gallery.ScriptsEnabled {
		t.Error("scripts should be enabled by default")
	}
	if cfg.Scroll.WheelLines != 3 || cfg.Scroll.Margin != 2 {
		t.Errorf("scroll defaults = %+v", cfg.Scroll)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse("test.toml", []byte(`
[display]
fallback = "always"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Display.Fallback != FallbackAlways {
		t.Errorf("fallback = %q, want always", cfg.Display.Fallback)
	}
	if cfg.Display.TrueColor != TrueColorAuto {
		t.Errorf("true_color = %q, want the default", cfg.Display.TrueColor)
	}
	if !cfg.Scroll.Smooth || cfg.Scroll.WheelLines != 3 {
		t.Errorf("scroll lost its defaults: %+v", cfg.Scroll)
	}
	if !cfg.Gallery.ScriptsEnabled {
		t.Error("absent gallery table must keep scripts enabled")
	}
}

func TestParseFullDocument(t *testing.T) {
	cfg, err := Parse("test.toml", []byte(`
[gallery]
sections = ["boxes", "align"]
scripts_enabled = false
script_dir = "/opt/gallery/scripts"

[display]
fallback = "never"
true_color = "off"

[scroll]
smooth = false
wheel_lines = 5
margin = 0

[log]
level = "debug"
file = "/tmp/gallery.log"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Gallery.Sections) != 2 || cfg.Gallery.Sections[0] != "boxes" {
		t.Errorf("sections = %v", cfg.Gallery.Sections)
	}
	if cfg.Gallery.ScriptsEnabled {
		t.Error("scripts_enabled = true, want false")
	}
	if cfg.Display.Fallback != FallbackNever || cfg.Display.TrueColor != TrueColorOff {
		t.Errorf("display = %+v", cfg.Display)
	}
	if cfg.Scroll.Smooth || cfg.Scroll.WheelLines != 5 || cfg.Scroll.Margin != 0 {
		t.Errorf("scroll = %+v", cfg.Scroll)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/gallery.log" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestParseReportsPosition(t *testing.T) {
	_, err := Parse("broken.toml", []byte("[display]\nfallback = \n"))
	if err == nil {
		t.Fatal("expected a parse error")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type %T, want *ParseError", err)
	}
	if pe.Path != "broken.toml" {
		t.Errorf("Path = %q", pe.Path)
	}
	if pe.Line == 0 {
		t.Error("decode position was not lifted into the error")
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	_, err := Parse("test.toml", []byte(`
[display]
fallback = "sometimes"

[scroll]
wheel_lines = 0

[log]
level = "loud"
`))
	if err == nil {
		t.Fatal("expected a validation error")
	}
	for _, want := range []string{"display.fallback", "scroll.wheel_lines", "log.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error does not mention %s: %v", want, err)
		}
	}
}

func TestValidateDuplicateSections(t *testing.T) {
	cfg := Default()
	cfg.Gallery.Sections = []string{"boxes", "boxes"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "listed twice") {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, loaded, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded {
		t.Error("loaded = true for a missing file")
	}
	if cfg.Display.Fallback != FallbackAuto {
		t.Errorf("missing file should yield defaults, got %+v", cfg.Display)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded {
		t.Error("loaded = false for an existing file")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q", cfg.Log.Level)
	}
}

func TestScriptDirFor(t *testing.T) {
	cases := []struct {
		dir        string
		configPath string
		want       string
	}{
		{"", "/home/u/.config/termgallery/config.toml", "/home/u/.config/termgallery/scripts"},
		{"lua", "/home/u/.config/termgallery/config.toml", "/home/u/.config/termgallery/lua"},
		{"/opt/scripts", "/home/u/.config/termgallery/config.toml", "/opt/scripts"},
		{"", "", "scripts"},
	}
	for _, tc := range cases {
		cfg := Default()
		cfg.Gallery.ScriptDir = tc.dir
		if got := cfg.ScriptDirFor(tc.configPath); got != tc.want {
			t.Errorf("ScriptDirFor(%q, %q) = %q, want %q", tc.dir, tc.configPath, got, tc.want)
		}
	}
}
