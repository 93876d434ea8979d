package gridshell

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`{
		"font": "Go Mono 12",
		"linespace": 2,
		"dpi": 96,
		"ambiwidth": "double",
		"blink": {"wait": 500, "on": 300, "off": 0},
		"doubleclick": 250,
		"colors": {"fg": "DarkBlue", "bg": "#ffffdd", "sp": "nope"}
	}`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Font != "Go Mono 12" {
		t.Errorf("Font = %q", cfg.Font)
	}
	if cfg.LineSpace != 2 || cfg.DPI != 96 || !cfg.AmbiguousWide {
		t.Errorf("LineSpace/DPI/AmbiguousWide = %d/%v/%v", cfg.LineSpace, cfg.DPI, cfg.AmbiguousWide)
	}
	if cfg.BlinkWait != 500*time.Millisecond || cfg.BlinkOn != 300*time.Millisecond || cfg.BlinkOff != 0 {
		t.Errorf("blink = %v/%v/%v", cfg.BlinkWait, cfg.BlinkOn, cfg.BlinkOff)
	}
	if cfg.DoubleClick != 250*time.Millisecond {
		t.Errorf("DoubleClick = %v", cfg.DoubleClick)
	}
	if cfg.Foreground != (color.RGBA{0, 0, 139, 255}) {
		t.Errorf("Foreground = %v", cfg.Foreground)
	}
	if cfg.Background != (color.RGBA{0xFF, 0xFF, 0xDD, 255}) {
		t.Errorf("Background = %v", cfg.Background)
	}
	if cfg.Special != DefaultSpecial {
		t.Errorf("Special = %v, want default for an unknown name", cfg.Special)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("ParseConfig({}) = %+v, want defaults", cfg)
	}

	cfg, _ = ParseConfig([]byte(`{"ambiwidth": true, "linespace": -3, "dpi": 0}`))
	if !cfg.AmbiguousWide || cfg.LineSpace != 0 || cfg.DPI != DefaultDPI {
		t.Errorf("ParseConfig = %+v", cfg)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	for _, data := range []string{`{"font":`, `not json`, `[1, 2]`, `"font"`} {
		if _, err := ParseConfig([]byte(data)); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ParseConfig(%q) error = %v, want ErrInvalidConfig", data, err)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridshell.json")
	if err := os.WriteFile(path, []byte(`{"font": "Fixed"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Font != "Fixed" {
		t.Errorf("Font = %q", cfg.Font)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for a missing file")
	}
}
