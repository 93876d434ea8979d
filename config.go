package gridshell

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrInvalidConfig is returned for configuration that is not valid JSON.
var ErrInvalidConfig = errors.New("gridshell: invalid config")

// Config holds the shell settings.
type Config struct {
	Font          string  // "<family> <size>"
	LineSpace     int     // extra pixels between rows
	DPI           float64 // font resolution
	AmbiguousWide bool    // East Asian ambiguous runes take two cells

	BlinkWait time.Duration
	BlinkOn   time.Duration
	BlinkOff  time.Duration

	DoubleClick time.Duration

	Foreground color.RGBA
	Background color.RGBA
	Special    color.RGBA
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Font:        FallbackFamily + " 10",
		DPI:         DefaultDPI,
		BlinkWait:   700 * time.Millisecond,
		BlinkOn:     400 * time.Millisecond,
		BlinkOff:    250 * time.Millisecond,
		DoubleClick: DefaultDoubleClick,
		Foreground:  DefaultForeground,
		Background:  DefaultBackground,
		Special:     DefaultSpecial,
	}
}

// ParseConfig reads JSON settings on top of DefaultConfig:
//
//	{
//	  "font": "Go Mono 12",
//	  "linespace": 2,
//	  "dpi": 96,
//	  "ambiwidth": "double",
//	  "blink": {"wait": 700, "on": 400, "off": 250},
//	  "doubleclick": 400,
//	  "colors": {"fg": "Black", "bg": "#ffffdd", "sp": "Red"}
//	}
//
// Durations are milliseconds; a blink time of 0 disables blinking.
// Unknown color names keep the default color.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	if !gjson.ValidBytes(data) {
		return cfg, ErrInvalidConfig
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return cfg, fmt.Errorf("%w: top level must be an object", ErrInvalidConfig)
	}

	if v := root.Get("font"); v.Exists() && strings.TrimSpace(v.String()) != "" {
		cfg.Font = strings.TrimSpace(v.String())
	}
	if v := root.Get("linespace"); v.Exists() {
		cfg.LineSpace = max(int(v.Int()), 0)
	}
	if v := root.Get("dpi"); v.Exists() && v.Float() > 0 {
		cfg.DPI = v.Float()
	}
	if v := root.Get("ambiwidth"); v.Exists() {
		switch v.Type {
		case gjson.True, gjson.False:
			cfg.AmbiguousWide = v.Bool()
		default:
			cfg.AmbiguousWide = strings.EqualFold(v.String(), "double")
		}
	}

	millis := func(path string, dst *time.Duration) {
		if v := root.Get(path); v.Exists() && v.Int() >= 0 {
			*dst = time.Duration(v.Int()) * time.Millisecond
		}
	}
	millis("blink.wait", &cfg.BlinkWait)
	millis("blink.on", &cfg.BlinkOn)
	millis("blink.off", &cfg.BlinkOff)
	millis("doubleclick", &cfg.DoubleClick)
	if cfg.DoubleClick == 0 {
		cfg.DoubleClick = DefaultDoubleClick
	}

	colorAt := func(path string, dst *color.RGBA) {
		if v := root.Get(path); v.Exists() {
			if c, err := ParseColor(v.String()); err == nil {
				*dst = c
			}
		}
	}
	colorAt("colors.fg", &cfg.Foreground)
	colorAt("colors.bg", &cfg.Background)
	colorAt("colors.sp", &cfg.Special)

	return cfg, nil
}

// LoadConfig reads settings from a JSON file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), err
	}
	return ParseConfig(data)
}
