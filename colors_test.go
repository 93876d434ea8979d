package gridshell

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name     string
		expected color.RGBA
	}{
		{"DarkBlue", color.RGBA{0, 0, 139, 255}},
		{"dark blue", color.RGBA{0, 0, 139, 255}},
		{"  DARKBLUE ", color.RGBA{0, 0, 139, 255}},
		{"#112233", color.RGBA{0x11, 0x22, 0x33, 255}},
		{"#fff", color.RGBA{255, 255, 255, 255}},
		{"Grey40", color.RGBA{0x66, 0x66, 0x66, 255}},
		{"gray 90", color.RGBA{0xE5, 0xE5, 0xE5, 255}},
		{"DarkYellow", color.RGBA{0xBB, 0xBB, 0x00, 255}},
		{"red", color.RGBA{255, 0, 0, 255}},
		{"Transparent", Transparent},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.name)
		if err != nil {
			t.Errorf("ParseColor(%q) error: %v", tt.name, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, name := range []string{"not-a-color", "", "#12", "#zzzzzz", "rgb(1,2,3)"} {
		if _, err := ParseColor(name); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseColor(%q) error = %v, want ErrInvalidColor", name, err)
		}
	}
}

func TestLookupColor(t *testing.T) {
	if _, ok := LookupColor("#112233"); ok {
		t.Error("LookupColor should not parse literals")
	}

	c, ok := LookupColor("Light Magenta")
	if !ok {
		t.Fatal("expected LightMagenta in table")
	}
	if c != (color.RGBA{0xFF, 0xBB, 0xFF, 255}) {
		t.Errorf("LightMagenta = %v", c)
	}
}
