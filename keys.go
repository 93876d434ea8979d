package gridshell

import (
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Editor input protocol markers.
const (
	EscMark      byte = 0x9B // starts a special key or modifier sequence (CSI)
	ModifierMark byte = 252  // EscMark, ModifierMark, mask announces modifiers for the next key
)

// Keyboard modifier mask sent after ModifierMark.
const (
	ModShift = 0x02
	ModCtrl  = 0x04
	ModAlt   = 0x08
)

// KeyCode is the two-byte capability code of a special key.
// A zero second byte means the first byte is sent as is.
type KeyCode [2]byte

type specialKey struct {
	key  tcell.Key
	code KeyCode
}

var specialKeys = []specialKey{
	{tcell.KeyUp, KeyCode{'k', 'u'}},
	{tcell.KeyDown, KeyCode{'k', 'd'}},
	{tcell.KeyLeft, KeyCode{'k', 'l'}},
	{tcell.KeyRight, KeyCode{'k', 'r'}},
	{tcell.KeyF1, KeyCode{'k', '1'}},
	{tcell.KeyF2, KeyCode{'k', '2'}},
	{tcell.KeyF3, KeyCode{'k', '3'}},
	{tcell.KeyF4, KeyCode{'k', '4'}},
	{tcell.KeyF5, KeyCode{'k', '5'}},
	{tcell.KeyF6, KeyCode{'k', '6'}},
	{tcell.KeyF7, KeyCode{'k', '7'}},
	{tcell.KeyF8, KeyCode{'k', '8'}},
	{tcell.KeyF9, KeyCode{'k', '9'}},
	{tcell.KeyF10, KeyCode{'k', ';'}},
	{tcell.KeyF11, KeyCode{'F', '1'}},
	{tcell.KeyF12, KeyCode{'F', '2'}},
	{tcell.KeyF13, KeyCode{'F', '3'}},
	{tcell.KeyF14, KeyCode{'F', '4'}},
	{tcell.KeyBackspace, KeyCode{'k', 'b'}},
	{tcell.KeyBackspace2, KeyCode{'k', 'b'}},
	{tcell.KeyDelete, KeyCode{'k', 'D'}},
	{tcell.KeyInsert, KeyCode{'k', 'I'}},
	{tcell.KeyHome, KeyCode{'k', 'h'}},
	{tcell.KeyEnd, KeyCode{'@', '7'}},
	{tcell.KeyPgUp, KeyCode{'k', 'P'}},
	{tcell.KeyPgDn, KeyCode{'k', 'N'}},
	{tcell.KeyPrint, KeyCode{'%', '9'}},
	{tcell.KeyTab, KeyCode{'\t', 0}},
	{tcell.KeyBacktab, KeyCode{'k', 'B'}},
}

// LookupSpecialKey returns the capability code of a special key.
func LookupSpecialKey(key tcell.Key) (KeyCode, bool) {
	for _, sk := range specialKeys {
		if sk.key == key {
			return sk.code, true
		}
	}
	return KeyCode{}, false
}

// KeyMods converts tcell modifiers to the keyboard modifier mask. Meta counts as Alt.
func KeyMods(m tcell.ModMask) int {
	mods := 0
	if m&tcell.ModShift != 0 {
		mods |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= ModCtrl
	}
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		mods |= ModAlt
	}
	return mods
}

func modifierEscape(mods int) []byte {
	return []byte{EscMark, ModifierMark, byte(mods)}
}

// TranslateKey encodes a key press for the editor input buffer.
//
// Special keys become EscMark and their capability code, preceded by a modifier
// escape when modifiers are held. A single rune drops modifiers it already carries
// (Shift on upper-case letters and punctuation, Ctrl on control characters), and Alt
// on an ASCII rune sets its high bit. Longer text is sent verbatim.
func TranslateKey(key tcell.Key, text string, mods int) []byte {
	mods &= ModShift | ModCtrl | ModAlt

	if code, ok := LookupSpecialKey(key); ok {
		if key == tcell.KeyBacktab {
			mods &^= ModShift
		}
		var out []byte
		if mods != 0 {
			out = append(out, modifierEscape(mods)...)
		}
		if code[1] == 0 {
			return append(out, code[0])
		}
		return append(out, EscMark, code[0], code[1])
	}

	if text == "" {
		return nil
	}

	r, size := utf8.DecodeRuneInString(text)
	if size != len(text) || r == utf8.RuneError {
		return []byte(text)
	}

	if unicode.IsUpper(r) || (unicode.IsPrint(r) && !unicode.IsLetter(r)) {
		mods &^= ModShift
	}
	if r < 0x20 {
		mods &^= ModCtrl
	}
	if mods&ModAlt != 0 && r < 0x80 {
		r |= 0x80
		mods &^= ModAlt
	}

	var out []byte
	if mods != 0 {
		out = modifierEscape(mods)
	}
	return utf8.AppendRune(out, r)
}

// KeyText returns the text a key event produces: the rune of a rune key, or the
// control character of a control key. Other keys produce no text.
func KeyText(ev *tcell.EventKey) string {
	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		return string(ev.Rune())
	case k < 0x20 || k == 0x7F:
		return string(rune(k))
	}
	return ""
}

// TranslateKeyEvent encodes a tcell key event for the editor input buffer.
func TranslateKeyEvent(ev *tcell.EventKey) []byte {
	return TranslateKey(ev.Key(), KeyText(ev), KeyMods(ev.Modifiers()))
}
