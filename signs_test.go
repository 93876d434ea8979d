package gridshell

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRGBA(img, img.Bounds(), c)
	return img
}

func TestSignRegistry_Register(t *testing.T) {
	m := NewSignRegistry()

	id := m.Register("error", solidImage(4, 4, red))
	if id != 1 {
		t.Errorf("expected id 1, got %d", id)
	}
	if m.Count() != 1 {
		t.Errorf("expected 1 icon, got %d", m.Count())
	}
	if m.UsedMemory() != 64 {
		t.Errorf("expected 64 bytes, got %d", m.UsedMemory())
	}

	got, ok := m.Lookup("error")
	if !ok || got != id {
		t.Errorf("Lookup(error) = %d, %v", got, ok)
	}
	if _, ok := m.Lookup("warning"); ok {
		t.Error("Lookup(warning) should fail")
	}
}

func TestSignRegistry_Deduplication(t *testing.T) {
	m := NewSignRegistry()

	id1 := m.Register("a", solidImage(4, 4, red))
	id2 := m.Register("b", solidImage(4, 4, red))

	if id1 != id2 {
		t.Errorf("expected same id for duplicate, got %d and %d", id1, id2)
	}
	if m.Count() != 1 {
		t.Errorf("expected 1 icon (deduplicated), got %d", m.Count())
	}
	if id, _ := m.Lookup("b"); id != id1 {
		t.Errorf("Lookup(b) = %d, want %d", id, id1)
	}
}

func TestSignRegistry_Icon(t *testing.T) {
	m := NewSignRegistry()
	id := m.Register("x", solidImage(4, 4, green))

	icon := m.Icon(id, 14, 13)
	if icon == nil {
		t.Fatal("expected scaled icon")
	}
	if icon.Bounds() != image.Rect(0, 0, 14, 13) {
		t.Errorf("scaled bounds = %v", icon.Bounds())
	}
	if got := icon.RGBAAt(7, 6); got != green {
		t.Errorf("scaled pixel = %v, want green", got)
	}
	if again := m.Icon(id, 14, 13); again != icon {
		t.Error("expected cached scaled icon")
	}

	if m.Icon(99, 14, 13) != nil {
		t.Error("unknown id should return nil")
	}
	if m.Icon(id, 0, 13) != nil {
		t.Error("zero size should return nil")
	}
}

func TestSignRegistry_RegisterPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(2, 2, blue)); err != nil {
		t.Fatal(err)
	}

	m := NewSignRegistry()
	id, err := m.RegisterPNG("png", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Error("expected non-zero id")
	}

	if _, err := m.RegisterPNG("bad", bytes.NewReader([]byte("not a png"))); err == nil {
		t.Error("expected error for invalid PNG")
	}
}

func TestSignRegistry_Delete(t *testing.T) {
	m := NewSignRegistry()
	id := m.Register("x", solidImage(4, 4, red))
	m.Icon(id, 8, 8)

	m.Delete(id)

	if m.Count() != 0 {
		t.Errorf("expected 0 icons, got %d", m.Count())
	}
	if m.UsedMemory() != 0 {
		t.Errorf("expected 0 bytes, got %d", m.UsedMemory())
	}
	if _, ok := m.Lookup("x"); ok {
		t.Error("name should be gone")
	}
}

func TestSignRegistry_Prune(t *testing.T) {
	m := NewSignRegistry()
	m.SetMaxMemory(100)

	old := m.Register("old", solidImage(4, 4, red))
	m.Register("new", solidImage(4, 4, blue))

	if m.Count() != 1 {
		t.Fatalf("expected 1 icon after pruning, got %d", m.Count())
	}
	if _, ok := m.Lookup("old"); ok {
		t.Errorf("icon %d should have been evicted", old)
	}
	if _, ok := m.Lookup("new"); !ok {
		t.Error("newest icon should survive")
	}
}

func TestSignRegistry_ScaledWithinBudget(t *testing.T) {
	m := NewSignRegistry()
	m.SetMaxMemory(4096)
	id := m.Register("x", solidImage(4, 4, green))

	for n := 1; n <= 32; n++ {
		icon := m.Icon(id, n, n)
		if icon == nil || icon.Bounds() != image.Rect(0, 0, n, n) {
			t.Fatalf("Icon(%d, %d) = %v", n, n, icon)
		}
		if used := m.UsedMemory(); used > 4096 {
			t.Fatalf("after %dx%d: used %d bytes, budget 4096", n, n, used)
		}
	}
	if m.Count() != 1 {
		t.Errorf("scaled copies must not evict the icon, count = %d", m.Count())
	}

	big := m.Icon(id, 40, 40)
	if big == nil || big.RGBAAt(20, 20) != green {
		t.Error("a copy larger than the budget should still be returned")
	}
	if used := m.UsedMemory(); used > 4096 {
		t.Errorf("used %d bytes after oversized copy", used)
	}
}

func TestSignRegistry_Clear(t *testing.T) {
	m := NewSignRegistry()
	m.Register("a", solidImage(2, 2, red))
	m.Register("b", solidImage(2, 2, blue))

	m.Clear()

	if m.Count() != 0 || m.UsedMemory() != 0 {
		t.Errorf("Clear left %d icons, %d bytes", m.Count(), m.UsedMemory())
	}
}
