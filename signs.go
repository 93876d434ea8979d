package gridshell

import (
	"crypto/sha256"
	"fmt"
	"image"
	"image/png"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/image/draw"
)

// SignIcon is an icon bitmap registered for gutter signs.
type SignIcon struct {
	ID         uint32
	Name       string
	Image      *image.RGBA
	Hash       [32]byte  // SHA-256 of the pixels, for deduplication
	AccessedAt time.Time // for LRU eviction
}

type scaledKey struct {
	id   uint32
	w, h int
}

// SignRegistry stores sign icons and hands out copies scaled to the sign area.
// Identical bitmaps share one ID.
type SignRegistry struct {
	mu sync.RWMutex

	icons    map[uint32]*SignIcon
	names    map[string]uint32
	hashToID map[[32]byte]uint32
	scaled   map[scaledKey]*image.RGBA

	nextID uint32

	maxMemory  int64
	usedMemory int64
}

// NewSignRegistry creates an empty registry with a 16MB budget.
func NewSignRegistry() *SignRegistry {
	return &SignRegistry{
		icons:     make(map[uint32]*SignIcon),
		names:     make(map[string]uint32),
		hashToID:  make(map[[32]byte]uint32),
		scaled:    make(map[scaledKey]*image.RGBA),
		maxMemory: 16 * 1024 * 1024,
	}
}

// SetMaxMemory sets the memory budget for icon pixels.
func (m *SignRegistry) SetMaxMemory(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxMemory = bytes
	if m.usedMemory > m.maxMemory {
		m.pruneLocked()
	}
}

// Register stores img under name and returns its ID.
// If an identical bitmap exists, name is bound to the existing ID.
func (m *SignRegistry) Register(name string, img image.Image) uint32 {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	m.mu.Lock()
	defer m.mu.Unlock()

	hash := sha256.Sum256(rgba.Pix)
	now := time.Now()

	if id, ok := m.hashToID[hash]; ok {
		if icon, ok := m.icons[id]; ok {
			icon.AccessedAt = now
			m.names[name] = id
			return id
		}
	}

	m.nextID++
	id := m.nextID
	m.icons[id] = &SignIcon{ID: id, Name: name, Image: rgba, Hash: hash, AccessedAt: now}
	m.names[name] = id
	m.hashToID[hash] = id
	m.usedMemory += int64(len(rgba.Pix))

	if m.usedMemory > m.maxMemory {
		m.pruneLocked()
	}
	return id
}

// RegisterPNG decodes a PNG icon and registers it under name.
func (m *SignRegistry) RegisterPNG(name string, r io.Reader) (uint32, error) {
	img, err := png.Decode(r)
	if err != nil {
		return 0, fmt.Errorf("gridshell: sign %q: %w", name, err)
	}
	return m.Register(name, img), nil
}

// Lookup returns the ID registered for name.
func (m *SignRegistry) Lookup(name string) (uint32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.names[name]
	if _, live := m.icons[id]; !live {
		return 0, false
	}
	return id, ok
}

// Icon returns icon id scaled to w x h, or nil if there is no such icon.
// Scaled copies are cached per size while they fit the memory budget.
func (m *SignRegistry) Icon(id uint32, w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	icon, ok := m.icons[id]
	if !ok {
		return nil
	}
	icon.AccessedAt = time.Now()

	key := scaledKey{id: id, w: w, h: h}
	if img, ok := m.scaled[key]; ok {
		return img
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(img, img.Bounds(), icon.Image, icon.Image.Bounds(), draw.Src, nil)
	size := int64(len(img.Pix))
	if m.usedMemory+size > m.maxMemory {
		m.dropScaledLocked()
	}
	if m.usedMemory+size <= m.maxMemory {
		m.scaled[key] = img
		m.usedMemory += size
	}
	return img
}

// Delete removes an icon, its names and its scaled copies.
func (m *SignRegistry) Delete(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(id)
}

func (m *SignRegistry) deleteLocked(id uint32) {
	icon, ok := m.icons[id]
	if !ok {
		return
	}
	m.usedMemory -= int64(len(icon.Image.Pix))
	delete(m.hashToID, icon.Hash)
	delete(m.icons, id)

	for name, nid := range m.names {
		if nid == id {
			delete(m.names, name)
		}
	}
	for k, img := range m.scaled {
		if k.id == id {
			m.usedMemory -= int64(len(img.Pix))
			delete(m.scaled, k)
		}
	}
}

// Clear removes all icons.
func (m *SignRegistry) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.icons = make(map[uint32]*SignIcon)
	m.names = make(map[string]uint32)
	m.hashToID = make(map[[32]byte]uint32)
	m.scaled = make(map[scaledKey]*image.RGBA)
	m.usedMemory = 0
}

// UsedMemory returns the bytes held by icons and their scaled copies.
func (m *SignRegistry) UsedMemory() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.usedMemory
}

// Count returns the number of stored icons.
func (m *SignRegistry) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.icons)
}

// dropScaledLocked empties the scaled copy cache.
func (m *SignRegistry) dropScaledLocked() {
	for k, img := range m.scaled {
		m.usedMemory -= int64(len(img.Pix))
		delete(m.scaled, k)
	}
}

// pruneLocked drops scaled copies, then least recently used icons, until under budget.
// Must be called with lock held.
func (m *SignRegistry) pruneLocked() {
	m.dropScaledLocked()

	candidates := make([]*SignIcon, 0, len(m.icons))
	for _, icon := range m.icons {
		candidates = append(candidates, icon)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].AccessedAt.Before(candidates[j].AccessedAt)
	})

	for _, icon := range candidates {
		if m.usedMemory <= m.maxMemory {
			break
		}
		m.deleteLocked(icon.ID)
	}
}
