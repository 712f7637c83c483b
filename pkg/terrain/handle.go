package terrain

import "sync/atomic"

// Handle publishes a terrain to concurrent readers. Replacing the terrain
// swaps the pointer; readers never observe a partially built instance.
type Handle struct {
	current atomic.Pointer[Terrain]
}

// NewHandle returns a handle publishing t, which may be nil.
func NewHandle(t *Terrain) *Handle {
	h := &Handle{}
	if t != nil {
		h.current.Store(t)
	}
	return h
}

// Load returns the published terrain, or nil.
func (h *Handle) Load() *Terrain {
	return h.current.Load()
}

// Swap publishes t and returns the previously published terrain.
func (h *Handle) Swap(t *Terrain) *Terrain {
	return h.current.Swap(t)
}

// HeightAt queries the published terrain. It returns 0 when nothing is published.
func (h *Handle) HeightAt(x, z float32) float32 {
	t := h.current.Load()
	if t == nil {
		return 0
	}
	return t.HeightAt(x, z)
}

// WorldHeightAt queries the published terrain in world space. ok is false
// when nothing is published or the position is outside the surface.
func (h *Handle) WorldHeightAt(x, z float32) (y float32, ok bool) {
	t := h.current.Load()
	if t == nil {
		return 0, false
	}
	return t.WorldHeightAt(x, z)
}

var (
	_ HeightMap = (*HeightGrid)(nil)
	_ HeightMap = (*Terrain)(nil)
	_ HeightMap = (*Handle)(nil)
)
