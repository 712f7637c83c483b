package terrain

// ToGrid maps a world-space (x, z) position into grid space.
func (t *Terrain) ToGrid(worldX, worldZ float32) (gx, gz float32) {
	p := t.inverse.TransformPoint([3]float32{worldX, 0, worldZ})
	// Vertices are laid out along -Z, so grid z is the negated model Z.
	return p[0], -p[2]
}

// Sample queries the surface at a world-space position and reports whether the
// position lies inside the queryable area [0, width-2) x [0, depth-2) of the grid.
func (t *Terrain) Sample(worldX, worldZ float32) Sample {
	gx, gz := t.ToGrid(worldX, worldZ)
	h, ok := t.grid.interpolate(gx, gz, t.split)
	return Sample{GridX: gx, GridZ: gz, Height: h, InBounds: ok}
}

// HeightAt returns the grid elevation under a world-space position, or 0 when
// the position is outside the surface.
func (t *Terrain) HeightAt(worldX, worldZ float32) float32 {
	gx, gz := t.ToGrid(worldX, worldZ)
	h, _ := t.grid.interpolate(gx, gz, t.split)
	return h
}

// WorldHeightAt returns the world-space Y of the surface under a world-space
// position. ok is false outside the surface.
func (t *Terrain) WorldHeightAt(worldX, worldZ float32) (y float32, ok bool) {
	gx, gz := t.ToGrid(worldX, worldZ)
	h, ok := t.grid.interpolate(gx, gz, t.split)
	if !ok {
		return 0, false
	}
	p := t.world.TransformPoint([3]float32{gx, h, -gz})
	return p[1], true
}
