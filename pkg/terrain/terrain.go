package terrain

import (
	"fmt"
	"image"

	"github.com/Faultbox/heightmap-terrain/pkg/math"
)

// Terrain is a heightmap mesh placed in the world. It is immutable after New;
// to move or reload a terrain, build a new one and publish it through a Handle.
type Terrain struct {
	grid     *HeightGrid
	mesh     Mesh
	world    math.Mat4
	inverse  math.Mat4
	split    Split
	normals  Normals
	tileSize float32
}

// New builds the mesh for grid and prepares the inverse world transform used
// by height queries. The terrain takes ownership of grid.
func New(grid *HeightGrid, opts Options) (*Terrain, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil height grid", ErrInvalidOptions)
	}

	tileSize := opts.TextureTileSize
	if tileSize == 0 {
		tileSize = DefaultTextureTileSize
	}
	if tileSize < 0 {
		return nil, fmt.Errorf("%w: texture tile size %v", ErrInvalidOptions, tileSize)
	}
	if opts.Split != SplitQuadrant && opts.Split != SplitDiagonal {
		return nil, fmt.Errorf("%w: split mode %d", ErrInvalidOptions, int(opts.Split))
	}
	if opts.Normals != NormalsFlat && opts.Normals != NormalsSmooth {
		return nil, fmt.Errorf("%w: normals mode %d", ErrInvalidOptions, int(opts.Normals))
	}

	world := opts.World
	if world == (math.Mat4{}) {
		world = math.Identity()
	}
	inverse, ok := world.Invert()
	if !ok {
		return nil, fmt.Errorf("%w: determinant %v", ErrNonInvertibleTransform, world.Determinant())
	}

	vertices := BuildVertices(grid, tileSize, opts.Normals)
	indices := BuildIndices(grid.width, grid.depth)

	t := &Terrain{
		grid:     grid,
		world:    world,
		inverse:  inverse,
		split:    opts.Split,
		normals:  opts.Normals,
		tileSize: tileSize,
	}
	t.mesh = Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   t.worldBounds(vertices),
	}

	return t, nil
}

// NewFromImage builds the height grid from img using opts.HeightScale and then
// the terrain.
func NewFromImage(img image.Image, opts Options) (*Terrain, error) {
	grid, err := HeightGridFromImage(img, opts.HeightScale)
	if err != nil {
		return nil, err
	}
	return New(grid, opts)
}

func (t *Terrain) worldBounds(vertices []Vertex) Bounds {
	local := computeBounds(vertices)

	// Transform the 8 corners of the local box; exact for affine placements.
	corners := make([]Vertex, 0, 8)
	for _, x := range [2]float32{local.Min[0], local.Max[0]} {
		for _, y := range [2]float32{local.Min[1], local.Max[1]} {
			for _, z := range [2]float32{local.Min[2], local.Max[2]} {
				corners = append(corners, Vertex{Position: t.world.TransformPoint([3]float32{x, y, z})})
			}
		}
	}
	return computeBounds(corners)
}

// Grid returns the height grid backing the terrain.
func (t *Terrain) Grid() *HeightGrid { return t.grid }

// Width returns the number of samples along grid X.
func (t *Terrain) Width() int { return t.grid.width }

// Depth returns the number of samples along grid Z.
func (t *Terrain) Depth() int { return t.grid.depth }

// World returns the placement transform.
func (t *Terrain) World() math.Mat4 { return t.world }

// Split returns the triangle split used by height queries.
func (t *Terrain) Split() Split { return t.split }

// Normals returns the normal generation mode.
func (t *Terrain) Normals() Normals { return t.normals }

// TextureTileSize returns the number of grid cells per texture repeat.
func (t *Terrain) TextureTileSize() float32 { return t.tileSize }

// Mesh returns the vertex and strip index data. The slices are shared and
// must not be modified.
func (t *Terrain) Mesh() *Mesh { return &t.mesh }

// Bounds returns the world-space bounding box of the mesh.
func (t *Terrain) Bounds() Bounds { return t.mesh.Bounds }

// VertexCount returns the number of vertices (width * depth).
func (t *Terrain) VertexCount() int { return len(t.mesh.Vertices) }

// IndexCount returns the strip length, width * 2 * (depth - 1).
func (t *Terrain) IndexCount() int { return len(t.mesh.Indices) }

// TriangleCount returns the number of triangles covering the grid quads.
func (t *Terrain) TriangleCount() int { return TriangleCount(t.grid.width, t.grid.depth) }

// IndexFormat returns the narrowest index element type for this mesh.
func (t *Terrain) IndexFormat() IndexFormat { return IndexFormatFor(t.VertexCount()) }

// Indices16 returns the strip indices narrowed to 16 bits.
func (t *Terrain) Indices16() ([]uint16, error) {
	if t.IndexFormat() != IndexUint16 {
		return nil, fmt.Errorf("%w: %d vertices", ErrIndexOverflow, t.VertexCount())
	}
	out := make([]uint16, len(t.mesh.Indices))
	for i, idx := range t.mesh.Indices {
		out[i] = uint16(idx)
	}
	return out, nil
}
