package terrain

import gomath "math"

var up = [3]float32{0, 1, 0}

// BuildVertices creates one vertex per grid sample, z outer and x inner.
// Grid z maps to world -Z; HeightAt undoes the same flip.
func BuildVertices(grid *HeightGrid, tileSize float32, normals Normals) []Vertex {
	if tileSize <= 0 {
		tileSize = DefaultTextureTileSize
	}

	vertices := make([]Vertex, grid.width*grid.depth)

	i := 0
	for z := range grid.depth {
		for x := range grid.width {
			n := up
			if normals == NormalsSmooth {
				n = grid.normalAt(x, z)
			}
			vertices[i] = Vertex{
				Position: [3]float32{float32(x), grid.altitudes[x][z], -float32(z)},
				Normal:   n,
				TexCoord: [2]float32{float32(x) / tileSize, float32(z) / tileSize},
			}
			i++
		}
	}

	return vertices
}

// normalAt estimates the surface normal from central differences, falling back
// to one-sided differences on the border.
func (g *HeightGrid) normalAt(x, z int) [3]float32 {
	x0, x1 := max(x-1, 0), min(x+1, g.width-1)
	z0, z1 := max(z-1, 0), min(z+1, g.depth-1)

	dhdx := (g.altitudes[x1][z] - g.altitudes[x0][z]) / float32(x1-x0)
	dhdz := (g.altitudes[x][z1] - g.altitudes[x][z0]) / float32(z1-z0)

	// World Z runs opposite to grid z, so the slope along world Z is -dhdz.
	return normalize([3]float32{-dhdx, 1, dhdz})
}

// BuildIndices creates a single triangle strip covering a width x depth grid.
// Rows are swept alternately left-to-right and right-to-left so the strip never
// has to restart between rows.
func BuildIndices(width, depth int) []uint32 {
	if width < 2 || depth < 2 {
		return nil
	}

	indices := make([]uint32, IndexCount(width, depth))

	i := 0
	z := 0
	for z < depth-1 {
		for x := 0; x < width; x++ {
			indices[i] = uint32(x + z*width)
			indices[i+1] = uint32(x + (z+1)*width)
			i += 2
		}
		z++
		if z < depth-1 {
			for x := width - 1; x >= 0; x-- {
				indices[i] = uint32(x + (z+1)*width)
				indices[i+1] = uint32(x + z*width)
				i += 2
			}
		}
		z++
	}

	return indices
}

// IndexCount returns the strip length for a width x depth grid. This is the
// primitive count a triangle-strip draw call expects, not a triangle tally.
func IndexCount(width, depth int) int {
	return width * 2 * (depth - 1)
}

// TriangleCount returns the number of non-degenerate triangles covering the grid.
func TriangleCount(width, depth int) int {
	return (width - 1) * (depth - 1) * 2
}

// IndexFormatFor returns the narrowest index type that can address vertexCount vertices.
func IndexFormatFor(vertexCount int) IndexFormat {
	if vertexCount <= gomath.MaxUint16+1 {
		return IndexUint16
	}
	return IndexUint32
}

// StripTriangles expands strip indices into individual triangles with a
// consistent winding. Triangles that repeat a vertex are dropped. The
// collinear triangles a serpentine strip forms where it turns at a row end are
// kept; use Mesh.Triangles to get only the faces of the surface.
func StripTriangles(indices []uint32) [][3]uint32 {
	if len(indices) < 3 {
		return nil
	}

	tris := make([][3]uint32, 0, len(indices)-2)
	for i := 0; i+2 < len(indices); i++ {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a == b || b == c || a == c {
			continue
		}
		// Every odd triangle in a strip is wound the other way.
		if i%2 == 1 {
			a, b = b, a
		}
		tris = append(tris, [3]uint32{a, b, c})
	}
	return tris
}

// Triangles returns the faces of the surface: the strip's triangles without
// those whose (x, z) footprint has no area.
func (m *Mesh) Triangles() [][3]uint32 {
	tris := StripTriangles(m.Indices)
	faces := tris[:0]
	for _, tri := range tris {
		a, b, c := m.Vertices[tri[0]].Position, m.Vertices[tri[1]].Position, m.Vertices[tri[2]].Position
		if (b[0]-a[0])*(c[2]-a[2])-(b[2]-a[2])*(c[0]-a[0]) == 0 {
			continue
		}
		faces = append(faces, tri)
	}
	return faces
}

func computeBounds(vertices []Vertex) Bounds {
	b := Bounds{
		Min: [3]float32{gomath.MaxFloat32, gomath.MaxFloat32, gomath.MaxFloat32},
		Max: [3]float32{-gomath.MaxFloat32, -gomath.MaxFloat32, -gomath.MaxFloat32},
	}
	for i := range vertices {
		p := vertices[i].Position
		for k := range 3 {
			b.Min[k] = min(b.Min[k], p[k])
			b.Max[k] = max(b.Max[k], p[k])
		}
	}
	return b
}

func normalize(v [3]float32) [3]float32 {
	l := float32(gomath.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if l < 0.0001 {
		return up
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
