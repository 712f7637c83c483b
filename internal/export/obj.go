// Package export writes terrain meshes to interchange formats.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/heightmap-terrain/pkg/terrain"
)

// OBJOptions controls Wavefront OBJ output.
type OBJOptions struct {
	Name       string // object name, "terrain" when empty
	WorldSpace bool   // apply the terrain's world transform to positions and normals
}

// Stats summarizes what was written.
type Stats struct {
	Vertices  int
	Triangles int
}

// WriteOBJ writes the terrain mesh as a Wavefront OBJ, one face per surface
// triangle.
func WriteOBJ(w io.Writer, t *terrain.Terrain, opts OBJOptions) (Stats, error) {
	mesh := t.Mesh()
	name := opts.Name
	if name == "" {
		name = "terrain"
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %dx%d heightmap terrain\n", t.Width(), t.Depth())
	fmt.Fprintf(bw, "o %s\n", name)

	world := t.World()
	normalMat := world.ToMGL().Inv().Transpose().Mat3()
	for _, v := range mesh.Vertices {
		p := v.Position
		n := v.Normal
		if opts.WorldSpace {
			p = world.TransformPoint(p)
			n = normalMat.Mul3x1(mgl32.Vec3(n)).Normalize()
		}
		fmt.Fprintf(bw, "v %g %g %g\n", num(p[0]), num(p[1]), num(p[2]))
		fmt.Fprintf(bw, "vt %g %g\n", num(v.TexCoord[0]), num(v.TexCoord[1]))
		fmt.Fprintf(bw, "vn %g %g %g\n", num(n[0]), num(n[1]), num(n[2]))
	}

	stats := Stats{Vertices: len(mesh.Vertices)}
	for _, tri := range mesh.Triangles() {
		// OBJ indices start at 1
		a, b, c := tri[0]+1, tri[1]+1, tri[2]+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		stats.Triangles++
	}

	return stats, bw.Flush()
}

// WriteOBJFile writes the OBJ to path.
func WriteOBJFile(path string, t *terrain.Terrain, opts OBJOptions) (Stats, error) {
	f, err := os.Create(path)
	if err != nil {
		return Stats{}, err
	}
	stats, err := WriteOBJ(f, t, opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return stats, err
}

// num folds negative zero, which the -Z row layout produces on the first row.
func num(v float32) float32 {
	if v == 0 {
		return 0
	}
	return v
}
