package terrain

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/heightmap-terrain/pkg/math"
)

func mustTerrain(t *testing.T, g *HeightGrid, opts Options) *Terrain {
	t.Helper()
	tr, err := New(g, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tr
}

func TestTerrain_Counts(t *testing.T) {
	for _, s := range stripSizes {
		w, d := s[0], s[1]
		tr := mustTerrain(t, mustGrid(t, uniformImage(w, d, 9), 1), DefaultOptions(1))

		if tr.VertexCount() != w*d {
			t.Errorf("%dx%d: expected %d vertices, got %d", w, d, w*d, tr.VertexCount())
		}
		if tr.IndexCount() != w*2*(d-1) {
			t.Errorf("%dx%d: expected %d indices, got %d", w, d, w*2*(d-1), tr.IndexCount())
		}
		if tr.TriangleCount() != (w-1)*(d-1)*2 {
			t.Errorf("%dx%d: expected %d triangles, got %d", w, d, (w-1)*(d-1)*2, tr.TriangleCount())
		}
	}
}

func TestTerrain_FlatPlane(t *testing.T) {
	tr := mustTerrain(t, mustGrid(t, uniformImage(4, 4, 128), 256), DefaultOptions(256))

	// Queryable grid area is [0, 2) x [0, 2); world Z is negated grid z.
	points := [][2]float32{{0, 0}, {0.3, -0.7}, {1.5, -1.5}, {1.99, -0.01}, {0.49, -1.51}}
	for _, p := range points {
		if h := tr.HeightAt(p[0], p[1]); h != 128 {
			t.Errorf("HeightAt(%v, %v): got %f, want 128", p[0], p[1], h)
		}
	}
}

// quadrantSeamGrid is a 3x3 grid with only sample (1,0) raised to 255.
func quadrantSeamGrid(t *testing.T) *HeightGrid {
	return mustGrid(t, grayImage(3, 3, func(x, y int) uint8 {
		if x == 1 && y == 0 {
			return 255
		}
		return 0
	}), 256)
}

func TestTerrain_QuadrantSplit(t *testing.T) {
	g := quadrantSeamGrid(t)
	if g.Elevation(0, 0) != 0 || g.Elevation(1, 0) != 255 {
		t.Fatalf("unexpected corner elevations %f, %f", g.Elevation(0, 0), g.Elevation(1, 0))
	}

	tr := mustTerrain(t, g, DefaultOptions(256))

	// fx = 0.5 fails the quadrant test, so the upper-right plane anchored at
	// (1,1) is used: 0 + 0.5*(0-0) + 1*(255-0).
	if h := tr.HeightAt(0.5, 0); h != 255 {
		t.Errorf("HeightAt(0.5, 0): got %f, want 255", h)
	}

	// Just below the seam the lower-left plane applies.
	if h := tr.HeightAt(0.25, 0); h != 63.75 {
		t.Errorf("HeightAt(0.25, 0): got %f, want 63.75", h)
	}
}

func TestTerrain_DiagonalSplit(t *testing.T) {
	opts := DefaultOptions(256)
	opts.Split = SplitDiagonal
	tr := mustTerrain(t, quadrantSeamGrid(t), opts)

	if h := tr.HeightAt(0.5, 0); h != 127.5 {
		t.Errorf("HeightAt(0.5, 0): got %f, want 127.5", h)
	}
	// fx+fy = 1.2 lands in the upper-right triangle: 0 + 0.4*(0-0) + 0.4*(255-0).
	if h := tr.HeightAt(0.6, -0.6); abs32(h-102) > 1e-3 {
		t.Errorf("HeightAt(0.6, -0.6): got %f, want 102", h)
	}
}

func TestTerrain_OutOfBoundsSentinel(t *testing.T) {
	tr := mustTerrain(t, mustGrid(t, uniformImage(6, 5, 200), 256), DefaultOptions(256))

	points := [][2]float32{
		{-0.01, -1},          // tx < 0
		{1, 0.5},             // ty < 0
		{4, -1},              // tx == width-2
		{4.5, -1},            // tx > width-2
		{1, -3},              // ty == depth-2
		{100, -100},          // far away
		{float32(gomath.NaN()), -1},
	}
	for _, p := range points {
		if h := tr.HeightAt(p[0], p[1]); h != 0 {
			t.Errorf("HeightAt(%v, %v): got %f, want 0", p[0], p[1], h)
		}
		if s := tr.Sample(p[0], p[1]); s.InBounds || s.Height != 0 {
			t.Errorf("Sample(%v, %v): got %+v, want out of bounds", p[0], p[1], s)
		}
	}

	if s := tr.Sample(3.99, -2.99); !s.InBounds || s.Height != 200 {
		t.Errorf("Sample near the upper bound: got %+v", s)
	}
}

func TestTerrain_MinimalGridHasNoQueryableArea(t *testing.T) {
	tr := mustTerrain(t, mustGrid(t, uniformImage(2, 2, 255), 256), DefaultOptions(256))

	if tr.IndexCount() != 4 {
		t.Errorf("expected 4 indices, got %d", tr.IndexCount())
	}
	if s := tr.Sample(0, 0); s.InBounds {
		t.Errorf("2x2 grid should have no queryable area, got %+v", s)
	}
}

func TestTerrain_VertexRoundTrip(t *testing.T) {
	img := grayImage(8, 6, func(x, y int) uint8 { return uint8((x*37 + y*23) % 256) })
	g := mustGrid(t, img, 1)

	transforms := map[string]math.Mat4{
		"identity":  math.Identity(),
		"translate": math.Translate(12, 3, -7),
		"rotate":    math.RotateY(float32(gomath.Pi / 3)),
		"scale":     math.Scale(2, 1.5, 0.5),
		"combined":  math.Translate(-5, 2, 9).Mul(math.RotateY(0.4)).Mul(math.Scale(1.5, 1, 1.5)),
	}

	for name, world := range transforms {
		t.Run(name, func(t *testing.T) {
			opts := DefaultOptions(1)
			opts.World = world
			tr := mustTerrain(t, g, opts)
			vertices := tr.Mesh().Vertices

			// Interior vertices only: vertices on the grid border sit exactly on
			// the bounds check and rounding may push them outside.
			for z := 1; z <= g.Depth()-3; z++ {
				for x := 1; x <= g.Width()-3; x++ {
					p := world.TransformPoint(vertices[x+z*g.Width()].Position)

					got := tr.HeightAt(p[0], p[2])
					want := g.Elevation(x, z)
					if abs32(got-want) > 1e-4 {
						t.Errorf("vertex (%d,%d): HeightAt got %f, want %f", x, z, got, want)
					}

					wy, ok := tr.WorldHeightAt(p[0], p[2])
					if !ok || abs32(wy-p[1]) > 1e-4 {
						t.Errorf("vertex (%d,%d): WorldHeightAt got %f (%v), want %f", x, z, wy, ok, p[1])
					}
				}
			}
		})
	}
}

func TestTerrain_ToGrid(t *testing.T) {
	opts := DefaultOptions(1)
	opts.World = math.Translate(10, 0, 20)
	tr := mustTerrain(t, mustGrid(t, uniformImage(4, 4, 0), 1), opts)

	gx, gz := tr.ToGrid(11.5, 18)
	if gx != 1.5 || gz != 2 {
		t.Errorf("ToGrid: got (%f, %f), want (1.5, 2)", gx, gz)
	}
}

func TestNew_NonInvertibleTransform(t *testing.T) {
	opts := DefaultOptions(1)
	opts.World = math.Scale(0, 1, 1)

	_, err := New(mustGrid(t, uniformImage(3, 3, 0), 1), opts)
	if !errors.Is(err, ErrNonInvertibleTransform) {
		t.Errorf("expected ErrNonInvertibleTransform, got %v", err)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	g := mustGrid(t, uniformImage(3, 3, 0), 1)

	tests := []struct {
		name string
		mod  func(*Options)
	}{
		{"negative tile size", func(o *Options) { o.TextureTileSize = -1 }},
		{"unknown split", func(o *Options) { o.Split = Split(7) }},
		{"unknown normals", func(o *Options) { o.Normals = Normals(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions(1)
			tt.mod(&opts)
			if _, err := New(g, opts); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}

	if _, err := New(nil, DefaultOptions(1)); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("nil grid: expected ErrInvalidOptions, got %v", err)
	}
}

func TestNew_ZeroWorldIsIdentity(t *testing.T) {
	tr := mustTerrain(t, mustGrid(t, uniformImage(3, 3, 0), 1), Options{HeightScale: 1})

	if tr.World() != math.Identity() {
		t.Errorf("expected identity world, got %v", tr.World())
	}
	if tr.TextureTileSize() != DefaultTextureTileSize {
		t.Errorf("expected default tile size, got %f", tr.TextureTileSize())
	}
}

func TestNewFromImage(t *testing.T) {
	tr, err := NewFromImage(uniformImage(5, 4, 64), DefaultOptions(512))
	if err != nil {
		t.Fatalf("NewFromImage failed: %v", err)
	}
	if tr.Width() != 5 || tr.Depth() != 4 {
		t.Errorf("expected 5x4 terrain, got %dx%d", tr.Width(), tr.Depth())
	}
	if h := tr.HeightAt(1, -1); h != 128 {
		t.Errorf("HeightAt: got %f, want 128", h)
	}

	if _, err := NewFromImage(uniformImage(1, 4, 64), DefaultOptions(1)); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestTerrain_Bounds(t *testing.T) {
	img := grayImage(4, 3, func(x, y int) uint8 { return uint8(x * 50) })
	opts := DefaultOptions(256)
	opts.World = math.Translate(10, 1, 0)
	tr := mustTerrain(t, mustGrid(t, img, 256), opts)

	b := tr.Bounds()
	wantMin := [3]float32{10, 1, -2}
	wantMax := [3]float32{13, 151, 0}
	if b.Min != wantMin || b.Max != wantMax {
		t.Errorf("Bounds: got %v-%v, want %v-%v", b.Min, b.Max, wantMin, wantMax)
	}
}
