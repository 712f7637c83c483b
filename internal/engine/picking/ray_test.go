package picking

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/heightmap-terrain/pkg/terrain"
)

func flatTerrain(t *testing.T, size int, v uint8) *terrain.Terrain {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	tr, err := terrain.NewFromImage(img, terrain.DefaultOptions(256))
	if err != nil {
		t.Fatalf("NewFromImage failed: %v", err)
	}
	return tr
}

func TestIntersectBounds(t *testing.T) {
	b := terrain.Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{10, 10, 10}}

	tests := []struct {
		name string
		ray  Ray
		hit  bool
		tmin float32
		tmax float32
	}{
		{"hit from outside", Ray{mgl32.Vec3{-5, 5, 5}, mgl32.Vec3{1, 0, 0}}, true, 5, 15},
		{"start inside", Ray{mgl32.Vec3{5, 5, 5}, mgl32.Vec3{0, -1, 0}}, true, 0, 5},
		{"pointing away", Ray{mgl32.Vec3{-5, 5, 5}, mgl32.Vec3{-1, 0, 0}}, false, 0, 0},
		{"parallel outside", Ray{mgl32.Vec3{5, 20, 5}, mgl32.Vec3{1, 0, 0}}, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmin, tmax, hit := tt.ray.IntersectBounds(b)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && (tmin != tt.tmin || tmax != tt.tmax) {
				t.Errorf("t = [%v, %v], want [%v, %v]", tmin, tmax, tt.tmin, tt.tmax)
			}
		})
	}
}

func TestPickTerrain_StraightDown(t *testing.T) {
	tr := flatTerrain(t, 8, 40)
	ray := Ray{Origin: mgl32.Vec3{3, 100, -3}, Direction: mgl32.Vec3{0, -1, 0}}

	p, ok := PickTerrain(ray, tr, tr.Bounds(), 0.5)
	if !ok {
		t.Fatal("expected a hit")
	}
	if !mgl32.FloatEqualThreshold(p[1], 40, 1e-3) {
		t.Errorf("hit Y = %f, want 40", p[1])
	}
}

func TestPickTerrain_Slanted(t *testing.T) {
	tr := flatTerrain(t, 16, 10)
	// Descends one unit per unit travelled in +X
	dir := mgl32.Vec3{1, -1, 0}.Normalize()
	ray := Ray{Origin: mgl32.Vec3{1, 15, -4}, Direction: dir}

	p, ok := PickTerrain(ray, tr, tr.Bounds(), 0.25)
	if !ok {
		t.Fatal("expected a hit")
	}
	if !mgl32.FloatEqualThreshold(p[0], 6, 1e-2) || !mgl32.FloatEqualThreshold(p[1], 10, 1e-2) {
		t.Errorf("hit = %v, want x=6 y=10", p)
	}
}

func TestPickTerrain_Miss(t *testing.T) {
	tr := flatTerrain(t, 8, 40)

	// Flies over the terrain
	up := Ray{Origin: mgl32.Vec3{0, 50, -3}, Direction: mgl32.Vec3{1, 0, 0}}
	if _, ok := PickTerrain(up, tr, tr.Bounds(), 0.5); ok {
		t.Error("ray above the surface should miss")
	}

	if _, ok := PickTerrain(up, tr, tr.Bounds(), 0); ok {
		t.Error("non-positive step should miss")
	}
}

func TestScreenToRay_Center(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1})
	inv := proj.Mul4(view).Inv()

	ray := ScreenToRay(50, 50, 100, 100, inv)
	if !ray.Direction.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-4) {
		t.Errorf("Direction = %v, want straight down", ray.Direction)
	}
}
