// Package picking casts rays from the screen onto the terrain surface.
package picking

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/heightmap-terrain/pkg/terrain"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// Surface reports the world-space height of a surface.
type Surface interface {
	WorldHeightAt(x, z float32) (y float32, ok bool)
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, -1}, invViewProj)
	far := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, 1}, invViewProj)

	dir := far.Sub(near)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near, Direction: dir}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectBounds clips the ray against an axis-aligned box and returns the
// entry and exit distances. tmin is 0 when the ray starts inside the box.
func (r Ray) IntersectBounds(b terrain.Bounds) (tmin, tmax float32, hit bool) {
	tmin = 0
	tmax = gomath.MaxFloat32

	for axis := range 3 {
		if r.Direction[axis] == 0 {
			if r.Origin[axis] < b.Min[axis] || r.Origin[axis] > b.Max[axis] {
				return 0, 0, false
			}
			continue
		}
		t1 := (b.Min[axis] - r.Origin[axis]) / r.Direction[axis]
		t2 := (b.Max[axis] - r.Origin[axis]) / r.Direction[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// bisectSteps refines a crossing found by marching.
const bisectSteps = 16

// PickTerrain marches the ray through the terrain bounds in increments of step
// and returns the first point where it passes below the surface.
func PickTerrain(r Ray, s Surface, b terrain.Bounds, step float32) (mgl32.Vec3, bool) {
	if step <= 0 {
		return mgl32.Vec3{}, false
	}
	// A flat terrain has zero-height bounds; pad them so the march has room.
	b.Min[1]--
	b.Max[1]++
	tmin, tmax, hit := r.IntersectBounds(b)
	if !hit {
		return mgl32.Vec3{}, false
	}

	// above reports whether the ray point at t is over the surface. Points off
	// the surface count as above so the march continues past holes.
	above := func(t float32) bool {
		p := r.At(t)
		y, ok := s.WorldHeightAt(p[0], p[2])
		return !ok || p[1] > y
	}

	prev := tmin
	if !above(prev) {
		return r.At(prev), true
	}
	for t := tmin + step; ; t += step {
		t = min(t, tmax)
		if !above(t) {
			lo, hi := prev, t
			for range bisectSteps {
				mid := (lo + hi) / 2
				if above(mid) {
					lo = mid
				} else {
					hi = mid
				}
			}
			return r.At(hi), true
		}
		if t >= tmax {
			return mgl32.Vec3{}, false
		}
		prev = t
	}
}
