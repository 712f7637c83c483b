// Package camera provides the viewer's first-person camera.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ground reports the world-space surface height under a position.
// ok is false where there is no surface.
type Ground interface {
	WorldHeightAt(x, z float32) (y float32, ok bool)
}

// WalkCamera is a first-person camera that stays EyeHeight above the ground
// while it is over the terrain and keeps its last height elsewhere.
type WalkCamera struct {
	Position mgl32.Vec3

	Yaw   float32 // radians, 0 looks down -Z
	Pitch float32 // radians, positive looks up

	EyeHeight   float32
	MoveSpeed   float32 // world units per second
	Sensitivity float32 // radians per mouse pixel

	FOV       float32 // vertical, radians
	NearPlane float32
	FarPlane  float32

	ground Ground
}

const maxPitch = gomath.Pi/2 - 0.01

// NewWalkCamera creates a camera at position following ground, which may be nil.
func NewWalkCamera(position mgl32.Vec3, ground Ground) *WalkCamera {
	c := &WalkCamera{
		Position:    position,
		EyeHeight:   2,
		MoveSpeed:   20,
		Sensitivity: 0.003,
		FOV:         mgl32.DegToRad(60),
		NearPlane:   0.1,
		FarPlane:    5000,
		ground:      ground,
	}
	c.clampToGround()
	return c
}

// SetGround replaces the surface the camera walks on.
func (c *WalkCamera) SetGround(g Ground) {
	c.ground = g
	c.clampToGround()
}

// Forward returns the horizontal unit view direction.
func (c *WalkCamera) Forward() mgl32.Vec3 {
	s, co := sincos(c.Yaw)
	return mgl32.Vec3{s, 0, -co}
}

// Right returns the horizontal unit direction to the right of the view.
func (c *WalkCamera) Right() mgl32.Vec3 {
	s, co := sincos(c.Yaw)
	return mgl32.Vec3{co, 0, s}
}

// Look returns the unit view direction including pitch.
func (c *WalkCamera) Look() mgl32.Vec3 {
	ps, pc := sincos(c.Pitch)
	return c.Forward().Mul(pc).Add(mgl32.Vec3{0, ps, 0})
}

// Move walks the camera. forward and right are in [-1, 1]; dt is in seconds.
func (c *WalkCamera) Move(forward, right, dt float32) {
	dir := c.Forward().Mul(forward).Add(c.Right().Mul(right))
	if l := dir.Len(); l > 1 {
		dir = dir.Mul(1 / l)
	}
	c.Position = c.Position.Add(dir.Mul(c.MoveSpeed * dt))
	c.clampToGround()
}

// Turn applies a mouse delta in pixels.
func (c *WalkCamera) Turn(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -maxPitch, maxPitch)
}

func (c *WalkCamera) clampToGround() {
	if c.ground == nil {
		return
	}
	if y, ok := c.ground.WorldHeightAt(c.Position[0], c.Position[2]); ok {
		c.Position[1] = y + c.EyeHeight
	}
}

// ViewMatrix returns the world-to-camera matrix.
func (c *WalkCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Look()), mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns a perspective projection for the given aspect ratio.
func (c *WalkCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, aspect, c.NearPlane, c.FarPlane)
}

func sincos(a float32) (float32, float32) {
	s, co := gomath.Sincos(float64(a))
	return float32(s), float32(co)
}
