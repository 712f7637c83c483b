// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts compass angles to a light direction vector.
// Azimuth is rotation around Y in degrees with 0 towards -Z (north) and 90
// towards +X; elevation is degrees above the horizon.
// Returns a normalized direction vector pointing towards the sun.
func SunDirection(azimuth, elevation float32) mgl32.Vec3 {
	az := float64(azimuth) * math.Pi / 180
	el := float64(elevation) * math.Pi / 180

	return mgl32.Vec3{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(-math.Cos(el) * math.Cos(az)),
	}
}
