// Package terrain builds a renderable triangle-strip surface from a grayscale
// heightmap and answers elevation queries against it.
package terrain

import (
	"errors"

	"github.com/Faultbox/heightmap-terrain/pkg/math"
)

var (
	ErrInvalidDimensions      = errors.New("heightmap must be at least 2x2 samples")
	ErrNonInvertibleTransform = errors.New("world transform is not invertible")
	ErrInvalidOptions         = errors.New("invalid terrain options")
	ErrIndexOverflow          = errors.New("vertex count exceeds 16-bit index range")
)

// DefaultTextureTileSize is the number of grid cells covered by one texture repeat.
const DefaultTextureTileSize = 50

// HeightMap reports the elevation of a surface at a 2D point.
// Points outside the surface report 0.
type HeightMap interface {
	HeightAt(x, z float32) float32
}

// Vertex represents a terrain mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Mesh holds vertex and strip index data ready for GPU upload.
// Indices must be drawn as a triangle strip.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds // world space
}

// Split selects how a grid cell is divided into two triangles by the height query.
type Split int

const (
	// SplitQuadrant picks the lower-left triangle only when both fractions are
	// below 0.5. The surface has a seam along fx=0.5 and fy=0.5 where it
	// departs from the rendered triangles.
	SplitQuadrant Split = iota
	// SplitDiagonal picks the lower-left triangle when fx+fy < 1, which matches
	// the rendered triangles exactly.
	SplitDiagonal
)

func (s Split) String() string {
	switch s {
	case SplitQuadrant:
		return "quadrant"
	case SplitDiagonal:
		return "diagonal"
	default:
		return "unknown"
	}
}

// Normals selects how vertex normals are generated.
type Normals int

const (
	// NormalsFlat points every normal straight up.
	NormalsFlat Normals = iota
	// NormalsSmooth derives normals from neighbouring heights.
	NormalsSmooth
)

func (n Normals) String() string {
	switch n {
	case NormalsFlat:
		return "flat"
	case NormalsSmooth:
		return "smooth"
	default:
		return "unknown"
	}
}

// IndexFormat is the narrowest index element type able to address every vertex.
type IndexFormat int

const (
	IndexUint16 IndexFormat = iota
	IndexUint32
)

// Options configures terrain construction. All values are fixed once the
// terrain is built.
type Options struct {
	HeightScale     float32   // elevation of a full-intensity sample is HeightScale*255/256
	TextureTileSize float32   // grid cells per texture repeat; 0 means DefaultTextureTileSize
	World           math.Mat4 // placement of the mesh; the zero matrix means identity
	Split           Split
	Normals         Normals
}

// DefaultOptions returns options with identity placement and legacy query behaviour.
func DefaultOptions(heightScale float32) Options {
	return Options{
		HeightScale:     heightScale,
		TextureTileSize: DefaultTextureTileSize,
		World:           math.Identity(),
		Split:           SplitQuadrant,
		Normals:         NormalsFlat,
	}
}

// Sample is the tagged outcome of a height query.
type Sample struct {
	GridX, GridZ float32 // query position in grid space
	Height       float32 // grid elevation; 0 when out of bounds
	InBounds     bool
}
