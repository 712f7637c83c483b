package terrain

import (
	"fmt"
	"image"
	gomath "math"
)

// Samples is a 2D grid of 8-bit intensity values. Only the red (or gray)
// channel of each pixel contributes to elevation.
type Samples interface {
	Size() (width, height int)
	Red(x, y int) uint8
}

// imageSamples adapts an image.Image to Samples.
type imageSamples struct {
	img image.Image
}

// ImageSamples wraps img so its red channel can be read as height samples.
// Gray images report their luminance.
func ImageSamples(img image.Image) Samples {
	return imageSamples{img: img}
}

func (s imageSamples) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Red returns the stored red byte. The common decoded types are read from Pix
// directly so non-opaque pixels are not alpha-premultiplied.
func (s imageSamples) Red(x, y int) uint8 {
	b := s.img.Bounds()
	px, py := b.Min.X+x, b.Min.Y+y

	switch img := s.img.(type) {
	case *image.Gray:
		return img.Pix[img.PixOffset(px, py)]
	case *image.NRGBA:
		return img.Pix[img.PixOffset(px, py)]
	case *image.RGBA:
		return img.Pix[img.PixOffset(px, py)]
	}

	r, _, _, _ := s.img.At(px, py).RGBA()
	return uint8(r >> 8)
}

// HeightGrid holds elevation samples indexed [x][z]. It is immutable once built.
type HeightGrid struct {
	altitudes   [][]float32
	width       int
	depth       int
	heightScale float32
}

// NewHeightGrid converts intensity samples into elevations:
// elevation = sample * heightScale / 256.
func NewHeightGrid(src Samples, heightScale float32) (*HeightGrid, error) {
	width, depth := src.Size()
	if width < 2 || depth < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, depth)
	}

	scale := heightScale / 256

	altitudes := make([][]float32, width)
	for x := range width {
		altitudes[x] = make([]float32, depth)
	}
	for y := range depth {
		for x := range width {
			altitudes[x][y] = float32(src.Red(x, y)) * scale
		}
	}

	return &HeightGrid{
		altitudes:   altitudes,
		width:       width,
		depth:       depth,
		heightScale: heightScale,
	}, nil
}

// HeightGridFromImage builds a grid from the red channel of img.
func HeightGridFromImage(img image.Image, heightScale float32) (*HeightGrid, error) {
	return NewHeightGrid(ImageSamples(img), heightScale)
}

// Width returns the number of samples along X.
func (g *HeightGrid) Width() int { return g.width }

// Depth returns the number of samples along Z.
func (g *HeightGrid) Depth() int { return g.depth }

// HeightScale returns the scale the grid was built with.
func (g *HeightGrid) HeightScale() float32 { return g.heightScale }

// Elevation returns the stored elevation at integer grid coordinates.
// It panics if x or z is out of range.
func (g *HeightGrid) Elevation(x, z int) float32 {
	return g.altitudes[x][z]
}

// Range returns the lowest and highest stored elevation.
func (g *HeightGrid) Range() (lo, hi float32) {
	lo, hi = g.altitudes[0][0], g.altitudes[0][0]
	for x := range g.width {
		for _, h := range g.altitudes[x] {
			lo = min(lo, h)
			hi = max(hi, h)
		}
	}
	return lo, hi
}

// HeightAt returns the interpolated elevation at grid-space coordinates,
// using the quadrant triangle split. Points outside [0, width-2) x [0, depth-2)
// return 0.
func (g *HeightGrid) HeightAt(x, z float32) float32 {
	h, _ := g.interpolate(x, z, SplitQuadrant)
	return h
}

// interpolate reconstructs the elevation at fractional grid coordinates from
// the triangle of the cell that contains them.
func (g *HeightGrid) interpolate(tx, ty float32, split Split) (float32, bool) {
	if !(tx >= 0 && ty >= 0 && tx < float32(g.width-2) && ty < float32(g.depth-2)) {
		return 0, false
	}

	ix := int(gomath.Floor(float64(tx)))
	iz := int(gomath.Floor(float64(ty)))
	fx := tx - float32(ix)
	fy := ty - float32(iz)

	var lowerLeft bool
	switch split {
	case SplitDiagonal:
		lowerLeft = fx+fy < 1
	default:
		lowerLeft = fx < 0.5 && fy < 0.5
	}

	h01 := g.altitudes[ix][iz+1]
	h10 := g.altitudes[ix+1][iz]

	if lowerLeft {
		h00 := g.altitudes[ix][iz]
		return h00 + fx*(h10-h00) + fy*(h01-h00), true
	}

	h11 := g.altitudes[ix+1][iz+1]
	return h11 + (1-fx)*(h01-h11) + (1-fy)*(h10-h11), true
}
