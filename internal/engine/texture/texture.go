// Package texture prepares ground images for GPU upload.
package texture

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/Faultbox/heightmap-terrain/internal/heightmap"
)

// MaxSize is the largest edge length uploaded without downscaling.
const MaxSize = 4096

// ToRGBA converts any image to a tightly packed *image.RGBA with its origin at
// (0, 0). Images larger than maxSize on either edge are scaled down to fit.
func ToRGBA(img image.Image, maxSize int) *image.RGBA {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()

	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			w, h = maxSize, max(1, h*maxSize/w)
		} else {
			w, h = max(1, w*maxSize/h), maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && src.Min == (image.Point{}) && rgba.Stride == 4*w {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	return dst
}

// Load reads a ground texture from disk in any format the heightmap loader
// understands.
func Load(path string) (*image.RGBA, error) {
	img, _, err := heightmap.Open(path)
	if err != nil {
		return nil, err
	}
	return ToRGBA(img, MaxSize), nil
}

// Checker returns a size x size checkerboard with cells x cells squares.
// The viewer uses it when no ground texture is configured.
func Checker(size, cells int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(1, size/max(1, cells))
	for y := range size {
		for x := range size {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
