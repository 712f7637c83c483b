package heightmap

import (
	"errors"
	"fmt"
	"image"
	"io"
)

// TGA image types.
const (
	tgaTypeTrueColor    = 2
	tgaTypeGray         = 3
	tgaTypeTrueColorRLE = 10
	tgaTypeGrayRLE      = 11
)

var ErrUnsupportedTGA = errors.New("unsupported TGA")

// DecodeTGA decodes an uncompressed or RLE TGA image.
// 8-bit grayscale images (types 3 and 11), the usual heightmap export, decode
// to *image.Gray; 24/32-bit true-color images (types 2 and 10) to *image.NRGBA.
func DecodeTGA(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < 18 {
		return nil, fmt.Errorf("%w: header truncated", ErrUnsupportedTGA)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped images", ErrUnsupportedTGA)
	}

	gray := imageType == tgaTypeGray || imageType == tgaTypeGrayRLE
	rle := imageType == tgaTypeTrueColorRLE || imageType == tgaTypeGrayRLE
	switch {
	case gray && bpp != 8:
		return nil, fmt.Errorf("%w: grayscale bit depth %d", ErrUnsupportedTGA, bpp)
	case !gray && imageType != tgaTypeTrueColor && imageType != tgaTypeTrueColorRLE:
		return nil, fmt.Errorf("%w: image type %d", ErrUnsupportedTGA, imageType)
	case !gray && bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("%w: true-color bit depth %d", ErrUnsupportedTGA, bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: data truncated", ErrUnsupportedTGA)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrUnsupportedTGA, width, height)
	}

	// Check the header against the payload before allocating the image.
	payload := len(data) - offset
	pixels := width * height
	srcBPP := bpp / 8
	if rle {
		// One packet of srcBPP+1 bytes expands to at most 128 pixels.
		if pixels > 128*(payload/(srcBPP+1)) {
			return nil, fmt.Errorf("%w: %dx%d exceeds RLE payload of %d bytes", ErrUnsupportedTGA, width, height, payload)
		}
	} else if payload < pixels*srcBPP {
		return nil, fmt.Errorf("%w: pixel data truncated", ErrUnsupportedTGA)
	}

	dst := newTGAImage(width, height, srcBPP, gray, descriptor&0x20 != 0)
	if rle {
		err = dst.readRLE(data[offset:])
	} else {
		err = dst.readRaw(data[offset:])
	}
	if err != nil {
		return nil, err
	}
	return dst.img, nil
}

// tgaImage writes decoded pixels in file order into a top-down image.
type tgaImage struct {
	img         image.Image
	pix         []byte
	width       int
	height      int
	srcBPP      int // bytes per pixel in the file
	dstBPP      int // bytes per pixel in pix
	topToBottom bool
}

func newTGAImage(width, height, srcBPP int, gray, topToBottom bool) *tgaImage {
	t := &tgaImage{width: width, height: height, srcBPP: srcBPP, topToBottom: topToBottom}
	rect := image.Rect(0, 0, width, height)
	if gray {
		g := image.NewGray(rect)
		t.img, t.pix, t.dstBPP = g, g.Pix, 1
	} else {
		n := image.NewNRGBA(rect)
		t.img, t.pix, t.dstBPP = n, n.Pix, 4
	}
	return t
}

// put stores the pixel with file index i. TGA rows are bottom-up unless
// bit 5 of the descriptor is set.
func (t *tgaImage) put(i int, px []byte) {
	x := i % t.width
	y := i / t.width
	if !t.topToBottom {
		y = t.height - 1 - y
	}
	o := (y*t.width + x) * t.dstBPP

	if t.dstBPP == 1 {
		t.pix[o] = px[0]
		return
	}
	// BGR(A) in the file
	t.pix[o] = px[2]
	t.pix[o+1] = px[1]
	t.pix[o+2] = px[0]
	t.pix[o+3] = 255
	if t.srcBPP == 4 {
		t.pix[o+3] = px[3]
	}
}

func (t *tgaImage) readRaw(data []byte) error {
	count := t.width * t.height
	if len(data) < count*t.srcBPP {
		return fmt.Errorf("%w: pixel data truncated", ErrUnsupportedTGA)
	}
	for i := range count {
		t.put(i, data[i*t.srcBPP:])
	}
	return nil
}

func (t *tgaImage) readRLE(data []byte) error {
	count := t.width * t.height
	pixelIdx := 0
	dataIdx := 0

	for pixelIdx < count {
		if dataIdx >= len(data) {
			return fmt.Errorf("%w: RLE data truncated at pixel %d", ErrUnsupportedTGA, pixelIdx)
		}
		packet := data[dataIdx]
		dataIdx++
		n := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run-length packet: one pixel repeated n times
			if dataIdx+t.srcBPP > len(data) {
				return fmt.Errorf("%w: RLE data truncated at pixel %d", ErrUnsupportedTGA, pixelIdx)
			}
			px := data[dataIdx : dataIdx+t.srcBPP]
			dataIdx += t.srcBPP
			for ; n > 0 && pixelIdx < count; n-- {
				t.put(pixelIdx, px)
				pixelIdx++
			}
			continue
		}

		// Raw packet: n literal pixels
		for ; n > 0 && pixelIdx < count; n-- {
			if dataIdx+t.srcBPP > len(data) {
				return fmt.Errorf("%w: RLE data truncated at pixel %d", ErrUnsupportedTGA, pixelIdx)
			}
			t.put(pixelIdx, data[dataIdx:dataIdx+t.srcBPP])
			dataIdx += t.srcBPP
			pixelIdx++
		}
	}
	return nil
}
