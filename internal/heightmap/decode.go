// Package heightmap loads heightmap images from disk and builds terrains from them.
package heightmap

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
)

var ErrUnknownFormat = errors.New("unknown image format")

// Decode decodes a heightmap image. name is only used to pick the TGA decoder,
// which cannot be sniffed; every other format is detected from its header.
func Decode(r io.Reader, name string) (image.Image, string, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err := DecodeTGA(r)
		return img, "tga", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return img, format, err
}

// Open reads and decodes the heightmap image at path.
func Open(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := Decode(f, path)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, format, nil
}
