package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Screenshot reads the current framebuffer and saves it as a timestamped PNG
// in dir. It returns the written path.
func Screenshot(dir string, width, height int) (string, error) {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	img, err := flipRows(pixels, width, height)
	if err != nil {
		return "", err
	}
	return savePNG(dir, img, time.Now())
}

// flipRows copies bottom-up GL pixels into a top-down image.
func flipRows(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := range height {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

func savePNG(dir string, img image.Image, at time.Time) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	path := filepath.Join(dir, fmt.Sprintf("terrain_%s.png", at.Format("2006-01-02_15-04-05")))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return path, nil
}
