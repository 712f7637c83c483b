package render

import (
	"image"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/heightmap-terrain/pkg/terrain"
)

func buildTerrain(t *testing.T, w, d int) *terrain.Terrain {
	t.Helper()
	tr, err := terrain.NewFromImage(image.NewGray(image.Rect(0, 0, w, d)), terrain.DefaultOptions(64))
	if err != nil {
		t.Fatalf("NewFromImage failed: %v", err)
	}
	return tr
}

func TestNewIndexBuffer_Uint16(t *testing.T) {
	buf, err := newIndexBuffer(buildTerrain(t, 8, 8))
	if err != nil {
		t.Fatalf("newIndexBuffer failed: %v", err)
	}
	if buf.glType != gl.UNSIGNED_SHORT {
		t.Errorf("glType = %#x, want UNSIGNED_SHORT", buf.glType)
	}
	want := terrain.IndexCount(8, 8)
	if int(buf.count) != want || buf.bytes != want*2 {
		t.Errorf("count=%d bytes=%d, want %d and %d", buf.count, buf.bytes, want, want*2)
	}
}

func TestNewIndexBuffer_Uint32(t *testing.T) {
	// 300x300 = 90000 vertices needs 32-bit indices
	buf, err := newIndexBuffer(buildTerrain(t, 300, 300))
	if err != nil {
		t.Fatalf("newIndexBuffer failed: %v", err)
	}
	if buf.glType != gl.UNSIGNED_INT {
		t.Errorf("glType = %#x, want UNSIGNED_INT", buf.glType)
	}
	if buf.bytes != int(buf.count)*4 {
		t.Errorf("bytes = %d, want %d", buf.bytes, buf.count*4)
	}
}

func TestDefaultLighting(t *testing.T) {
	l := DefaultLighting()
	if n := l.LightDir.Len(); n < 0.999 || n > 1.001 {
		t.Errorf("LightDir length = %f, want 1", n)
	}
	if l.FogNear >= l.FogFar {
		t.Errorf("fog range [%f, %f] is empty", l.FogNear, l.FogFar)
	}
}
