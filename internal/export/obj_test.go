package export

import (
	"bufio"
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/heightmap-terrain/pkg/math"
	"github.com/Faultbox/heightmap-terrain/pkg/terrain"
)

func buildTerrain(t *testing.T, w, d int, world math.Mat4) *terrain.Terrain {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, d))
	for y := range d {
		for x := range w {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 20)})
		}
	}
	opts := terrain.DefaultOptions(256)
	opts.World = world
	tr, err := terrain.NewFromImage(img, opts)
	if err != nil {
		t.Fatalf("NewFromImage failed: %v", err)
	}
	return tr
}

// countLines returns the number of lines starting with each OBJ keyword.
func countLines(t *testing.T, data []byte) map[string]int {
	t.Helper()
	counts := make(map[string]int)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) > 0 {
			counts[fields[0]]++
		}
	}
	return counts
}

func TestWriteOBJ_Counts(t *testing.T) {
	tr := buildTerrain(t, 4, 3, math.Identity())

	var buf bytes.Buffer
	stats, err := WriteOBJ(&buf, tr, OBJOptions{})
	if err != nil {
		t.Fatalf("WriteOBJ failed: %v", err)
	}

	// Every cell yields two faces; row-turn triangles are skipped.
	wantTris := 2 * (4 - 1) * (3 - 1)
	if stats.Vertices != 12 || stats.Triangles != wantTris {
		t.Errorf("stats = %+v, want 12 vertices and %d triangles", stats, wantTris)
	}

	counts := countLines(t, buf.Bytes())
	if counts["v"] != 12 || counts["vt"] != 12 || counts["vn"] != 12 {
		t.Errorf("attribute lines = %v", counts)
	}
	if counts["f"] != wantTris {
		t.Errorf("face lines = %d, want %d", counts["f"], wantTris)
	}
	if counts["o"] != 1 || !strings.Contains(buf.String(), "o terrain\n") {
		t.Error("expected default object name")
	}
}

func TestWriteOBJ_FirstVertex(t *testing.T) {
	tr := buildTerrain(t, 3, 3, math.Identity())

	var buf bytes.Buffer
	if _, err := WriteOBJ(&buf, tr, OBJOptions{Name: "hill"}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	// comment, object, then the first vertex at grid (0, 0)
	if lines[1] != "o hill" {
		t.Errorf("object line = %q", lines[1])
	}
	if lines[2] != "v 0 0 0" {
		t.Errorf("first vertex = %q, want %q", lines[2], "v 0 0 0")
	}
	if lines[4] != "vn 0 1 0" {
		t.Errorf("first normal = %q, want %q", lines[4], "vn 0 1 0")
	}
}

func TestWriteOBJ_WorldSpace(t *testing.T) {
	tr := buildTerrain(t, 3, 3, math.Translate(100, 5, 0))

	var local, world bytes.Buffer
	if _, err := WriteOBJ(&local, tr, OBJOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteOBJ(&world, tr, OBJOptions{WorldSpace: true}); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(local.String(), "\nv 0 0 0\n") {
		t.Error("local output should keep grid positions")
	}
	if !strings.Contains(world.String(), "\nv 100 5 0\n") {
		t.Error("world output should apply the translation")
	}
	// Translation leaves normals unchanged
	if !strings.Contains(world.String(), "\nvn 0 1 0\n") {
		t.Error("world normals should stay up under translation")
	}
}

func TestWriteOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terrain.obj")
	stats, err := WriteOBJFile(path, buildTerrain(t, 2, 2, math.Identity()), OBJOptions{})
	if err != nil {
		t.Fatalf("WriteOBJFile failed: %v", err)
	}
	if stats.Triangles != 2 {
		t.Errorf("Triangles = %d, want 2", stats.Triangles)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if countLines(t, data)["f"] != 2 {
		t.Error("expected two faces on disk")
	}
}
