package render

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/heightmap-terrain/internal/engine/lighting"
	"github.com/Faultbox/heightmap-terrain/internal/engine/render/shaders"
	"github.com/Faultbox/heightmap-terrain/internal/engine/shader"
	"github.com/Faultbox/heightmap-terrain/internal/logger"
	"github.com/Faultbox/heightmap-terrain/pkg/terrain"
)

// Lighting holds the directional light and fog used by the terrain shader.
type Lighting struct {
	LightDir mgl32.Vec3
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	FogColor mgl32.Vec3
	FogNear  float32
	FogFar   float32
}

// DefaultLighting returns a south-east sun at 45 degrees with distance fog.
func DefaultLighting() Lighting {
	return Lighting{
		LightDir: lighting.SunDirection(135, 45),
		Ambient:  mgl32.Vec3{0.35, 0.35, 0.4},
		Diffuse:  mgl32.Vec3{0.75, 0.7, 0.6},
		FogColor: mgl32.Vec3{0.55, 0.65, 0.75},
		FogNear:  200,
		FogFar:   1500,
	}
}

// TerrainRenderer uploads a terrain mesh and draws it as one triangle strip.
type TerrainRenderer struct {
	program *shader.Program

	vao uint32
	vbo uint32
	ebo uint32
	tex uint32

	indexCount int32
	indexType  uint32
	model      mgl32.Mat4
}

// NewTerrainRenderer compiles the terrain shader.
func NewTerrainRenderer() (*TerrainRenderer, error) {
	program, err := shader.New(shaders.TerrainVertexShader, shaders.TerrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	return &TerrainRenderer{program: program}, nil
}

// indexBuffer holds strip indices in the narrowest type the mesh allows.
type indexBuffer struct {
	data   unsafe.Pointer
	bytes  int
	count  int32
	glType uint32
}

func newIndexBuffer(t *terrain.Terrain) (indexBuffer, error) {
	if t.IndexFormat() == terrain.IndexUint16 {
		idx, err := t.Indices16()
		if err != nil {
			return indexBuffer{}, err
		}
		if len(idx) == 0 {
			return indexBuffer{}, nil
		}
		return indexBuffer{data: unsafe.Pointer(&idx[0]), bytes: len(idx) * 2, count: int32(len(idx)), glType: gl.UNSIGNED_SHORT}, nil
	}

	idx := t.Mesh().Indices
	if len(idx) == 0 {
		return indexBuffer{}, nil
	}
	return indexBuffer{data: unsafe.Pointer(&idx[0]), bytes: len(idx) * 4, count: int32(len(idx)), glType: gl.UNSIGNED_INT}, nil
}

// Load uploads the terrain mesh and its ground texture, replacing any previous
// upload.
func (tr *TerrainRenderer) Load(t *terrain.Terrain, ground *image.RGBA) error {
	tr.clear()

	mesh := t.Mesh()
	indices, err := newIndexBuffer(t)
	if err != nil {
		return err
	}

	gl.GenVertexArrays(1, &tr.vao)
	gl.BindVertexArray(tr.vao)

	gl.GenBuffers(1, &tr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	vertexSize := int(unsafe.Sizeof(terrain.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	if indices.count > 0 {
		gl.GenBuffers(1, &tr.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, indices.bytes, indices.data, gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	tr.indexCount = indices.count
	tr.indexType = indices.glType
	tr.model = t.World().ToMGL()
	tr.tex = uploadTexture(ground)

	logger.Debug("terrain uploaded",
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int32("indices", indices.count),
		zap.Bool("uint16", indices.glType == gl.UNSIGNED_SHORT),
	)
	return nil
}

func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, 8.0)

	return texID
}

// Render draws the terrain.
func (tr *TerrainRenderer) Render(viewProj mgl32.Mat4, cameraPos mgl32.Vec3, light Lighting) {
	if tr.vao == 0 || tr.indexCount == 0 {
		return
	}

	p := tr.program
	p.Use()
	p.SetMat4("uModel", tr.model)
	p.SetMat4("uViewProj", viewProj)
	p.SetVec3("uLightDir", light.LightDir)
	p.SetVec3("uAmbient", light.Ambient)
	p.SetVec3("uDiffuse", light.Diffuse)
	p.SetVec3("uCameraPos", cameraPos)
	p.SetVec3("uFogColor", light.FogColor)
	p.SetFloat("uFogNear", light.FogNear)
	p.SetFloat("uFogFar", light.FogFar)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tr.tex)
	p.SetInt("uTexture", 0)

	gl.BindVertexArray(tr.vao)
	gl.DrawElements(gl.TRIANGLE_STRIP, tr.indexCount, tr.indexType, nil)
	gl.BindVertexArray(0)
}

func (tr *TerrainRenderer) clear() {
	if tr.vao != 0 {
		gl.DeleteVertexArrays(1, &tr.vao)
		tr.vao = 0
	}
	if tr.vbo != 0 {
		gl.DeleteBuffers(1, &tr.vbo)
		tr.vbo = 0
	}
	if tr.ebo != 0 {
		gl.DeleteBuffers(1, &tr.ebo)
		tr.ebo = 0
	}
	if tr.tex != 0 {
		gl.DeleteTextures(1, &tr.tex)
		tr.tex = 0
	}
	tr.indexCount = 0
}

// Destroy releases all resources.
func (tr *TerrainRenderer) Destroy() {
	tr.clear()
	tr.program.Delete()
}
