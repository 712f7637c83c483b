// Package shader provides OpenGL shader compilation and uniform access.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/heightmap-terrain/internal/logger"
)

// Program is a linked vertex + fragment shader program.
type Program struct {
	id       uint32
	uniforms map[string]int32
}

// New compiles vertex and fragment sources and links them into a program.
func New(vertexSrc, fragmentSrc string) (*Program, error) {
	vert, err := compile(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compile(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(id, logLen, nil, &log[0])
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link: %s", gl.GoStr(&log[0]))
	}

	return &Program{id: id, uniforms: make(map[string]int32)}, nil
}

func compile(source string, kind uint32, name string) (uint32, error) {
	s := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(s, 1, csource, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(s, logLen, nil, &log[0])
		gl.DeleteShader(s)
		return 0, fmt.Errorf("%s shader: %s", name, gl.GoStr(&log[0]))
	}

	return s, nil
}

// ID returns the GL program name.
func (p *Program) ID() uint32 { return p.id }

// Use binds the program.
func (p *Program) Use() { gl.UseProgram(p.id) }

// Uniform returns the cached location of a uniform, or -1 if the program has
// no active uniform with that name. GL ignores writes to location -1.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	if loc < 0 {
		logger.Debug("inactive uniform", zap.String("name", name), zap.Uint32("program", p.id))
	}
	p.uniforms[name] = loc
	return loc
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.Uniform(name), 1, false, &m[0])
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(p.Uniform(name), v[0], v[1], v[2])
}

func (p *Program) SetFloat(name string, f float32) {
	gl.Uniform1f(p.Uniform(name), f)
}

func (p *Program) SetInt(name string, i int32) {
	gl.Uniform1i(p.Uniform(name), i)
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
