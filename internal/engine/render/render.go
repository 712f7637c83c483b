// Package render draws terrains with OpenGL.
package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/heightmap-terrain/internal/logger"
)

// Init loads the GL function pointers and sets the default pipeline state.
// Must be called after the OpenGL context is created.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	return nil
}

// Viewport resizes the GL viewport.
func Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Clear clears color and depth with the given background color.
func Clear(r, g, b float32) {
	gl.ClearColor(r, g, b, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}
