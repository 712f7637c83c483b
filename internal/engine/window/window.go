// Package window opens the SDL2 window and OpenGL 4.1 core context the
// terrain viewer draws into.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/heightmap-terrain/internal/config"
	"github.com/Faultbox/heightmap-terrain/internal/logger"
)

func init() {
	// SDL and GL calls must stay on the main thread
	runtime.LockOSThread()
}

// glAttributes are applied before the window exists. 4.1 core is the newest
// profile macOS offers.
var glAttributes = []struct {
	attr  sdl.GLattr
	value int
}{
	{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
	{sdl.GL_CONTEXT_MINOR_VERSION, 1},
	{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
	{sdl.GL_DOUBLEBUFFER, 1},
	{sdl.GL_DEPTH_SIZE, 24},
}

// Surface is the viewer's drawing target: one resizable window and its GL context.
type Surface struct {
	win *sdl.Window
	ctx sdl.GLContext
}

// Open initializes SDL video and creates a surface sized from the viewer settings.
func Open(title string, cfg config.ViewerConfig) (*Surface, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}
	for _, a := range glAttributes {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			sdl.Quit()
			return nil, fmt.Errorf("SDL_GL_SetAttribute(%d): %w", a.attr, err)
		}
	}

	win, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height),
		windowFlags(cfg.Fullscreen),
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}
	ctx, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}
	s := &Surface{win: win, ctx: ctx}

	if err := sdl.GLSetSwapInterval(swapInterval(cfg.VSync)); err != nil {
		logger.Warn("swap interval not applied", zap.Bool("vsync", cfg.VSync), zap.Error(err))
	}

	w, h := s.Drawable()
	logger.Info("surface opened",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("drawable_width", w),
		zap.Int("drawable_height", h),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return s, nil
}

func windowFlags(fullscreen bool) uint32 {
	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	return flags
}

func swapInterval(vsync bool) int {
	if vsync {
		return 1
	}
	return 0
}

// aspectRatio is width over height, 1 for a collapsed (minimized) drawable.
func aspectRatio(w, h int) float32 {
	if w <= 0 || h <= 0 {
		return 1
	}
	return float32(w) / float32(h)
}

// Drawable returns the framebuffer size in pixels, which differs from the
// window size on high-DPI displays.
func (s *Surface) Drawable() (int, int) {
	w, h := s.win.GLGetDrawableSize()
	return int(w), int(h)
}

// Aspect is the projection aspect ratio of the drawable.
func (s *Surface) Aspect() float32 {
	return aspectRatio(s.Drawable())
}

// Present shows the frame drawn since the last call.
func (s *Surface) Present() {
	s.win.GLSwap()
}

func (s *Surface) SetTitle(title string) {
	s.win.SetTitle(title)
}

// Close deletes the GL context, destroys the window and shuts SDL down.
func (s *Surface) Close() {
	if s.ctx != nil {
		sdl.GLDeleteContext(s.ctx)
	}
	if s.win != nil {
		s.win.Destroy()
	}
	sdl.Quit()
	logger.Info("surface closed")
}
