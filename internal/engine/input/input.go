// Package input turns SDL2 events into per-frame viewer input state.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Input tracks held keys, mouse-look drag and window events between frames.
type Input struct {
	held    map[sdl.Scancode]bool
	pressed map[sdl.Scancode]bool

	dragging bool
	dx, dy   float32

	quit    bool
	resized bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		held:    make(map[sdl.Scancode]bool),
		pressed: make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events for this frame.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.beginFrame()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.handle(event)
	}
	return i.quit
}

func (i *Input) beginFrame() {
	clear(i.pressed)
	i.dx, i.dy = 0, 0
	i.resized = false
}

func (i *Input) handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.resized = true
		}

	case *sdl.KeyboardEvent:
		code := e.Keysym.Scancode
		if e.Type == sdl.KEYDOWN {
			if e.Repeat == 0 {
				i.pressed[code] = true
			}
			i.held[code] = true
		} else if e.Type == sdl.KEYUP {
			delete(i.held, code)
		}

	case *sdl.MouseButtonEvent:
		if e.Button == sdl.BUTTON_LEFT || e.Button == sdl.BUTTON_RIGHT {
			i.dragging = e.State == sdl.PRESSED
		}

	case *sdl.MouseMotionEvent:
		if i.dragging {
			i.dx += float32(e.XRel)
			i.dy += float32(e.YRel)
		}
	}
}

// Quit reports whether a quit was requested.
func (i *Input) Quit() bool { return i.quit }

// Resized reports whether the window size changed this frame.
func (i *Input) Resized() bool { return i.resized }

// Pressed reports whether the key went down this frame.
func (i *Input) Pressed(code sdl.Scancode) bool { return i.pressed[code] }

// Held reports whether the key is currently down.
func (i *Input) Held(code sdl.Scancode) bool { return i.held[code] }

// MouseDelta returns the drag motion in pixels accumulated this frame.
func (i *Input) MouseDelta() (dx, dy float32) { return i.dx, i.dy }

// Movement returns the WASD / arrow key axes, each in [-1, 1].
func (i *Input) Movement() (forward, right float32) {
	if i.held[sdl.SCANCODE_W] || i.held[sdl.SCANCODE_UP] {
		forward++
	}
	if i.held[sdl.SCANCODE_S] || i.held[sdl.SCANCODE_DOWN] {
		forward--
	}
	if i.held[sdl.SCANCODE_D] || i.held[sdl.SCANCODE_RIGHT] {
		right++
	}
	if i.held[sdl.SCANCODE_A] || i.held[sdl.SCANCODE_LEFT] {
		right--
	}
	return forward, right
}

// Sprinting reports whether a shift key is held.
func (i *Input) Sprinting() bool {
	return i.held[sdl.SCANCODE_LSHIFT] || i.held[sdl.SCANCODE_RSHIFT]
}
