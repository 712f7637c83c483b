package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func key(t uint32, code sdl.Scancode, repeat uint8) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{Type: t, Repeat: repeat, Keysym: sdl.Keysym{Scancode: code}}
}

func TestInput_Movement(t *testing.T) {
	in := New()
	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_W, 0))
	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_A, 0))

	f, r := in.Movement()
	if f != 1 || r != -1 {
		t.Errorf("Movement = (%v, %v), want (1, -1)", f, r)
	}

	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_DOWN, 0))
	in.handle(key(sdl.KEYUP, sdl.SCANCODE_A, 0))
	f, r = in.Movement()
	if f != 0 || r != 0 {
		t.Errorf("Movement = (%v, %v), want (0, 0)", f, r)
	}
}

func TestInput_PressedOncePerFrame(t *testing.T) {
	in := New()
	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_R, 0))
	if !in.Pressed(sdl.SCANCODE_R) {
		t.Fatal("R should be pressed this frame")
	}

	in.beginFrame()
	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_R, 1)) // auto-repeat
	if in.Pressed(sdl.SCANCODE_R) {
		t.Error("auto-repeat must not count as a press")
	}
	if !in.Held(sdl.SCANCODE_R) {
		t.Error("R should still be held")
	}
}

func TestInput_DragAccumulates(t *testing.T) {
	in := New()
	in.handle(&sdl.MouseMotionEvent{XRel: 10, YRel: 5})
	if dx, dy := in.MouseDelta(); dx != 0 || dy != 0 {
		t.Errorf("motion without a button should be ignored, got (%v, %v)", dx, dy)
	}

	in.handle(&sdl.MouseButtonEvent{Button: sdl.BUTTON_RIGHT, State: sdl.PRESSED})
	in.handle(&sdl.MouseMotionEvent{XRel: 3, YRel: -2})
	in.handle(&sdl.MouseMotionEvent{XRel: 4, YRel: 1})
	if dx, dy := in.MouseDelta(); dx != 7 || dy != -1 {
		t.Errorf("MouseDelta = (%v, %v), want (7, -1)", dx, dy)
	}

	in.beginFrame()
	if dx, dy := in.MouseDelta(); dx != 0 || dy != 0 {
		t.Errorf("delta should reset each frame, got (%v, %v)", dx, dy)
	}
}

func TestInput_QuitAndResize(t *testing.T) {
	in := New()
	in.handle(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED})
	if !in.Resized() {
		t.Error("expected resize")
	}
	in.handle(&sdl.QuitEvent{})
	if !in.Quit() {
		t.Error("expected quit")
	}
}
