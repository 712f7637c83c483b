// Package viewer implements the interactive terrain walk-through.
package viewer

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/heightmap-terrain/internal/config"
	"github.com/Faultbox/heightmap-terrain/internal/engine/camera"
	"github.com/Faultbox/heightmap-terrain/internal/engine/input"
	"github.com/Faultbox/heightmap-terrain/internal/engine/lighting"
	"github.com/Faultbox/heightmap-terrain/internal/engine/picking"
	"github.com/Faultbox/heightmap-terrain/internal/engine/render"
	"github.com/Faultbox/heightmap-terrain/internal/engine/texture"
	"github.com/Faultbox/heightmap-terrain/internal/engine/window"
	"github.com/Faultbox/heightmap-terrain/internal/heightmap"
	"github.com/Faultbox/heightmap-terrain/internal/logger"
	"github.com/Faultbox/heightmap-terrain/pkg/terrain"
)

const (
	titlePrefix  = "heightmap terrain"
	sprintFactor = 4
	pickStep     = 0.25 // world units per march step
)

// Viewer owns the window, the renderer and the published terrain.
type Viewer struct {
	cfg     *config.Config
	running bool

	window   *window.Surface
	input    *input.Input
	renderer *render.TerrainRenderer
	lighting render.Lighting
	ground   *image.RGBA

	terrain  *terrain.Handle
	camera   *camera.WalkCamera
	reloader *reloader
}

// New loads the terrain, opens the window and uploads the mesh.
func New(cfg *config.Config) (*Viewer, error) {
	t, err := heightmap.Build(cfg.Terrain)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		cfg:      cfg,
		lighting: render.DefaultLighting(),
		terrain:  terrain.NewHandle(t),
		reloader: newReloader(),
	}
	v.lighting.LightDir = lighting.SunDirection(cfg.Viewer.SunAzimuth, cfg.Viewer.SunElevation)

	v.ground, err = loadGround(cfg.Viewer.GroundTexture)
	if err != nil {
		return nil, err
	}

	v.window, err = window.Open(titlePrefix, cfg.Viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context created by the window
	if err := render.Init(); err != nil {
		v.window.Close()
		return nil, err
	}
	render.Viewport(v.window.Drawable())

	v.renderer, err = render.NewTerrainRenderer()
	if err != nil {
		v.window.Close()
		return nil, err
	}
	if err := v.renderer.Load(t, v.ground); err != nil {
		v.Close()
		return nil, fmt.Errorf("uploading terrain: %w", err)
	}

	v.camera = camera.NewWalkCamera(spawnPoint(t), v.terrain)
	v.camera.EyeHeight = cfg.Viewer.EyeHeight
	v.camera.MoveSpeed = cfg.Viewer.MoveSpeed
	v.camera.Sensitivity = cfg.Viewer.MouseSensitivity
	v.camera.SetGround(v.terrain)

	v.input = input.New()

	logger.Info("viewer initialized")
	return v, nil
}

func loadGround(path string) (*image.RGBA, error) {
	if path == "" {
		return texture.Checker(256, 8,
			color.RGBA{R: 96, G: 128, B: 72, A: 255},
			color.RGBA{R: 80, G: 110, B: 60, A: 255},
		), nil
	}
	img, err := texture.Load(path)
	if err != nil {
		return nil, fmt.Errorf("ground texture: %w", err)
	}
	return img, nil
}

// spawnPoint returns the world-space center of the terrain bounds.
func spawnPoint(t *terrain.Terrain) mgl32.Vec3 {
	b := t.Bounds()
	return mgl32.Vec3{
		(b.Min[0] + b.Max[0]) / 2,
		b.Max[1],
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Run runs the main loop until the window closes or Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	titleTimer := time.Now()

	logger.Info("starting viewer loop",
		zap.String("controls", "WASD/arrows move, drag to look, shift sprint, P pick, R reload, F12 screenshot, Esc quit"))

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() || v.input.Pressed(sdl.SCANCODE_ESCAPE) {
			v.running = false
			break
		}
		if v.input.Resized() {
			render.Viewport(v.window.Drawable())
		}
		if v.input.Pressed(sdl.SCANCODE_R) {
			v.reloader.start(v.cfg.Terrain)
		}
		if v.input.Pressed(sdl.SCANCODE_P) {
			v.pickCenter()
		}
		screenshot := v.input.Pressed(sdl.SCANCODE_F12)
		if err := v.applyReload(); err != nil {
			return err
		}

		v.update(dt)

		render.Clear(v.lighting.FogColor[0], v.lighting.FogColor[1], v.lighting.FogColor[2])
		viewProj := v.camera.ProjectionMatrix(v.window.Aspect()).Mul4(v.camera.ViewMatrix())
		v.renderer.Render(viewProj, v.camera.Position, v.lighting)
		if screenshot {
			v.screenshot()
		}
		v.window.Present()

		if time.Since(titleTimer) >= 250*time.Millisecond {
			v.updateTitle(dt)
			titleTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) update(dt float32) {
	v.camera.Turn(v.input.MouseDelta())

	forward, right := v.input.Movement()
	if forward == 0 && right == 0 {
		return
	}
	speed := v.camera.MoveSpeed
	if v.input.Sprinting() {
		v.camera.MoveSpeed *= sprintFactor
	}
	v.camera.Move(forward, right, dt)
	v.camera.MoveSpeed = speed
}

// applyReload publishes a terrain finished by the reloader and re-uploads it.
// A failed reload keeps the current terrain.
func (v *Viewer) applyReload() error {
	res, ok := v.reloader.poll()
	if !ok {
		return nil
	}
	if res.err != nil {
		logger.Warn("reload failed, keeping current terrain", zap.Error(res.err))
		return nil
	}
	t := res.terrain

	v.terrain.Swap(t)
	if err := v.renderer.Load(t, v.ground); err != nil {
		return fmt.Errorf("uploading terrain: %w", err)
	}
	v.camera.SetGround(v.terrain)
	logger.Info("terrain reloaded", zap.String("path", v.cfg.Terrain.Heightmap))
	return nil
}

func (v *Viewer) screenshot() {
	w, h := v.window.Drawable()
	path, err := render.Screenshot(v.cfg.Viewer.ScreenshotDir, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// pickCenter logs the terrain point under the screen center.
func (v *Viewer) pickCenter() {
	w, h := v.window.Drawable()
	viewProj := v.camera.ProjectionMatrix(v.window.Aspect()).Mul4(v.camera.ViewMatrix())
	ray := picking.ScreenToRay(float32(w)/2, float32(h)/2, float32(w), float32(h), viewProj.Inv())

	t := v.terrain.Load()
	p, ok := picking.PickTerrain(ray, t, t.Bounds(), pickStep)
	if !ok {
		logger.Info("pick missed the terrain")
		return
	}
	s := t.Sample(p[0], p[2])
	logger.Info("picked terrain",
		zap.Float32("x", p[0]),
		zap.Float32("y", p[1]),
		zap.Float32("z", p[2]),
		zap.Float32("grid_x", s.GridX),
		zap.Float32("grid_z", s.GridZ),
		zap.Float32("height", s.Height),
	)
}

func (v *Viewer) updateTitle(dt float32) {
	p := v.camera.Position
	groundY, onTerrain := v.terrain.WorldHeightAt(p[0], p[2])
	fps := 0
	if dt > 0 {
		fps = int(1 / dt)
	}
	v.window.SetTitle(titleText(p, groundY, onTerrain, fps))
}

// titleText reports the camera position and the world-space surface height
// beneath it, the same height the camera is held above.
func titleText(pos mgl32.Vec3, groundY float32, onTerrain bool, fps int) string {
	if !onTerrain {
		return fmt.Sprintf("%s | pos %.1f %.1f %.1f | off terrain | %d fps", titlePrefix, pos[0], pos[1], pos[2], fps)
	}
	return fmt.Sprintf("%s | pos %.1f %.1f %.1f | ground %.2f | %d fps", titlePrefix, pos[0], pos[1], pos[2], groundY, fps)
}

// Close releases GPU and window resources.
func (v *Viewer) Close() {
	v.reloader.wait()
	if v.renderer != nil {
		v.renderer.Destroy()
	}
	if v.window != nil {
		v.window.Close()
	}
}
