// Package config handles terrain and viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/heightmap-terrain/pkg/math"
	"github.com/Faultbox/heightmap-terrain/pkg/terrain"
)

// Config holds all settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig describes how the heightmap is turned into a terrain.
type TerrainConfig struct {
	Heightmap       string          `yaml:"heightmap"`         // Path to the heightmap image
	HeightScale     float32         `yaml:"height_scale"`      // Elevation range in world units
	TextureTileSize float32         `yaml:"texture_tile_size"` // Grid cells per texture repeat
	Split           string          `yaml:"split"`             // quadrant | diagonal
	Normals         string          `yaml:"normals"`           // flat | smooth
	Transform       TransformConfig `yaml:"transform"`
}

// TransformConfig is the authoring placement of the terrain.
// The world matrix is Translate * RotateY * Scale.
type TransformConfig struct {
	Translate      [3]float32 `yaml:"translate"`
	RotateYDegrees float32    `yaml:"rotate_y_degrees"`
	Scale          [3]float32 `yaml:"scale"`
}

// ViewerConfig holds window and camera settings for the interactive viewer.
type ViewerConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	Fullscreen       bool    `yaml:"fullscreen"`
	VSync            bool    `yaml:"vsync"`
	GroundTexture    string  `yaml:"ground_texture"` // Optional; a checker texture is used when empty
	EyeHeight        float32 `yaml:"eye_height"`
	MoveSpeed        float32 `yaml:"move_speed"` // World units per second
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	SunAzimuth       float32 `yaml:"sun_azimuth"`   // Degrees clockwise from -Z
	SunElevation     float32 `yaml:"sun_elevation"` // Degrees above the horizon
	ScreenshotDir    string  `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Heightmap:       "heightmap.png",
			HeightScale:     64,
			TextureTileSize: terrain.DefaultTextureTileSize,
			Split:           "quadrant",
			Normals:         "flat",
			Transform: TransformConfig{
				Scale: [3]float32{1, 1, 1},
			},
		},
		Viewer: ViewerConfig{
			Width:            1280,
			Height:           720,
			Fullscreen:       false,
			VSync:            true,
			EyeHeight:        2,
			MoveSpeed:        20,
			MouseSensitivity: 0.003,
			SunAzimuth:       135,
			SunElevation:     45,
			ScreenshotDir:    "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Terrain.Heightmap == "" {
		errs = append(errs, errors.New("terrain.heightmap is required"))
	}
	if c.Terrain.TextureTileSize <= 0 {
		errs = append(errs, fmt.Errorf("terrain.texture_tile_size must be positive, got %v", c.Terrain.TextureTileSize))
	}
	if _, err := ParseSplit(c.Terrain.Split); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseNormals(c.Terrain.Normals); err != nil {
		errs = append(errs, err)
	}
	for i, s := range c.Terrain.Transform.Scale {
		if s == 0 {
			errs = append(errs, fmt.Errorf("terrain.transform.scale[%d] must not be zero", i))
		}
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewer size must be positive, got %dx%d", c.Viewer.Width, c.Viewer.Height))
	}

	return errors.Join(errs...)
}

// ParseSplit converts a split name to a terrain.Split.
func ParseSplit(name string) (terrain.Split, error) {
	switch name {
	case "", "quadrant":
		return terrain.SplitQuadrant, nil
	case "diagonal":
		return terrain.SplitDiagonal, nil
	}
	return 0, fmt.Errorf("unknown terrain.split %q (want quadrant or diagonal)", name)
}

// ParseNormals converts a normals mode name to a terrain.Normals.
func ParseNormals(name string) (terrain.Normals, error) {
	switch name {
	case "", "flat":
		return terrain.NormalsFlat, nil
	case "smooth":
		return terrain.NormalsSmooth, nil
	}
	return 0, fmt.Errorf("unknown terrain.normals %q (want flat or smooth)", name)
}

// World returns the placement matrix described by the transform.
func (t TransformConfig) World() math.Mat4 {
	angle := float32(float64(t.RotateYDegrees) * gomath.Pi / 180)
	return math.Translate(t.Translate[0], t.Translate[1], t.Translate[2]).
		Mul(math.RotateY(angle)).
		Mul(math.Scale(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Options converts the terrain section into construction options.
func (t TerrainConfig) Options() (terrain.Options, error) {
	split, err := ParseSplit(t.Split)
	if err != nil {
		return terrain.Options{}, err
	}
	normals, err := ParseNormals(t.Normals)
	if err != nil {
		return terrain.Options{}, err
	}

	return terrain.Options{
		HeightScale:     t.HeightScale,
		TextureTileSize: t.TextureTileSize,
		World:           t.Transform.World(),
		Split:           split,
		Normals:         normals,
	}, nil
}
