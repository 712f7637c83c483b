package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagHeightmap  = flag.String("heightmap", "", "Heightmap image (png, jpg, gif, bmp, tiff, tga)")
	flagScale      = flag.Float64("scale", 0, "Height scale in world units")
	flagSplit      = flag.String("split", "", "Height query triangle split: quadrant or diagonal")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagHeightmap != "" {
		cfg.Terrain.Heightmap = *flagHeightmap
	} else if flag.NArg() > 0 {
		cfg.Terrain.Heightmap = flag.Arg(0)
	}
	if *flagScale > 0 {
		cfg.Terrain.HeightScale = float32(*flagScale)
	}
	if *flagSplit != "" {
		cfg.Terrain.Split = *flagSplit
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
}
