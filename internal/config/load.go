package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the standard locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile loads defaults merged with a single YAML file, without flag overrides.
// An empty path returns the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./terrain.yaml",
		filepath.Join(ConfigDir(), "terrain.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "HeightmapTerrain")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "HeightmapTerrain")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "heightmap-terrain")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "heightmap-terrain")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Relative heightmap and texture paths are resolved against the file's directory.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	before := *cfg
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if cfg.Terrain.Heightmap != before.Terrain.Heightmap {
		cfg.Terrain.Heightmap = resolve(dir, cfg.Terrain.Heightmap)
	}
	if cfg.Viewer.GroundTexture != before.Viewer.GroundTexture {
		cfg.Viewer.GroundTexture = resolve(dir, cfg.Viewer.GroundTexture)
	}
	return nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
