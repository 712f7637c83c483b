package heightmap

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/heightmap-terrain/internal/config"
	"github.com/Faultbox/heightmap-terrain/internal/logger"
	"github.com/Faultbox/heightmap-terrain/pkg/terrain"
)

// Build loads the configured heightmap and constructs the terrain.
func Build(cfg config.TerrainConfig) (*terrain.Terrain, error) {
	start := time.Now()

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	img, format, err := Open(cfg.Heightmap)
	if err != nil {
		return nil, err
	}
	logger.Debug("heightmap decoded",
		zap.String("path", cfg.Heightmap),
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("depth", img.Bounds().Dy()),
	)

	t, err := terrain.NewFromImage(img, opts)
	if err != nil {
		return nil, fmt.Errorf("building terrain from %s: %w", cfg.Heightmap, err)
	}

	lo, hi := t.Grid().Range()
	logger.Info("terrain built",
		zap.String("path", cfg.Heightmap),
		zap.Int("width", t.Width()),
		zap.Int("depth", t.Depth()),
		zap.Int("vertices", t.VertexCount()),
		zap.Int("indices", t.IndexCount()),
		zap.Stringer("split", t.Split()),
		zap.Stringer("normals", t.Normals()),
		zap.Float32("min_height", lo),
		zap.Float32("max_height", hi),
		zap.Duration("elapsed", time.Since(start)),
	)
	return t, nil
}
