// Package main is the entry point for the interactive terrain viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/heightmap-terrain/internal/config"
	"github.com/Faultbox/heightmap-terrain/internal/logger"
	"github.com/Faultbox/heightmap-terrain/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Heightmap Terrain Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		v.Close()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
