package viewer

import (
	"sync"

	"github.com/Faultbox/heightmap-terrain/internal/config"
	"github.com/Faultbox/heightmap-terrain/internal/heightmap"
	"github.com/Faultbox/heightmap-terrain/pkg/terrain"
)

type reloadResult struct {
	terrain *terrain.Terrain
	err     error
}

// reloader rebuilds the terrain off the render thread. At most one build runs
// at a time; requests made while one is running are ignored.
type reloader struct {
	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
	done    chan reloadResult
}

func newReloader() *reloader {
	return &reloader{done: make(chan reloadResult, 1)}
}

// start begins a rebuild and reports whether one was started.
func (r *reloader) start(cfg config.TerrainConfig) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return false
	}
	r.running = true

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		t, err := heightmap.Build(cfg)
		r.done <- reloadResult{terrain: t, err: err}
	}()
	return true
}

// poll returns a finished build without blocking.
func (r *reloader) poll() (reloadResult, bool) {
	select {
	case res := <-r.done:
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		return res, true
	default:
		return reloadResult{}, false
	}
}

// wait blocks until any running build has finished.
func (r *reloader) wait() {
	r.wg.Wait()
}
