package config

import "sync"

// FrameSettings holds the runtime frame pacing configuration
type FrameSettings struct {
	mu       sync.RWMutex
	fpsLimit int // 0 = unlimited
	vsync    bool
}

var globalFrameSettings = &FrameSettings{
	fpsLimit: 0,
	vsync:    true,
}

// GetFPSLimit returns the current frame rate cap, 0 when uncapped
func GetFPSLimit() int {
	globalFrameSettings.mu.RLock()
	defer globalFrameSettings.mu.RUnlock()
	return globalFrameSettings.fpsLimit
}

// SetFPSLimit sets the frame rate cap
func SetFPSLimit(limit int) {
	globalFrameSettings.mu.Lock()
	defer globalFrameSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit <= 0 {
		limit = 0
	} else if limit < 10 {
		limit = 10
	} else if limit > 1000 {
		limit = 1000
	}

	globalFrameSettings.fpsLimit = limit
}

// GetVSync returns whether buffer swaps wait for vertical blank
func GetVSync() bool {
	globalFrameSettings.mu.RLock()
	defer globalFrameSettings.mu.RUnlock()
	return globalFrameSettings.vsync
}

// SetVSync sets whether buffer swaps wait for vertical blank
func SetVSync(enabled bool) {
	globalFrameSettings.mu.Lock()
	defer globalFrameSettings.mu.Unlock()
	globalFrameSettings.vsync = enabled
}

// Apply copies the frame section of cfg into the runtime settings.
func Apply(cfg Config) {
	SetFPSLimit(cfg.Frame.FPSLimit)
	SetVSync(cfg.Window.VSync)
}
