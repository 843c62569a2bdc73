package graphics

import (
	"sync"

	"mini2d/internal/gpu"
)

// TextureCache shares textures loaded from disk by path.
type TextureCache struct {
	dev  gpu.Device
	flip bool

	mu       sync.RWMutex
	textures map[string]*Texture
}

func NewTextureCache(dev gpu.Device, flip bool) *TextureCache {
	return &TextureCache{dev: dev, flip: flip, textures: make(map[string]*Texture)}
}

// Get returns a cached texture for the given path.
// If the texture is already loaded, it returns the cached texture.
// Otherwise, it loads the image from disk and caches it.
func (c *TextureCache) Get(path string) (*Texture, error) {
	c.mu.RLock()
	if tex, ok := c.textures[path]; ok {
		c.mu.RUnlock()
		return tex, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double check locking
	if tex, ok := c.textures[path]; ok {
		return tex, nil
	}

	px, err := LoadImage(path, c.flip)
	if err != nil {
		return nil, err
	}
	tex, err := NewTexture(c.dev, px.Data, px.Width, px.Height, px.Channels)
	if err != nil {
		return nil, err
	}
	c.textures[path] = tex
	return tex, nil
}

// Release destroys and forgets the texture loaded from path.
func (c *TextureCache) Release(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tex, ok := c.textures[path]; ok {
		tex.Destroy()
		delete(c.textures, path)
	}
}

// Clear destroys every cached texture.
func (c *TextureCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for path, tex := range c.textures {
		tex.Destroy()
		delete(c.textures, path)
	}
}

func (c *TextureCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.textures)
}
