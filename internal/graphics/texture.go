package graphics

import (
	"fmt"

	"mini2d/internal/gpu"
	"mini2d/internal/graphics/batch"
)

// ErrNilTexture is shared with the batch package so callers match one value.
var ErrNilTexture = batch.ErrNilTexture

// Texture is a GPU texture created from caller pixels.
type Texture struct {
	ID       gpu.TextureID
	Width    int
	Height   int
	Channels int

	dev gpu.Device
}

// NewTexture uploads row-major RGB (3 channels) or RGBA (4 channels) pixels.
// The data is copied; the caller keeps ownership of data.
func NewTexture(dev gpu.Device, data []byte, width, height, channels int) (*Texture, error) {
	format, err := gpu.FormatForChannels(channels)
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}
	if err := gpu.CheckPixels(width, height, format, data); err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}
	id, err := dev.CreateTexture(width, height, format, data)
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}
	return &Texture{ID: id, Width: width, Height: height, Channels: channels, dev: dev}, nil
}

// Update replaces the texture contents. Same dimensions and channels update
// in place; anything else reallocates storage under the same ID.
func (t *Texture) Update(data []byte, width, height, channels int) error {
	if !t.Valid() {
		return ErrNilTexture
	}
	format, err := gpu.FormatForChannels(channels)
	if err != nil {
		return fmt.Errorf("update texture: %w", err)
	}
	if err := gpu.CheckPixels(width, height, format, data); err != nil {
		return fmt.Errorf("update texture: %w", err)
	}
	if width == t.Width && height == t.Height && channels == t.Channels {
		t.dev.UpdateTexture(t.ID, width, height, format, data)
		return nil
	}
	t.dev.ReplaceTexture(t.ID, width, height, format, data)
	t.Width, t.Height, t.Channels = width, height, channels
	return nil
}

// Destroy releases the GPU texture. Safe to call twice.
func (t *Texture) Destroy() {
	if !t.Valid() {
		return
	}
	t.dev.DeleteTexture(t.ID)
	t.ID = 0
}

func (t *Texture) Valid() bool { return t != nil && t.ID != 0 }
