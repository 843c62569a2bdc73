package renderer

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"mini2d/internal/config"
	"mini2d/internal/gpu"
	"mini2d/internal/graphics"
	"mini2d/internal/graphics/batch"
	"mini2d/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer accumulates immediate-mode geometry into one vertex/index arena and
// submits it as a single indexed draw per flush.
type Renderer struct {
	dev     gpu.Device
	surface Surface
	camera  *graphics.Camera

	buf   *batch.GeometryBuffer
	slots *batch.SlotTable
	asm   *batch.Assembler
	mesh  gpu.MeshID

	defaultShader *graphics.Shader
	tintShader    *graphics.Shader
	shader        *graphics.Shader // shader the pending geometry was built with

	// slots claimed by DrawTexture and DrawText for the current batch
	helperSlots [batch.MaxTextureSlots]bool

	drawColor   color.RGBA
	lastFailure error
	stats       Stats
	destroyed   bool
}

// New creates a renderer drawing to surf through dev. Buffers are sized once
// from cfg.MaxVertices.
func New(dev gpu.Device, surf Surface, cfg config.Renderer) (*Renderer, error) {
	maxVertices := cfg.MaxVertices
	if maxVertices < config.MinVertices {
		maxVertices = config.DefaultVertices
	}

	var (
		shader *graphics.Shader
		err    error
	)
	if cfg.VertexShader != "" {
		shader, err = graphics.LoadShader(dev, cfg.VertexShader, cfg.FragmentShader)
	} else {
		shader, err = graphics.NewShader(dev, DefaultVertexShader, DefaultFragmentShader)
	}
	if err != nil {
		return nil, fmt.Errorf("default shader: %w", err)
	}
	if err := shader.Require(UniformProjection, UniformTextures); err != nil {
		shader.Destroy()
		return nil, fmt.Errorf("default shader: %w", err)
	}

	tint, err := graphics.NewShader(dev, DefaultVertexShader, TintFragmentShader)
	if err != nil {
		shader.Destroy()
		return nil, fmt.Errorf("tint shader: %w", err)
	}
	if err := tint.Require(UniformProjection, UniformTextures); err != nil {
		tint.Destroy()
		shader.Destroy()
		return nil, fmt.Errorf("tint shader: %w", err)
	}

	buf := batch.NewGeometryBuffer(maxVertices)
	mesh, err := dev.CreateMesh(batch.Layout, buf.VertexCap(), buf.IndexCap())
	if err != nil {
		tint.Destroy()
		shader.Destroy()
		return nil, fmt.Errorf("batch mesh: %w", err)
	}

	width, height := surf.FramebufferSize()
	slots := &batch.SlotTable{}
	r := &Renderer{
		dev:           dev,
		surface:       surf,
		camera:        graphics.NewCamera(width, height),
		buf:           buf,
		slots:         slots,
		asm:           batch.NewAssembler(buf, slots),
		mesh:          mesh,
		defaultShader: shader,
		tintShader:    tint,
		shader:        shader,
		drawColor:     color.RGBA{255, 255, 255, 255},
	}
	dev.Viewport(r.camera.Width, r.camera.Height)

	info := dev.Info()
	log.Printf("renderer: %s (%s), %d vertices / %d indices per batch", info.Renderer, info.Version, buf.VertexCap(), buf.IndexCap())
	return r, nil
}

// Destroy releases the GPU objects owned by the renderer.
func (r *Renderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.dev.DeleteMesh(r.mesh)
	r.defaultShader.Destroy()
	r.tintShader.Destroy()
}

func (r *Renderer) fail(err error) error {
	r.lastFailure = err
	return err
}

// LastFailure returns the most recent failure, or nil.
func (r *Renderer) LastFailure() error { return r.lastFailure }

// FailureReason is LastFailure as text; empty when nothing failed.
func (r *Renderer) FailureReason() string {
	if r.lastFailure == nil {
		return ""
	}
	return r.lastFailure.Error()
}

func (r *Renderer) ClearFailure() { r.lastFailure = nil }

func normalize(c color.RGBA) mgl32.Vec4 {
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

// SetDrawColor sets the color used by Clear and the shape helpers.
func (r *Renderer) SetDrawColor(c color.RGBA) { r.drawColor = c }

func (r *Renderer) DrawColor() color.RGBA { return r.drawColor }

// Begin opens a batch. A nil shader selects the default one. Geometry already
// pending under a different shader is flushed first.
func (r *Renderer) Begin(mode batch.Mode, shader *graphics.Shader) error {
	if r.destroyed {
		return r.fail(ErrDestroyed)
	}
	if r.asm.Building() {
		return r.fail(batch.ErrAlreadyBuilding)
	}
	if shader == nil {
		shader = r.defaultShader
	}
	if shader != r.defaultShader {
		if err := shader.Require(UniformProjection, UniformTextures); err != nil {
			return r.fail(err)
		}
	}
	if shader != r.shader && r.buf.VertexCount() > 0 {
		if err := r.Flush(); err != nil {
			return err
		}
	}
	r.shader = shader
	if err := r.asm.Begin(mode); err != nil {
		return r.fail(err)
	}
	return nil
}

// Color sets the color of the following vertices.
func (r *Renderer) Color(c color.RGBA) error {
	return r.Color4f(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
}

func (r *Renderer) Color4f(red, green, blue, alpha float32) error {
	if err := r.asm.Color(mgl32.Vec4{red, green, blue, alpha}); err != nil {
		return r.fail(err)
	}
	return nil
}

// Texture makes the next vertex sample tex at (u, v) through slot 1..7. A
// slot claimed by DrawTexture or DrawText keeps its texture until the next
// flush.
func (r *Renderer) Texture(tex *graphics.Texture, u, v float32, slot int) error {
	if !tex.Valid() {
		return r.fail(graphics.ErrNilTexture)
	}
	if slot > 0 && slot < batch.MaxTextureSlots && r.helperSlots[slot] && r.slots.Get(slot) != tex.ID {
		return r.fail(fmt.Errorf("%w: slot %d", batch.ErrSlotInUse, slot))
	}
	if err := r.asm.Texture(tex.ID, u, v, slot); err != nil {
		return r.fail(err)
	}
	return nil
}

func (r *Renderer) Vertex2f(x, y float32) error { return r.Vertex3f(x, y, 0) }

func (r *Renderer) Vertex3f(x, y, z float32) error {
	if err := r.asm.Vertex(x, y, z); err != nil {
		return r.fail(err)
	}
	return nil
}

// End closes the batch and indexes its complete primitives. Trailing
// vertices are reported with an *batch.IncompleteError.
func (r *Renderer) End() error {
	res, err := r.asm.End()
	r.stats.Dropped += res.Dropped
	if err == nil {
		return nil
	}
	var inc *batch.IncompleteError
	switch {
	case errors.As(err, &inc):
		log.Printf("renderer: %d trailing %s vertices left unindexed", inc.Leftover, inc.Mode)
	case errors.Is(err, batch.ErrVertexOverflow), errors.Is(err, batch.ErrIndexOverflow):
		log.Printf("renderer: batch overflow, %d primitives dropped: %v", res.Dropped, err)
	}
	return r.fail(err)
}

// Flush uploads the pending geometry and draws it with one indexed call, then
// resets the buffers, slot table and shader for the next batch.
func (r *Renderer) Flush() error {
	if r.destroyed {
		return r.fail(ErrDestroyed)
	}
	if r.asm.Building() {
		return r.fail(ErrBatchOpen)
	}
	defer profiling.Track("renderer.Flush")()
	r.stats.Flushes++

	if n := r.buf.IndexCount(); n > 0 {
		shader := r.shader
		shader.Use()
		r.dev.UploadMesh(r.mesh, r.buf.VertexBytes(), r.buf.Indices())

		for slot, tex := range r.slots.Bound() {
			r.dev.BindTexture(slot, tex)
		}
		samplers := r.slots.Samplers()
		shader.SetInts(UniformTextures, samplers[:])
		shader.SetMatrix4(UniformProjection, r.camera.ViewProjection())
		r.dev.DrawIndexed(r.mesh, n)

		r.stats.DrawCalls++
		r.stats.Vertices += r.buf.VertexCount()
		r.stats.Indices += n
		r.stats.Textures += r.slots.Used()
	}
	r.resetBatch()

	if err := r.dev.Err(); err != nil {
		log.Printf("renderer: gl error during flush: %v", err)
		return r.fail(err)
	}
	return nil
}

func (r *Renderer) resetBatch() {
	r.buf.Reset()
	r.slots.Reset()
	r.helperSlots = [batch.MaxTextureSlots]bool{}
	r.shader = r.defaultShader
}

// Reset discards pending geometry without drawing it, closing any open batch.
func (r *Renderer) Reset() {
	r.asm.Cancel()
	r.resetBatch()
}

// Clear fills the framebuffer with the draw color.
func (r *Renderer) Clear() {
	r.dev.Clear(normalize(r.drawColor))
}

// Present swaps the surface's buffers.
func (r *Renderer) Present() {
	r.surface.SwapBuffers()
}

// Resize follows a framebuffer size change.
func (r *Renderer) Resize(width, height int) {
	r.camera.SetViewport(width, height)
	r.dev.Viewport(r.camera.Width, r.camera.Height)
}

// CreateTexture uploads pixels as a new texture.
func (r *Renderer) CreateTexture(data []byte, width, height, channels int) (*graphics.Texture, error) {
	tex, err := graphics.NewTexture(r.dev, data, width, height, channels)
	if err != nil {
		return nil, r.fail(err)
	}
	return tex, nil
}

// UpdateTexture replaces the contents of tex.
func (r *Renderer) UpdateTexture(tex *graphics.Texture, data []byte, width, height, channels int) error {
	if err := tex.Update(data, width, height, channels); err != nil {
		return r.fail(err)
	}
	return nil
}

// DestroyTexture releases tex, drawing pending geometry that still samples it.
// A texture referenced by the open batch is kept and batch.ErrAlreadyBuilding
// is returned.
func (r *Renderer) DestroyTexture(tex *graphics.Texture) error {
	if !tex.Valid() {
		return nil
	}
	if r.usesTexture(tex.ID) {
		if r.asm.Building() {
			return r.fail(fmt.Errorf("%w: texture %d is referenced by the open batch", batch.ErrAlreadyBuilding, tex.ID))
		}
		if err := r.Flush(); err != nil {
			return err
		}
	}
	tex.Destroy()
	return nil
}

func (r *Renderer) usesTexture(id gpu.TextureID) bool {
	for _, t := range r.slots.Bound() {
		if t == id {
			return true
		}
	}
	return false
}

func (r *Renderer) Camera() *graphics.Camera        { return r.camera }
func (r *Renderer) Device() gpu.Device              { return r.dev }
func (r *Renderer) DefaultShader() *graphics.Shader { return r.defaultShader }
func (r *Renderer) TintShader() *graphics.Shader    { return r.tintShader }
func (r *Renderer) Building() bool                  { return r.asm.Building() }
func (r *Renderer) Stats() Stats                    { return r.stats }
func (r *Renderer) ResetStats()                     { r.stats = Stats{} }

// Capacity is the vertex capacity of one batch.
func (r *Renderer) Capacity() int { return r.buf.VertexCap() }

// Pending reports the geometry waiting for the next flush.
func (r *Renderer) Pending() (vertices, indices int) {
	return r.buf.VertexCount(), r.buf.IndexCount()
}
