package renderer

import (
	"errors"

	"mini2d/internal/graphics"
	"mini2d/internal/graphics/batch"
)

// prepare readies the arena for a helper that emits primitives of mode with
// shader, flushing when the pending geometry uses another shader or the
// primitives would not fit.
func (r *Renderer) prepare(shader *graphics.Shader, mode batch.Mode, primitives int) error {
	if r.asm.Building() {
		return r.fail(batch.ErrAlreadyBuilding)
	}
	if r.buf.VertexCount() == 0 {
		return nil
	}
	if r.shader != shader || r.room(mode) < primitives {
		return r.Flush()
	}
	return nil
}

// room is how many more primitives of mode fit in the arena.
func (r *Renderer) room(mode batch.Mode) int {
	vertices := (r.buf.VertexCap() - r.buf.VertexCount()) / mode.VerticesPerPrimitive()
	indices := (r.buf.IndexCap() - r.buf.IndexCount()) / mode.IndicesPerPrimitive()
	return min(vertices, indices)
}

// DrawRectangle fills (x, y, w, h) with the draw color.
func (r *Renderer) DrawRectangle(x, y, w, h float32) error {
	if err := r.prepare(r.defaultShader, batch.Quads, 1); err != nil {
		return err
	}
	if err := r.Begin(batch.Quads, nil); err != nil {
		return err
	}
	_ = r.Color(r.drawColor)
	_ = r.Vertex2f(x, y)
	_ = r.Vertex2f(x+w, y)
	_ = r.Vertex2f(x+w, y+h)
	_ = r.Vertex2f(x, y+h)
	return r.End()
}

// DrawTriangle fills the triangle with the draw color.
func (r *Renderer) DrawTriangle(x1, y1, x2, y2, x3, y3 float32) error {
	if err := r.prepare(r.defaultShader, batch.Triangles, 1); err != nil {
		return err
	}
	if err := r.Begin(batch.Triangles, nil); err != nil {
		return err
	}
	_ = r.Color(r.drawColor)
	_ = r.Vertex2f(x1, y1)
	_ = r.Vertex2f(x2, y2)
	_ = r.Vertex2f(x3, y3)
	return r.End()
}

// acquire finds a slot for tex, flushing once when all seven are taken. The
// slot stays claimed until the next flush.
func (r *Renderer) acquire(tex *graphics.Texture) (int, error) {
	slot, err := r.slots.Acquire(tex.ID)
	if errors.Is(err, batch.ErrSlotsExhausted) {
		if err := r.Flush(); err != nil {
			return 0, err
		}
		slot, err = r.slots.Acquire(tex.ID)
	}
	if err != nil {
		return 0, r.fail(err)
	}
	r.helperSlots[slot] = true
	return slot, nil
}

// DrawTexture draws the src pixel region of tex into dst. A zero src draws
// the whole texture.
func (r *Renderer) DrawTexture(tex *graphics.Texture, src, dst Rect) error {
	if !tex.Valid() {
		return r.fail(graphics.ErrNilTexture)
	}
	if src == (Rect{}) {
		src = Rect{W: float32(tex.Width), H: float32(tex.Height)}
	}
	if err := r.prepare(r.defaultShader, batch.Quads, 1); err != nil {
		return err
	}
	slot, err := r.acquire(tex)
	if err != nil {
		return err
	}
	if err := r.Begin(batch.Quads, nil); err != nil {
		return err
	}
	tw, th := float32(tex.Width), float32(tex.Height)
	u0, v0 := src.X/tw, src.Y/th
	u1, v1 := (src.X+src.W)/tw, (src.Y+src.H)/th

	_ = r.Color4f(1, 1, 1, 1)
	r.texturedQuad(tex, slot, dst, u0, v0, u1, v1)
	return r.End()
}

func (r *Renderer) texturedQuad(tex *graphics.Texture, slot int, dst Rect, u0, v0, u1, v1 float32) {
	_ = r.Texture(tex, u0, v0, slot)
	_ = r.Vertex2f(dst.X, dst.Y)
	_ = r.Texture(tex, u1, v0, slot)
	_ = r.Vertex2f(dst.X+dst.W, dst.Y)
	_ = r.Texture(tex, u1, v1, slot)
	_ = r.Vertex2f(dst.X+dst.W, dst.Y+dst.H)
	_ = r.Texture(tex, u0, v1, slot)
	_ = r.Vertex2f(dst.X, dst.Y+dst.H)
}

// DrawText draws text with its top-left corner at (x, y) in the draw color,
// using the tint shader. Long strings are split across flushes when the arena
// fills up.
func (r *Renderer) DrawText(font *graphics.Font, text string, x, y, scale float32) error {
	if font == nil || !font.Texture.Valid() {
		return r.fail(graphics.ErrNilTexture)
	}
	if r.asm.Building() {
		return r.fail(batch.ErrAlreadyBuilding)
	}
	quads := font.Atlas.Layout(text, x, y, scale)
	if len(quads) == 0 {
		return nil
	}
	tex := font.Texture

	for len(quads) > 0 {
		if err := r.prepare(r.tintShader, batch.Quads, 1); err != nil {
			return err
		}
		slot, err := r.acquire(tex)
		if err != nil {
			return err
		}
		if err := r.Begin(batch.Quads, r.tintShader); err != nil {
			return err
		}
		_ = r.Color(r.drawColor)
		n := min(r.room(batch.Quads), len(quads))
		for _, q := range quads[:n] {
			r.texturedQuad(tex, slot, Rect{q.X, q.Y, q.W, q.H}, q.U0, q.V0, q.U1, q.V1)
		}
		if err := r.End(); err != nil {
			return err
		}
		quads = quads[n:]
	}
	return nil
}
