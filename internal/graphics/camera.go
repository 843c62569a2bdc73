package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera handles the 2D projection. World units are pixels with the origin in
// the top-left corner and y growing down.
type Camera struct {
	Width    int
	Height   int
	Position mgl32.Vec2 // world point shown at the top-left corner
	Zoom     float32    // 1 = one world unit per pixel
}

func NewCamera(width, height int) *Camera {
	c := &Camera{Zoom: 1}
	c.SetViewport(width, height)
	return c
}

// SetViewport recomputes the projection for a new framebuffer size.
func (c *Camera) SetViewport(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c.Width, c.Height = width, height
}

func (c *Camera) Pan(dx, dy float32) {
	c.Position = c.Position.Add(mgl32.Vec2{dx, dy})
}

func (c *Camera) SetZoom(z float32) {
	if z < 0.05 {
		z = 0.05
	}
	c.Zoom = z
}

// GetProjectionMatrix maps (0,0)..(width,height) onto clip space.
func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Ortho(0, float32(c.Width), float32(c.Height), 0, -1, 1)
}

// GetViewMatrix applies zoom after moving Position to the origin.
func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.Scale3D(c.Zoom, c.Zoom, 1).Mul4(mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), 0))
}

// ViewProjection is the matrix uploaded as u_projection.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.GetProjectionMatrix().Mul4(c.GetViewMatrix())
}

// ScreenToWorld converts a framebuffer pixel to world coordinates.
func (c *Camera) ScreenToWorld(x, y float32) mgl32.Vec2 {
	return mgl32.Vec2{x/c.Zoom + c.Position.X(), y/c.Zoom + c.Position.Y()}
}
