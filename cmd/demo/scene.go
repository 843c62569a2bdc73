package main

import (
	"image/color"
	"math"
	"math/rand/v2"

	"mini2d/internal/graphics"
	"mini2d/internal/graphics/renderer"
)

const (
	spriteSize = 32
	maxSprites = 2000
	tileSize   = 40
)

type sprite struct {
	x, y, vx, vy float32
	tint         color.RGBA
}

// Scene is a field of bouncing sprites over a tiled floor.
type Scene struct {
	width, height float32
	sprites       []sprite
	elapsed       float32
}

func NewScene(width, height float32) *Scene {
	s := &Scene{width: width, height: height}
	for i := 0; i < 64; i++ {
		s.Spawn(rand.Float32()*width, rand.Float32()*height)
	}
	return s
}

func (s *Scene) Len() int { return len(s.sprites) }

func (s *Scene) Resize(width, height float32) {
	s.width, s.height = width, height
}

// Spawn adds a sprite at (x, y) with a random heading. The oldest sprite is
// recycled once the scene is full.
func (s *Scene) Spawn(x, y float32) {
	angle := rand.Float64() * 2 * math.Pi
	speed := 60 + rand.Float64()*140
	sp := sprite{
		x:    x,
		y:    y,
		vx:   float32(math.Cos(angle) * speed),
		vy:   float32(math.Sin(angle) * speed),
		tint: color.RGBA{uint8(128 + rand.IntN(128)), uint8(128 + rand.IntN(128)), uint8(128 + rand.IntN(128)), 255},
	}
	if len(s.sprites) >= maxSprites {
		copy(s.sprites, s.sprites[1:])
		s.sprites[len(s.sprites)-1] = sp
		return
	}
	s.sprites = append(s.sprites, sp)
}

func (s *Scene) Update(dt float32) {
	s.elapsed += dt
	for i := range s.sprites {
		sp := &s.sprites[i]
		sp.x += sp.vx * dt
		sp.y += sp.vy * dt
		if sp.x < 0 || sp.x+spriteSize > s.width {
			sp.vx = -sp.vx
			sp.x = min(max(sp.x, 0), s.width-spriteSize)
		}
		if sp.y < 0 || sp.y+spriteSize > s.height {
			sp.vy = -sp.vy
			sp.y = min(max(sp.y, 0), s.height-spriteSize)
		}
	}
}

// Draw emits the floor with the shape helpers, then every sprite through the
// immediate-mode calls so each one carries its own tint.
func (s *Scene) Draw(r *renderer.Renderer, tex *graphics.Texture) {
	for y := float32(0); y < s.height; y += tileSize {
		for x := float32(0); x < s.width; x += tileSize {
			shade := uint8(40 + int(x+y)/tileSize%2*12)
			r.SetDrawColor(color.RGBA{shade, shade, shade + 8, 255})
			_ = r.DrawRectangle(x+1, y+1, tileSize-2, tileSize-2)
		}
	}

	pulse := float32(math.Sin(float64(s.elapsed)*2)*0.5 + 0.5)
	r.SetDrawColor(color.RGBA{255, uint8(80 + 120*pulse), 60, 200})
	cx, cy := s.width/2, s.height/2
	_ = r.DrawTriangle(cx, cy-60, cx+52, cy+30, cx-52, cy+30)

	for _, sp := range s.sprites {
		if !fits(r, 4) {
			_ = r.Flush()
		}
		_ = r.Begin(renderer.Quads, r.TintShader())
		_ = r.Color(sp.tint)
		quad(r, tex, sp.x, sp.y)
		_ = r.End()
	}
}

func fits(r *renderer.Renderer, n int) bool {
	v, _ := r.Pending()
	return v+n <= r.Capacity()
}

func quad(r *renderer.Renderer, tex *graphics.Texture, x, y float32) {
	_ = r.Texture(tex, 0, 0, 1)
	_ = r.Vertex2f(x, y)
	_ = r.Texture(tex, 1, 0, 1)
	_ = r.Vertex2f(x+spriteSize, y)
	_ = r.Texture(tex, 1, 1, 1)
	_ = r.Vertex2f(x+spriteSize, y+spriteSize)
	_ = r.Texture(tex, 0, 1, 1)
	_ = r.Vertex2f(x, y+spriteSize)
}
