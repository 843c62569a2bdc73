package main

import (
	"image/color"
	"log"
	"runtime"

	"mini2d/internal/config"
	"mini2d/internal/gpu/glgpu"
	"mini2d/internal/graphics/renderer"
	"mini2d/internal/input"
	"mini2d/internal/platform"
)

func init() {
	runtime.LockOSThread()
}

// Minimal program: one TRIANGLES batch per frame through the renderer.
func main() {
	cfg := config.Default()
	cfg.Window.Title = "mini2d - triangle"
	cfg.Window.Width, cfg.Window.Height = 800, 600
	cfg.Window.Resizable = false
	// Disable VSync for max raw framerate
	cfg.Window.VSync = false

	ctx := platform.NewContext()
	window, err := ctx.NewWindow(cfg.Window)
	if err != nil {
		log.Fatal(err)
	}
	defer window.Destroy()

	dev, err := glgpu.New()
	if err != nil {
		log.Fatal(err)
	}
	r, err := renderer.New(dev, window, config.Renderer{MaxVertices: config.MinVertices})
	if err != nil {
		log.Fatal(err)
	}
	defer r.Destroy()

	for !window.ShouldClose() {
		window.PollEvents()
		for e, ok := window.NextEvent(); ok; e, ok = window.NextEvent() {
			if e.Type == input.EventKeyPressed && e.Key == input.KeyEscape {
				window.Close()
			}
		}

		r.SetDrawColor(color.RGBA{0, 0, 0, 255})
		r.Clear()
		w, h := float32(cfg.Window.Width), float32(cfg.Window.Height)
		_ = r.Begin(renderer.Triangles, nil)
		_ = r.Color4f(0, 1, 0, 1)
		_ = r.Vertex2f(w/2, h/4)
		_ = r.Vertex2f(w/4, h*3/4)
		_ = r.Vertex2f(w*3/4, h*3/4)
		if err := r.End(); err != nil {
			log.Printf("triangle: %v", err)
		}
		if err := r.Flush(); err != nil {
			log.Printf("triangle: %v", err)
		}
		r.Present()
	}
}
