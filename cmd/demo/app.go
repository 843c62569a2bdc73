package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"mini2d/internal/config"
	"mini2d/internal/frame"
	"mini2d/internal/gpu/glgpu"
	"mini2d/internal/graphics"
	"mini2d/internal/graphics/renderer"
	"mini2d/internal/hud"
	"mini2d/internal/input"
	"mini2d/internal/platform"
	"mini2d/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	panSpeed  = 400 // pixels per second
	zoomSpeed = 1.5 // factor per second
)

// App owns the window, renderer and assets of the demo.
type App struct {
	cfg config.Config

	ctx      *platform.Context
	window   *platform.Window
	renderer *renderer.Renderer
	textures *graphics.TextureCache

	sprite *graphics.Texture
	font   *graphics.Font

	inputManager *input.InputManager
	limiter      *frame.Limiter
	counter      *frame.Counter

	scene     *Scene
	hud       *hud.HUD
	lastTime  time.Time
	destroyed bool
}

func NewApp(cfg config.Config) (*App, error) {
	ctx := platform.NewContext()
	window, err := ctx.NewWindow(cfg.Window)
	if err != nil {
		return nil, err
	}

	dev, err := glgpu.New()
	if err != nil {
		window.Destroy()
		return nil, err
	}
	r, err := renderer.New(dev, window, cfg.Renderer)
	if err != nil {
		window.Destroy()
		return nil, err
	}

	a := &App{
		cfg:          cfg,
		ctx:          ctx,
		window:       window,
		renderer:     r,
		textures:     graphics.NewTextureCache(dev, cfg.Assets.FlipY),
		inputManager: input.NewInputManager(),
		limiter:      frame.NewLimiter(),
		counter:      frame.NewCounter(cfg.Frame.StatsInterval.Duration()),
		lastTime:     time.Now(),
	}
	if err := a.loadAssets(); err != nil {
		a.Destroy()
		return nil, err
	}
	w, h := window.Size()
	a.scene = NewScene(float32(w), float32(h))
	a.hud = hud.New(a.font)
	return a, nil
}

func (a *App) loadAssets() error {
	var err error
	if a.cfg.Assets.Texture != "" {
		a.sprite, err = a.textures.Get(a.cfg.Assets.Texture)
	} else {
		px := graphics.ImagePixels(graphics.ScaleImage(checkerboard(4), 64, 64), false)
		a.sprite, err = a.renderer.CreateTexture(px.Data, px.Width, px.Height, px.Channels)
	}
	if err != nil {
		return fmt.Errorf("sprite texture: %w", err)
	}

	if a.cfg.Assets.Font != "" {
		a.font, err = graphics.LoadFont(a.renderer.Device(), a.cfg.Assets.Font, a.cfg.Assets.FontSize)
	} else {
		a.font, err = graphics.DefaultFont(a.renderer.Device(), a.cfg.Assets.FontSize)
	}
	if err != nil {
		return fmt.Errorf("font: %w", err)
	}
	return nil
}

// checkerboard builds an n x n two-tone tile.
func checkerboard(n int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	light := color.RGBA{230, 200, 90, 255}
	dark := color.RGBA{120, 70, 160, 255}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, light)
			} else {
				img.SetRGBA(x, y, dark)
			}
		}
	}
	return img
}

// Run drives the frame loop until the window is closed.
func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	now := time.Now()
	dt := float32(now.Sub(a.lastTime).Seconds())
	a.lastTime = now

	func() { defer profiling.Track("platform.PollEvents")(); a.window.PollEvents() }()
	a.handleEvents()
	a.update(dt)

	func() { defer profiling.Track("demo.Render")(); a.render() }()
	func() { defer profiling.Track("platform.SwapBuffers")(); a.renderer.Present() }()

	a.hud.RecordFrame(time.Since(now))
	if fps, ok := a.counter.Tick(time.Now()); ok {
		a.hud.SetFPS(fps)
		st := a.renderer.Stats()
		if a.hud.Visible() {
			log.Printf("demo: %.0f fps, %d flushes, %d draws, %d vertices, top: %s", fps, st.Flushes, st.DrawCalls, st.Vertices, profiling.TopN(3))
		}
		if err := a.renderer.LastFailure(); err != nil {
			log.Printf("demo: renderer failure: %v", err)
			a.renderer.ClearFailure()
		}
	}

	a.inputManager.PostUpdate()
	a.limiter.Wait()
}

func (a *App) handleEvents() {
	for e, ok := a.window.NextEvent(); ok; e, ok = a.window.NextEvent() {
		switch e.Type {
		case input.EventQuit:
			a.window.Close()
		case input.EventFramebufferResized:
			a.renderer.Resize(e.Width, e.Height)
		case input.EventWindowResized:
			a.scene.Resize(float32(e.Width), float32(e.Height))
		}
		a.inputManager.HandleEvent(e)
	}
	if n := a.window.DroppedEvents(); n > 0 && a.inputManager.JustPressed(input.ActionToggleStats) {
		log.Printf("demo: %d input events dropped so far", n)
	}
}

func (a *App) update(dt float32) {
	im := a.inputManager
	cam := a.renderer.Camera()

	if im.JustPressed(input.ActionQuit) {
		a.window.Close()
	}
	if im.JustPressed(input.ActionToggleStats) {
		a.hud.Toggle()
	}
	if im.JustPressed(input.ActionResetCamera) {
		cam.Position = mgl32.Vec2{}
		cam.SetZoom(1)
	}

	speed := float32(panSpeed)
	if im.IsActive(input.ActionModShift) {
		speed *= 3
	}
	step := speed * dt / cam.Zoom
	if im.IsActive(input.ActionPanLeft) {
		cam.Pan(-step, 0)
	}
	if im.IsActive(input.ActionPanRight) {
		cam.Pan(step, 0)
	}
	if im.IsActive(input.ActionPanUp) {
		cam.Pan(0, -step)
	}
	if im.IsActive(input.ActionPanDown) {
		cam.Pan(0, step)
	}

	zoom := cam.Zoom
	if im.IsActive(input.ActionZoomIn) {
		zoom *= 1 + (zoomSpeed-1)*dt
	}
	if im.IsActive(input.ActionZoomOut) {
		zoom /= 1 + (zoomSpeed-1)*dt
	}
	if s := im.Scroll(); s != 0 {
		zoom *= 1 + float32(s)*0.1
	}
	cam.SetZoom(zoom)

	if im.JustPressed(input.ActionSpawn) || im.JustPressed(input.ActionMouseLeft) {
		x, y := im.Cursor()
		p := cam.ScreenToWorld(float32(x), float32(y))
		a.scene.Spawn(p.X(), p.Y())
	}
	a.scene.Update(dt)
}

func (a *App) render() {
	r := a.renderer
	r.ResetStats()

	r.SetDrawColor(a.cfg.Renderer.ClearColor.RGBA())
	r.Clear()

	a.scene.Draw(r, a.sprite)
	if err := r.Flush(); err != nil {
		log.Printf("demo: flush: %v", err)
	}

	lines := a.hud.Lines(r.Stats(), r.Camera(), fmt.Sprintf("Sprites: %d", a.scene.Len()), "WASD pan, +/- zoom, space spawn, F3 stats")
	if err := a.hud.Draw(r, lines); err != nil {
		log.Printf("demo: hud: %v", err)
	}
}

// Destroy releases assets, the renderer and the window. Safe to call twice.
func (a *App) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	a.font.Destroy()
	a.textures.Clear()
	if a.cfg.Assets.Texture == "" && a.sprite != nil {
		if err := a.renderer.DestroyTexture(a.sprite); err != nil {
			log.Printf("demo: destroy sprite: %v", err)
		}
	}
	a.renderer.Destroy()
	a.window.Destroy()
}
