package hud

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"mini2d/internal/graphics"
	"mini2d/internal/graphics/renderer"
	"mini2d/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

const historySize = 60

// HUD draws the statistics overlay in window pixels on top of the scene.
type HUD struct {
	font    *graphics.Font
	visible bool

	Background color.RGBA
	Foreground color.RGBA
	Padding    float32

	// Frame timing history for averaging
	frameTimes []time.Duration
	avg        time.Duration
	minFrame   time.Duration
	maxFrame   time.Duration
	fps        float64

	lines []string
}

// New creates a visible HUD drawing with font.
func New(font *graphics.Font) *HUD {
	return &HUD{
		font:       font,
		visible:    true,
		Background: color.RGBA{0, 0, 0, 160},
		Foreground: color.RGBA{240, 240, 240, 255},
		Padding:    6,
		frameTimes: make([]time.Duration, 0, historySize),
	}
}

func (h *HUD) Toggle()       { h.visible = !h.visible }
func (h *HUD) Visible() bool { return h.visible }

// SetFPS records the most recent frame rate measurement.
func (h *HUD) SetFPS(fps float64) { h.fps = fps }

// RecordFrame adds one frame duration to the rolling history.
func (h *HUD) RecordFrame(d time.Duration) {
	if len(h.frameTimes) >= historySize {
		copy(h.frameTimes, h.frameTimes[1:])
		h.frameTimes = h.frameTimes[:historySize-1]
	}
	h.frameTimes = append(h.frameTimes, d)

	var total time.Duration
	h.minFrame, h.maxFrame = h.frameTimes[0], h.frameTimes[0]
	for _, ft := range h.frameTimes {
		total += ft
		h.minFrame = min(h.minFrame, ft)
		h.maxFrame = max(h.maxFrame, ft)
	}
	h.avg = total / time.Duration(len(h.frameTimes))
}

// FrameTimes returns the average, minimum and maximum of the history.
func (h *HUD) FrameTimes() (avg, lo, hi time.Duration) {
	return h.avg, h.minFrame, h.maxFrame
}

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000.0 }

// Lines builds the overlay text from the renderer statistics, the camera and
// the profiler's per-frame totals.
func (h *HUD) Lines(st renderer.Stats, cam *graphics.Camera, extra ...string) []string {
	lines := h.lines[:0]
	lines = append(lines, fmt.Sprintf("FPS: %.0f  frame %.2fms (min %.2f, max %.2f)", h.fps, ms(h.avg), ms(h.minFrame), ms(h.maxFrame)))
	lines = append(lines, fmt.Sprintf("Batches: %d flushes, %d draws, %d verts, %d indices", st.Flushes, st.DrawCalls, st.Vertices, st.Indices))
	lines = append(lines, fmt.Sprintf("Textures bound: %d  dropped: %d", st.Textures, st.Dropped))
	if cam != nil {
		lines = append(lines, fmt.Sprintf("Camera: %.0f, %.0f  zoom %.2f", cam.Position.X(), cam.Position.Y(), cam.Zoom))
	}
	if flushes := profiling.Calls("renderer.Flush"); flushes > 0 {
		lines = append(lines, fmt.Sprintf("Flush calls this frame: %d", flushes))
	}
	if platform := profiling.SumWithPrefix("platform."); platform > 0 {
		lines = append(lines, fmt.Sprintf("Platform: %.2fms", ms(platform)))
	}
	if top := profiling.TopN(3); top != "" {
		lines = append(lines, strings.Split(top, ", ")...)
	}
	lines = append(lines, extra...)
	h.lines = lines
	return lines
}

// Draw renders lines at the top-left corner. The camera is reset to identity
// for the overlay and restored afterwards; geometry pending under it is
// flushed first.
func (h *HUD) Draw(r *renderer.Renderer, lines []string) error {
	if !h.visible || h.font == nil || len(lines) == 0 {
		return nil
	}
	if err := r.Flush(); err != nil {
		return err
	}
	cam := r.Camera()
	pos, zoom := cam.Position, cam.Zoom
	cam.Position, cam.Zoom = mgl32.Vec2{}, 1
	defer func() { cam.Position, cam.Zoom = pos, zoom }()

	text := strings.Join(lines, "\n")
	w, th := h.font.Atlas.Measure(text, 1)

	prev := r.DrawColor()
	defer r.SetDrawColor(prev)

	r.SetDrawColor(h.Background)
	if err := r.DrawRectangle(0, 0, w+2*h.Padding, th+2*h.Padding); err != nil {
		return err
	}
	r.SetDrawColor(h.Foreground)
	if err := r.DrawText(h.font, text, h.Padding, h.Padding, 1); err != nil {
		return err
	}
	return r.Flush()
}
