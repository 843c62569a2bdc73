package platform

import (
	"fmt"

	"mini2d/internal/config"
	"mini2d/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a GLFW window with a current OpenGL 4.1 core context. Callbacks
// feed a fixed-size event queue that the frame loop drains with NextEvent.
type Window struct {
	ctx    *Context
	win    *glfw.Window
	events *input.Queue
}

// NewWindow acquires ctx and opens a window configured by cfg. The window's
// GL context is made current on the calling thread.
func (c *Context) NewWindow(cfg config.Window) (*Window, error) {
	if err := c.Acquire(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, boolHint(cfg.Resizable))

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("%w: %v", ErrWindowCreate, err)
	}
	win.MakeContextCurrent()

	w := &Window{ctx: c, win: win, events: input.NewQueue(input.DefaultQueueSize)}
	w.SetVSync(cfg.VSync)
	w.installCallbacks()
	return w, nil
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func (w *Window) installCallbacks() {
	push := w.events.Push

	w.win.SetCloseCallback(func(_ *glfw.Window) {
		push(input.Event{Type: input.EventQuit})
	})
	w.win.SetPosCallback(func(_ *glfw.Window, x, y int) {
		push(input.Event{Type: input.EventWindowMoved, X: x, Y: y})
	})
	w.win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		push(input.Event{Type: input.EventWindowResized, Width: width, Height: height})
	})
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		push(input.Event{Type: input.EventFramebufferResized, Width: width, Height: height})
	})
	w.win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		push(focusEvent(focused))
	})
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if e, ok := keyEvent(key, scancode, action, mods); ok {
			push(e)
		}
	})
	w.win.SetCharCallback(func(_ *glfw.Window, char rune) {
		push(input.Event{Type: input.EventChar, Char: char})
	})
	w.win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if e, ok := mouseButtonEvent(button, action, mods); ok {
			push(e)
		}
	})
	w.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		push(input.Event{Type: input.EventCursorMoved, X: int(x), Y: int(y)})
	})
	w.win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if entered {
			push(input.Event{Type: input.EventCursorEntered})
		} else {
			push(input.Event{Type: input.EventCursorLeft})
		}
	})
	w.win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		push(input.Event{Type: input.EventScroll, ScrollX: xoff, ScrollY: yoff})
	})
}

func focusEvent(focused bool) input.Event {
	if focused {
		return input.Event{Type: input.EventWindowGainFocus}
	}
	return input.Event{Type: input.EventWindowLostFocus}
}

func keyEvent(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) (input.Event, bool) {
	e := input.Event{Key: input.Key(key), Scancode: scancode, Mods: input.ModifierKey(mods)}
	switch action {
	case glfw.Press:
		e.Type = input.EventKeyPressed
	case glfw.Release:
		e.Type = input.EventKeyReleased
	case glfw.Repeat:
		e.Type = input.EventKeyRepeated
	default:
		return input.Event{}, false
	}
	return e, true
}

func mouseButtonEvent(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) (input.Event, bool) {
	e := input.Event{Button: input.MouseButton(button), Mods: input.ModifierKey(mods)}
	switch action {
	case glfw.Press:
		e.Type = input.EventMouseButtonPressed
	case glfw.Release:
		e.Type = input.EventMouseButtonReleased
	default:
		return input.Event{}, false
	}
	return e, true
}

// PollEvents discards events left over from the previous frame and collects
// the ones GLFW has pending.
func (w *Window) PollEvents() {
	w.events.Reset()
	glfw.PollEvents()
}

// NextEvent pops the oldest queued event.
func (w *Window) NextEvent() (input.Event, bool) { return w.events.Next() }

// DroppedEvents reports how many events were overwritten by a full queue.
func (w *Window) DroppedEvents() int { return w.events.Dropped() }

func (w *Window) FramebufferSize() (int, int) { return w.win.GetFramebufferSize() }
func (w *Window) Size() (int, int)            { return w.win.GetSize() }
func (w *Window) SwapBuffers()                { w.win.SwapBuffers() }
func (w *Window) ShouldClose() bool           { return w.win.ShouldClose() }
func (w *Window) Close()                      { w.win.SetShouldClose(true) }
func (w *Window) SetTitle(title string)       { w.win.SetTitle(title) }

// SetVSync toggles waiting for vertical blank on buffer swaps.
func (w *Window) SetVSync(enabled bool) {
	if enabled {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

// Destroy closes the window and releases its context reference.
func (w *Window) Destroy() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	w.ctx.Release()
}
