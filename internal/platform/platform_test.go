package platform

import (
	"errors"
	"testing"

	"mini2d/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestContextRefCount(t *testing.T) {
	inits, terms := 0, 0
	c := newContext(func() error { inits++; return nil }, func() { terms++ })

	_ = c.Acquire()
	_ = c.Acquire()
	if inits != 1 || c.Refs() != 2 {
		t.Fatalf("inits %d refs %d", inits, c.Refs())
	}
	c.Release()
	if terms != 0 {
		t.Fatalf("terminated with a live reference")
	}
	c.Release()
	c.Release()
	if terms != 1 || c.Refs() != 0 {
		t.Fatalf("terms %d refs %d", terms, c.Refs())
	}

	// A new acquire after full release initializes again.
	_ = c.Acquire()
	if inits != 2 {
		t.Fatalf("re-init: got %d, want 2", inits)
	}
}

func TestContextInitFailure(t *testing.T) {
	boom := errors.New("no display")
	c := newContext(func() error { return boom }, func() { t.Fatalf("terminate without init") })
	if err := c.Acquire(); !errors.Is(err, ErrInit) {
		t.Fatalf("got %v, want ErrInit", err)
	}
	if c.Refs() != 0 {
		t.Fatalf("failed acquire kept a reference")
	}
	c.Release()
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		action glfw.Action
		want   input.EventType
	}{
		{glfw.Press, input.EventKeyPressed},
		{glfw.Release, input.EventKeyReleased},
		{glfw.Repeat, input.EventKeyRepeated},
	}
	for _, tt := range tests {
		e, ok := keyEvent(glfw.KeyA, 30, tt.action, glfw.ModShift)
		if !ok || e.Type != tt.want {
			t.Fatalf("action %v: got %v, want %v", tt.action, e.Type, tt.want)
		}
		if e.Key != input.KeyA || e.Scancode != 30 || e.Mods != input.ModShift {
			t.Fatalf("fields not carried over: %+v", e)
		}
	}
	if _, ok := keyEvent(glfw.KeyA, 0, glfw.Action(42), 0); ok {
		t.Fatalf("unknown action accepted")
	}
}

func TestMouseButtonEvent(t *testing.T) {
	e, ok := mouseButtonEvent(glfw.MouseButtonRight, glfw.Press, 0)
	if !ok || e.Type != input.EventMouseButtonPressed || e.Button != input.MouseButtonRight {
		t.Fatalf("press: %+v", e)
	}
	if _, ok := mouseButtonEvent(glfw.MouseButtonLeft, glfw.Repeat, 0); ok {
		t.Fatalf("mouse buttons do not repeat")
	}
	if focusEvent(false).Type != input.EventWindowLostFocus {
		t.Fatalf("focus lost event")
	}
}

func TestGLFWConstantsMatchInput(t *testing.T) {
	pairs := []struct {
		got, want int
	}{
		{int(glfw.KeyEscape), int(input.KeyEscape)},
		{int(glfw.KeySpace), int(input.KeySpace)},
		{int(glfw.KeyF3), int(input.KeyF3)},
		{int(glfw.KeyKPAdd), int(input.KeyKPAdd)},
		{int(glfw.KeyKPSubtract), int(input.KeyKPSub)},
		{int(glfw.KeyLeftShift), int(input.KeyLeftShift)},
		{int(glfw.KeyUp), int(input.KeyUp)},
		{int(glfw.MouseButtonMiddle), int(input.MouseButtonMiddle)},
		{int(glfw.ModAlt), int(input.ModAlt)},
	}
	for i, p := range pairs {
		if p.got != p.want {
			t.Fatalf("pair %d: got %d, want %d", i, p.got, p.want)
		}
	}
}
