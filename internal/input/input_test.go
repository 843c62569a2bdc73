package input

import "testing"

func TestQueueOrder(t *testing.T) {
	q := NewQueue(4)
	for i := 0; i < 3; i++ {
		q.Push(Event{Type: EventCursorMoved, X: i})
	}
	for i := 0; i < 3; i++ {
		e, ok := q.Next()
		if !ok || e.X != i {
			t.Fatalf("event %d: got %+v ok=%v", i, e, ok)
		}
	}
	if _, ok := q.Next(); ok {
		t.Fatalf("empty queue returned an event")
	}
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewQueue(3)
	for i := 0; i < 5; i++ {
		q.Push(Event{Type: EventScroll, X: i})
	}
	if q.Len() != 3 || q.Dropped() != 2 {
		t.Fatalf("len %d dropped %d", q.Len(), q.Dropped())
	}
	for want := 2; want < 5; want++ {
		e, _ := q.Next()
		if e.X != want {
			t.Fatalf("got %d, want %d", e.X, want)
		}
	}
}

func TestQueueReset(t *testing.T) {
	q := NewQueue(0)
	if q.Cap() != DefaultQueueSize {
		t.Fatalf("cap: got %d, want %d", q.Cap(), DefaultQueueSize)
	}
	q.Push(Event{Type: EventQuit})
	q.Reset()
	if _, ok := q.Next(); ok || q.Len() != 0 {
		t.Fatalf("reset queue still holds events")
	}
	// Wrap around after reset.
	for i := 0; i < DefaultQueueSize+1; i++ {
		q.Push(Event{X: i})
	}
	if e, _ := q.Next(); e.X != 1 {
		t.Fatalf("oldest after wrap: got %d, want 1", e.X)
	}
}

func TestEventTypeString(t *testing.T) {
	if EventFramebufferResized.String() != "framebuffer-resized" {
		t.Fatalf("got %q", EventFramebufferResized.String())
	}
	if EventType(99).String() != "unknown" {
		t.Fatalf("out of range type should be unknown")
	}
}

func TestActionEdges(t *testing.T) {
	im := NewInputManager()
	im.HandleEvent(Event{Type: EventKeyPressed, Key: KeyA})
	if !im.IsActive(ActionPanLeft) || !im.JustPressed(ActionPanLeft) {
		t.Fatalf("press not registered")
	}
	im.PostUpdate()
	if !im.IsActive(ActionPanLeft) || im.JustPressed(ActionPanLeft) {
		t.Fatalf("edge should clear after PostUpdate while held")
	}
	im.HandleEvent(Event{Type: EventKeyRepeated, Key: KeyA})
	if im.JustPressed(ActionPanLeft) {
		t.Fatalf("repeat should not count as a new press")
	}
	im.HandleEvent(Event{Type: EventKeyReleased, Key: KeyA})
	if im.IsActive(ActionPanLeft) || !im.JustReleased(ActionPanLeft) {
		t.Fatalf("release not registered")
	}
}

func TestBindings(t *testing.T) {
	im := NewInputManager()
	im.HandleEvent(Event{Type: EventKeyPressed, Key: KeyLeft})
	if !im.IsActive(ActionPanLeft) {
		t.Fatalf("arrow key should share the pan binding")
	}
	im.UnbindKey(KeyEscape)
	im.HandleEvent(Event{Type: EventKeyPressed, Key: KeyEscape})
	if im.IsActive(ActionQuit) {
		t.Fatalf("unbound key still triggers")
	}
	im.BindKey(KeyQ, ActionQuit)
	im.BindKey(KeyQ, ActionCount) // ignored
	im.HandleEvent(Event{Type: EventKeyPressed, Key: KeyQ})
	if !im.JustPressed(ActionQuit) {
		t.Fatalf("rebound key not registered")
	}
	if im.IsActive(ActionCount) || im.IsActive(-1) {
		t.Fatalf("out of range action reported active")
	}
}

func TestMouseAndFocus(t *testing.T) {
	im := NewInputManager()
	im.HandleEvent(Event{Type: EventMouseButtonPressed, Button: MouseButtonLeft})
	im.HandleEvent(Event{Type: EventCursorMoved, X: 12, Y: 34})
	im.HandleEvent(Event{Type: EventScroll, ScrollY: 1})
	im.HandleEvent(Event{Type: EventScroll, ScrollY: 0.5})

	if !im.IsActive(ActionMouseLeft) {
		t.Fatalf("mouse button not registered")
	}
	if x, y := im.Cursor(); x != 12 || y != 34 {
		t.Fatalf("cursor: %v,%v", x, y)
	}
	if im.Scroll() != 1.5 {
		t.Fatalf("scroll: %v", im.Scroll())
	}
	im.PostUpdate()
	if im.Scroll() != 0 {
		t.Fatalf("scroll should reset per frame")
	}

	im.HandleEvent(Event{Type: EventWindowLostFocus})
	if im.IsActive(ActionMouseLeft) || !im.JustReleased(ActionMouseLeft) {
		t.Fatalf("losing focus should release held actions")
	}
}
