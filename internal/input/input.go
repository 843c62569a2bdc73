package input

import (
	"sync"
)

// Action represents a logical demo action, not a physical key
type Action int

// Action constants using iota
const (
	ActionQuit Action = iota
	ActionPanLeft
	ActionPanRight
	ActionPanUp
	ActionPanDown
	ActionZoomIn
	ActionZoomOut
	ActionResetCamera
	ActionToggleStats
	ActionSpawn
	ActionMouseLeft
	ActionMouseRight
	ActionMouseMiddle
	ActionModShift
	ActionCount // Sentinel value for array sizing
)

// InputManager maps physical keys/buttons to logical actions and tracks
// their state across frames
type InputManager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[Key][]Action

	// Mouse button to action mapping
	mouseButtonToActions map[MouseButton][]Action

	// Current frame state (indexed by Action)
	currentState [ActionCount]bool

	// Just pressed/released flags (reset each frame)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	cursorX, cursorY float64
	scrollY          float64
}

// NewInputManager creates a new InputManager with default key bindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions:         make(map[Key][]Action),
		mouseButtonToActions: make(map[MouseButton][]Action),
	}

	im.BindKey(KeyEscape, ActionQuit)
	im.BindKey(KeyA, ActionPanLeft)
	im.BindKey(KeyLeft, ActionPanLeft)
	im.BindKey(KeyD, ActionPanRight)
	im.BindKey(KeyRight, ActionPanRight)
	im.BindKey(KeyW, ActionPanUp)
	im.BindKey(KeyUp, ActionPanUp)
	im.BindKey(KeyS, ActionPanDown)
	im.BindKey(KeyDown, ActionPanDown)
	im.BindKey(KeyEqual, ActionZoomIn)
	im.BindKey(KeyKPAdd, ActionZoomIn)
	im.BindKey(KeyMinus, ActionZoomOut)
	im.BindKey(KeyKPSub, ActionZoomOut)
	im.BindKey(KeyR, ActionResetCamera)
	im.BindKey(KeyF3, ActionToggleStats)
	im.BindKey(KeySpace, ActionSpawn)
	im.BindKey(KeyLeftShift, ActionModShift)

	im.BindMouseButton(MouseButtonLeft, ActionMouseLeft)
	im.BindMouseButton(MouseButtonRight, ActionMouseRight)
	im.BindMouseButton(MouseButtonMiddle, ActionMouseMiddle)

	return im
}

// BindKey binds a physical key to a logical action
// Multiple keys can be bound to the same action (e.g., WASD and arrow keys)
func (im *InputManager) BindKey(key Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (im *InputManager) UnbindKey(key Key) {
	im.mu.Lock()
	defer im.mu.Unlock()

	delete(im.keyToActions, key)
}

// BindMouseButton binds a mouse button to a logical action
func (im *InputManager) BindMouseButton(button MouseButton, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.mouseButtonToActions[button] = append(im.mouseButtonToActions[button], action)
}

// HandleEvent updates action state from one queued event. Unrelated events
// are ignored.
func (im *InputManager) HandleEvent(e Event) {
	im.mu.Lock()
	defer im.mu.Unlock()

	switch e.Type {
	case EventKeyPressed, EventKeyRepeated:
		im.apply(im.keyToActions[e.Key], true)
	case EventKeyReleased:
		im.apply(im.keyToActions[e.Key], false)
	case EventMouseButtonPressed:
		im.apply(im.mouseButtonToActions[e.Button], true)
	case EventMouseButtonReleased:
		im.apply(im.mouseButtonToActions[e.Button], false)
	case EventCursorMoved:
		im.cursorX, im.cursorY = float64(e.X), float64(e.Y)
	case EventScroll:
		im.scrollY += e.ScrollY
	case EventWindowLostFocus:
		// Keys released while unfocused never report; drop held state.
		for i := range im.currentState {
			if im.currentState[i] {
				im.justReleased[i] = true
			}
			im.currentState[i] = false
		}
	}
}

func (im *InputManager) apply(actions []Action, isPressed bool) {
	for _, act := range actions {
		// Detect edges immediately when event arrives
		if isPressed && !im.currentState[act] {
			im.justPressed[act] = true
		}
		if !isPressed && im.currentState[act] {
			im.justReleased[act] = true
		}
		im.currentState[act] = isPressed
	}
}

// PostUpdate must be called at the end of each frame to reset edge detection states
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()

	for i := range ActionCount {
		im.justPressed[i] = false
		im.justReleased[i] = false
	}
	im.scrollY = 0
}

// IsActive returns true if the action is currently being held down
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (im *InputManager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justReleased[action]
}

// Cursor returns the last reported cursor position in window coordinates.
func (im *InputManager) Cursor() (float64, float64) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.cursorX, im.cursorY
}

// Scroll returns the vertical scroll accumulated this frame.
func (im *InputManager) Scroll() float64 {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.scrollY
}
