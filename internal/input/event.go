package input

// Key, MouseButton and ModifierKey carry GLFW's numeric values so the
// platform layer converts with a plain cast.
type (
	Key         int
	MouseButton int
	ModifierKey int
)

const (
	KeySpace     Key = 32
	KeyA         Key = 65
	KeyD         Key = 68
	KeyE         Key = 69
	KeyQ         Key = 81
	KeyR         Key = 82
	KeyS         Key = 83
	KeyW         Key = 87
	KeyEscape    Key = 256
	KeyRight     Key = 262
	KeyLeft      Key = 263
	KeyDown      Key = 264
	KeyUp        Key = 265
	KeyF3        Key = 292
	KeyKPAdd     Key = 334
	KeyKPSub     Key = 333
	KeyEqual     Key = 61
	KeyMinus     Key = 45
	KeyLeftShift Key = 340
)

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)

const (
	ModShift   ModifierKey = 0x0001
	ModControl ModifierKey = 0x0002
	ModAlt     ModifierKey = 0x0004
	ModSuper   ModifierKey = 0x0008
)

// EventType identifies the kind of window or input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowMoved
	EventWindowResized
	EventWindowGainFocus
	EventWindowLostFocus
	EventFramebufferResized
	EventKeyPressed
	EventKeyReleased
	EventKeyRepeated
	EventChar
	EventMouseButtonPressed
	EventMouseButtonReleased
	EventCursorMoved
	EventCursorEntered
	EventCursorLeft
	EventScroll
)

var eventNames = [...]string{
	EventNone:                "none",
	EventQuit:                "quit",
	EventWindowMoved:         "window-moved",
	EventWindowResized:       "window-resized",
	EventWindowGainFocus:     "window-gain-focus",
	EventWindowLostFocus:     "window-lost-focus",
	EventFramebufferResized:  "framebuffer-resized",
	EventKeyPressed:          "key-pressed",
	EventKeyReleased:         "key-released",
	EventKeyRepeated:         "key-repeated",
	EventChar:                "char",
	EventMouseButtonPressed:  "mouse-button-pressed",
	EventMouseButtonReleased: "mouse-button-released",
	EventCursorMoved:         "cursor-moved",
	EventCursorEntered:       "cursor-entered",
	EventCursorLeft:          "cursor-left",
	EventScroll:              "scroll",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[t]
}

// Event is one window or input event. Only the fields matching Type are set.
type Event struct {
	Type EventType

	// window position, cursor position
	X, Y int
	// window or framebuffer size
	Width, Height int

	Key      Key
	Scancode int
	Mods     ModifierKey
	Button   MouseButton
	Char     rune

	ScrollX, ScrollY float64
}
