package batch

import (
	"errors"
	"fmt"
)

// Capacity errors. The offending vertex or primitive is dropped and the
// buffer is left untouched.
var (
	ErrVertexOverflow  = errors.New("batch: vertex buffer overflow")
	ErrIndexOverflow   = errors.New("batch: index buffer overflow")
	ErrIndexOutOfRange = errors.New("batch: index refers to a vertex that was never appended")
	ErrInvalidSlot     = errors.New("batch: invalid texture slot")
	ErrSlotsExhausted  = errors.New("batch: all texture slots are in use")
	ErrSlotInUse       = errors.New("batch: texture slot holds another texture")
)

// Resource errors.
var ErrNilTexture = errors.New("batch: nil texture")

// Misuse errors: calls made out of begin/vertex/end order.
var (
	ErrNotBuilding     = errors.New("batch: no batch in progress")
	ErrAlreadyBuilding = errors.New("batch: batch already in progress")
)

// ErrIncompletePrimitive is matched by *IncompleteError.
var ErrIncompletePrimitive = errors.New("batch: incomplete primitive")

// IncompleteError reports trailing vertices that End could not index.
type IncompleteError struct {
	Mode     Mode
	Leftover int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("batch: %d trailing vertices do not complete a %s primitive", e.Leftover, e.Mode)
}

func (e *IncompleteError) Unwrap() error { return ErrIncompletePrimitive }
