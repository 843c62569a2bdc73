package batch

import (
	"mini2d/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// State of the begin/vertex/end machine.
type State int

const (
	Idle State = iota
	Building
)

func (s State) String() string {
	if s == Building {
		return "building"
	}
	return "idle"
}

// Pending holds the attributes applied to the next emitted vertex. Color and
// UV persist between vertices; Slot falls back to 0 after every emit.
type Pending struct {
	Color mgl32.Vec4
	UV    mgl32.Vec2
	Slot  int
}

// Result summarizes what End did with the vertices of one batch.
type Result struct {
	Mode       Mode
	Vertices   int // vertices stored since Begin
	Primitives int // primitives indexed
	Dropped    int // primitives lost to index or vertex overflow
	Leftover   int // trailing vertices that did not complete a primitive
}

// Assembler turns a begin/vertex/end stream into indexed primitives inside a
// GeometryBuffer, recording texture use in a SlotTable.
type Assembler struct {
	buf   *GeometryBuffer
	slots *SlotTable

	state    State
	mode     Mode
	start    int // buffer index of the first vertex of this batch
	count    int
	overflow int // vertices rejected since Begin
	pending  Pending
}

// NewAssembler creates an idle assembler writing into buf and slots.
func NewAssembler(buf *GeometryBuffer, slots *SlotTable) *Assembler {
	return &Assembler{
		buf:     buf,
		slots:   slots,
		pending: Pending{Color: mgl32.Vec4{1, 1, 1, 1}},
	}
}

// Begin starts a batch in the given mode.
func (a *Assembler) Begin(mode Mode) error {
	if a.state == Building {
		return ErrAlreadyBuilding
	}
	a.state = Building
	a.mode = mode
	a.start = a.buf.VertexCount()
	a.count = 0
	a.overflow = 0
	a.pending.Slot = 0
	return nil
}

// Color sets the color of the following vertices.
func (a *Assembler) Color(c mgl32.Vec4) error {
	if a.state != Building {
		return ErrNotBuilding
	}
	a.pending.Color = c
	return nil
}

// Texture makes the next vertex sample tex at (u, v) through slot. An invalid
// slot or nil texture leaves the pending vertex untouched.
func (a *Assembler) Texture(tex gpu.TextureID, u, v float32, slot int) error {
	if a.state != Building {
		return ErrNotBuilding
	}
	if err := a.slots.Set(slot, tex); err != nil {
		return err
	}
	a.pending.UV = mgl32.Vec2{u, v}
	a.pending.Slot = slot
	return nil
}

// Vertex seals the pending attributes at (x, y, z) and appends a copy to the
// buffer.
func (a *Assembler) Vertex(x, y, z float32) error {
	if a.state != Building {
		return ErrNotBuilding
	}
	v := Vertex{
		Position: mgl32.Vec3{x, y, z},
		Color:    a.pending.Color,
		UV:       a.pending.UV,
		Slot:     float32(a.pending.Slot),
	}
	a.pending.Slot = 0
	if _, err := a.buf.AppendVertex(v); err != nil {
		a.overflow++
		return err
	}
	a.count++
	return nil
}

// End indexes every complete primitive of the batch and returns to Idle.
// Trailing vertices stay in the buffer without indices; they are reported
// through an *IncompleteError. Index overflow drops the remaining
// primitives and is returned instead.
func (a *Assembler) End() (Result, error) {
	if a.state != Building {
		return Result{}, ErrNotBuilding
	}
	a.state = Idle

	per := a.mode.VerticesPerPrimitive()
	res := Result{Mode: a.mode, Vertices: a.count, Leftover: a.count % per}
	full := a.count / per

	var err error
	for p := 0; p < full; p++ {
		base := uint32(a.start + p*per)
		if a.mode == Quads {
			err = a.buf.AppendQuad(base)
		} else {
			err = a.buf.AppendTriangle(base, base+1, base+2)
		}
		if err != nil {
			res.Dropped += full - p
			break
		}
		res.Primitives++
	}

	if a.overflow > 0 {
		// Rejected vertices never formed a primitive of their own; count
		// the ones they would have completed together with the leftover.
		res.Dropped += (res.Leftover + a.overflow) / per
		if err == nil {
			err = ErrVertexOverflow
		}
	}
	if err == nil && res.Leftover > 0 {
		err = &IncompleteError{Mode: a.mode, Leftover: res.Leftover}
	}
	return res, err
}

// Cancel abandons the current batch. Vertices already stored stay
// un-indexed until the buffer is reset.
func (a *Assembler) Cancel() {
	a.state = Idle
	a.pending.Slot = 0
}

func (a *Assembler) State() State     { return a.state }
func (a *Assembler) Mode() Mode       { return a.mode }
func (a *Assembler) Count() int       { return a.count }
func (a *Assembler) Pending() Pending { return a.pending }
func (a *Assembler) Building() bool   { return a.state == Building }
