package batch

import (
	"unsafe"

	"mini2d/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxTextureSlots is the number of sampler slots per batch; slot 0 means untextured.
const MaxTextureSlots = 8

// Mode selects how End turns the vertex stream into primitives.
type Mode int

const (
	Triangles Mode = iota
	Quads
)

func (m Mode) String() string {
	switch m {
	case Triangles:
		return "triangles"
	case Quads:
		return "quads"
	}
	return "unknown"
}

// VerticesPerPrimitive is 3 for Triangles and 4 for Quads.
func (m Mode) VerticesPerPrimitive() int {
	if m == Quads {
		return 4
	}
	return 3
}

// IndicesPerPrimitive is 3 for Triangles and 6 for Quads (two triangles).
func (m Mode) IndicesPerPrimitive() int {
	if m == Quads {
		return 6
	}
	return 3
}

// Vertex: pos3 + color4 + uv2 + slot1 => 10 floats, tightly packed.
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
	UV       mgl32.Vec2
	Slot     float32 // 0 = vertex color, 1..7 = sampler slot
}

// VertexSize is the stride of Vertex in bytes.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// Layout matches the attribute locations of the default shader.
var Layout = gpu.VertexLayout{
	Stride: int32(VertexSize),
	Attributes: []gpu.VertexAttrib{
		{Location: 0, Size: 3, Type: gpu.AttribFloat32, Offset: int(unsafe.Offsetof(Vertex{}.Position))},
		{Location: 1, Size: 4, Type: gpu.AttribFloat32, Offset: int(unsafe.Offsetof(Vertex{}.Color))},
		{Location: 2, Size: 2, Type: gpu.AttribFloat32, Offset: int(unsafe.Offsetof(Vertex{}.UV))},
		{Location: 3, Size: 1, Type: gpu.AttribFloat32, Offset: int(unsafe.Offsetof(Vertex{}.Slot))},
	},
}

// Textured reports whether the vertex samples a texture instead of using its color.
func (v Vertex) Textured() bool { return v.Slot > 0 }
