package gpu

import "github.com/go-gl/mathgl/mgl32"

// Handles returned by a Device. Zero is never a valid handle.
type (
	TextureID uint32
	ProgramID uint32
	MeshID    uint32
)

// AttribType is the component type of a vertex attribute.
type AttribType int

const (
	AttribFloat32 AttribType = iota
)

// VertexAttrib describes one attribute inside an interleaved vertex.
type VertexAttrib struct {
	Location uint32
	Size     int32 // component count
	Type     AttribType
	Offset   int // bytes from vertex start
}

// VertexLayout describes the interleaved vertex format of a mesh.
type VertexLayout struct {
	Stride     int32 // bytes per vertex
	Attributes []VertexAttrib
}

// PixelFormat is the layout of caller supplied texture bytes.
type PixelFormat int

const (
	FormatRGB PixelFormat = iota
	FormatRGBA
)

// FormatForChannels maps a channel count (3 or 4) to a PixelFormat.
func FormatForChannels(channels int) (PixelFormat, error) {
	switch channels {
	case 3:
		return FormatRGB, nil
	case 4:
		return FormatRGBA, nil
	}
	return 0, ErrUnsupportedChannels
}

// BytesPerPixel returns the size of one pixel in f.
func (f PixelFormat) BytesPerPixel() int {
	if f == FormatRGB {
		return 3
	}
	return 4
}

// Info holds the driver identification strings.
type Info struct {
	Vendor   string
	Renderer string
	Version  string
}

// Device is the subset of the graphics API the renderer drives. All calls
// must happen on the thread that owns the context.
type Device interface {
	Info() Info
	Viewport(width, height int)
	Clear(color mgl32.Vec4)

	CompileProgram(vertexSrc, fragmentSrc string) (ProgramID, error)
	DeleteProgram(p ProgramID)
	UseProgram(p ProgramID)
	// UniformLocation returns -1 when the program has no active uniform with that name.
	UniformLocation(p ProgramID, name string) int32
	SetUniformInts(loc int32, v []int32)
	SetUniformFloats(loc int32, components int, v []float32)
	SetUniformMat4(loc int32, m mgl32.Mat4)

	// CreateMesh allocates vertex and index storage once; UploadMesh only
	// rewrites the leading sub-range.
	CreateMesh(layout VertexLayout, maxVertices, maxIndices int) (MeshID, error)
	UploadMesh(m MeshID, vertices []byte, indices []uint32)
	DrawIndexed(m MeshID, count int)
	DeleteMesh(m MeshID)

	CreateTexture(width, height int, format PixelFormat, pixels []byte) (TextureID, error)
	// ReplaceTexture reallocates storage for new dimensions, keeping the handle.
	ReplaceTexture(t TextureID, width, height int, format PixelFormat, pixels []byte)
	// UpdateTexture overwrites existing storage without reallocating.
	UpdateTexture(t TextureID, width, height int, format PixelFormat, pixels []byte)
	BindTexture(unit int, t TextureID)
	DeleteTexture(t TextureID)

	// Err drains pending driver errors; nil when none were raised.
	Err() error
}
