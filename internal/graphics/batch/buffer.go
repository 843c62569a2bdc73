package batch

import "unsafe"

// IndexCapacity returns the index capacity paired with maxVertices: enough
// for every vertex to belong to a quad drawn as two triangles.
func IndexCapacity(maxVertices int) int { return maxVertices * 6 / 4 }

// GeometryBuffer is a fixed-capacity arena of vertices and indices. Storage
// is allocated once; Reset only rewinds the live counts.
type GeometryBuffer struct {
	vertices []Vertex
	indices  []uint32
	nv       int
	ni       int
}

// NewGeometryBuffer allocates room for maxVertices vertices and
// IndexCapacity(maxVertices) indices.
func NewGeometryBuffer(maxVertices int) *GeometryBuffer {
	if maxVertices < 4 {
		maxVertices = 4
	}
	return &GeometryBuffer{
		vertices: make([]Vertex, maxVertices),
		indices:  make([]uint32, IndexCapacity(maxVertices)),
	}
}

// AppendVertex copies v into the buffer and returns its index.
func (b *GeometryBuffer) AppendVertex(v Vertex) (uint32, error) {
	if b.nv == len(b.vertices) {
		return 0, ErrVertexOverflow
	}
	b.vertices[b.nv] = v
	b.nv++
	return uint32(b.nv - 1), nil
}

// AppendTriangle appends three indices, or nothing.
func (b *GeometryBuffer) AppendTriangle(i0, i1, i2 uint32) error {
	if b.ni+3 > len(b.indices) {
		return ErrIndexOverflow
	}
	n := uint32(b.nv)
	if i0 >= n || i1 >= n || i2 >= n {
		return ErrIndexOutOfRange
	}
	b.indices[b.ni+0] = i0
	b.indices[b.ni+1] = i1
	b.indices[b.ni+2] = i2
	b.ni += 3
	return nil
}

// AppendQuad appends the fan (0,1,2, 2,3,0) relative to base, or nothing.
func (b *GeometryBuffer) AppendQuad(base uint32) error {
	if b.ni+6 > len(b.indices) {
		return ErrIndexOverflow
	}
	if base+3 >= uint32(b.nv) {
		return ErrIndexOutOfRange
	}
	dst := b.indices[b.ni : b.ni+6]
	dst[0], dst[1], dst[2] = base+0, base+1, base+2
	dst[3], dst[4], dst[5] = base+2, base+3, base+0
	b.ni += 6
	return nil
}

// Reset rewinds both counts to zero without releasing storage.
func (b *GeometryBuffer) Reset() {
	b.nv = 0
	b.ni = 0
}

// Vertices returns the live vertex range. It aliases the buffer.
func (b *GeometryBuffer) Vertices() []Vertex { return b.vertices[:b.nv] }

// Indices returns the live index range. It aliases the buffer.
func (b *GeometryBuffer) Indices() []uint32 { return b.indices[:b.ni] }

// VertexBytes returns the live vertex range as raw bytes for upload.
func (b *GeometryBuffer) VertexBytes() []byte {
	if b.nv == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.vertices[0])), b.nv*VertexSize)
}

func (b *GeometryBuffer) VertexCount() int { return b.nv }
func (b *GeometryBuffer) IndexCount() int  { return b.ni }
func (b *GeometryBuffer) VertexCap() int   { return len(b.vertices) }
func (b *GeometryBuffer) IndexCap() int    { return len(b.indices) }
