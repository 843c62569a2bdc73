package batch

import (
	"errors"
	"reflect"
	"testing"

	"mini2d/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestAssembler(maxVertices int) (*Assembler, *GeometryBuffer, *SlotTable) {
	buf := NewGeometryBuffer(maxVertices)
	slots := &SlotTable{}
	return NewAssembler(buf, slots), buf, slots
}

func TestModeCounts(t *testing.T) {
	tests := []struct {
		mode              Mode
		vertices, indices int
	}{
		{Triangles, 3, 3},
		{Quads, 4, 6},
	}
	for _, tt := range tests {
		if got := tt.mode.VerticesPerPrimitive(); got != tt.vertices {
			t.Fatalf("%s vertices: got %d, want %d", tt.mode, got, tt.vertices)
		}
		if got := tt.mode.IndicesPerPrimitive(); got != tt.indices {
			t.Fatalf("%s indices: got %d, want %d", tt.mode, got, tt.indices)
		}
	}
}

func TestQuadScenario(t *testing.T) {
	a, buf, _ := newTestAssembler(64)
	if err := a.Begin(Quads); err != nil {
		t.Fatalf("begin: %v", err)
	}
	for _, p := range [][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}} {
		if err := a.Vertex(p[0], p[1], 0); err != nil {
			t.Fatalf("vertex: %v", err)
		}
	}
	res, err := a.End()
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if res.Primitives != 1 {
		t.Fatalf("primitives: got %d, want 1", res.Primitives)
	}
	if buf.VertexCount() != 4 {
		t.Fatalf("vertices: got %d, want 4", buf.VertexCount())
	}
	want := []uint32{0, 1, 2, 2, 3, 0}
	if !reflect.DeepEqual(buf.Indices(), want) {
		t.Fatalf("indices: got %v, want %v", buf.Indices(), want)
	}
}

func TestQuadRemainder(t *testing.T) {
	for n := 0; n <= 13; n++ {
		a, buf, _ := newTestAssembler(64)
		_ = a.Begin(Quads)
		for i := 0; i < n; i++ {
			_ = a.Vertex(float32(i), 0, 0)
		}
		res, err := a.End()

		if got, want := buf.VertexCount(), n; got != want {
			t.Fatalf("n=%d vertices: got %d, want %d", n, got, want)
		}
		if got, want := buf.IndexCount(), (n/4)*6; got != want {
			t.Fatalf("n=%d indices: got %d, want %d", n, got, want)
		}
		if res.Primitives != n/4 || res.Leftover != n%4 {
			t.Fatalf("n=%d result: got %+v", n, res)
		}
		if n%4 == 0 && err != nil {
			t.Fatalf("n=%d unexpected error: %v", n, err)
		}
		if n%4 != 0 {
			var inc *IncompleteError
			if !errors.As(err, &inc) || inc.Leftover != n%4 {
				t.Fatalf("n=%d expected incomplete error with leftover %d, got %v", n, n%4, err)
			}
			if !errors.Is(err, ErrIncompletePrimitive) {
				t.Fatalf("n=%d error does not match ErrIncompletePrimitive", n)
			}
		}
	}
}

func TestTriangleRemainder(t *testing.T) {
	for n := 0; n <= 10; n++ {
		a, buf, _ := newTestAssembler(64)
		_ = a.Begin(Triangles)
		for i := 0; i < n; i++ {
			_ = a.Vertex(float32(i), float32(i), 0)
		}
		res, _ := a.End()
		if got, want := buf.IndexCount(), (n/3)*3; got != want {
			t.Fatalf("n=%d indices: got %d, want %d", n, got, want)
		}
		if res.Primitives != n/3 {
			t.Fatalf("n=%d primitives: got %d, want %d", n, res.Primitives, n/3)
		}
		// Triangles index in submission order.
		for i, idx := range buf.Indices() {
			if idx != uint32(i) {
				t.Fatalf("n=%d index %d: got %d, want %d", n, i, idx, i)
			}
		}
	}
}

func TestSecondBatchIndexesFromItsOwnStart(t *testing.T) {
	a, buf, _ := newTestAssembler(64)
	_ = a.Begin(Triangles)
	for i := 0; i < 5; i++ { // 1 triangle + 2 leftover
		_ = a.Vertex(0, 0, 0)
	}
	_, _ = a.End()
	_ = a.Begin(Quads)
	for i := 0; i < 4; i++ {
		_ = a.Vertex(1, 1, 0)
	}
	if _, err := a.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	want := []uint32{0, 1, 2, 5, 6, 7, 7, 8, 5}
	if !reflect.DeepEqual(buf.Indices(), want) {
		t.Fatalf("indices: got %v, want %v", buf.Indices(), want)
	}
}

func TestVertexOverflowLeavesBufferUntouched(t *testing.T) {
	buf := NewGeometryBuffer(4)
	for i := 0; i < 4; i++ {
		if _, err := buf.AppendVertex(Vertex{Position: mgl32.Vec3{float32(i), 0, 0}}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	before := append([]Vertex(nil), buf.Vertices()...)
	if _, err := buf.AppendVertex(Vertex{Position: mgl32.Vec3{99, 99, 99}}); !errors.Is(err, ErrVertexOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if buf.VertexCount() != 4 {
		t.Fatalf("count changed: %d", buf.VertexCount())
	}
	if !reflect.DeepEqual(before, buf.Vertices()) {
		t.Fatalf("vertices mutated")
	}
}

func TestOverflowInsideBatchDropsPartialPrimitive(t *testing.T) {
	a, buf, _ := newTestAssembler(6)
	_ = a.Begin(Quads)
	var overflowed int
	for i := 0; i < 8; i++ {
		if err := a.Vertex(float32(i), 0, 0); errors.Is(err, ErrVertexOverflow) {
			overflowed++
		}
	}
	res, err := a.End()
	if overflowed != 2 {
		t.Fatalf("overflowed: got %d, want 2", overflowed)
	}
	if !errors.Is(err, ErrVertexOverflow) {
		t.Fatalf("end error: got %v, want vertex overflow", err)
	}
	if res.Primitives != 1 || res.Dropped != 1 {
		t.Fatalf("result: got %+v", res)
	}
	if buf.IndexCount() != 6 {
		t.Fatalf("indices: got %d, want 6", buf.IndexCount())
	}
}

func TestIndexOverflow(t *testing.T) {
	buf := NewGeometryBuffer(4) // 6 indices
	for i := 0; i < 4; i++ {
		_, _ = buf.AppendVertex(Vertex{})
	}
	if err := buf.AppendQuad(0); err != nil {
		t.Fatalf("first quad: %v", err)
	}
	if err := buf.AppendTriangle(0, 1, 2); !errors.Is(err, ErrIndexOverflow) {
		t.Fatalf("expected index overflow, got %v", err)
	}
	if buf.IndexCount() != 6 {
		t.Fatalf("index count changed: %d", buf.IndexCount())
	}
}

func TestIndicesMustReferenceLiveVertices(t *testing.T) {
	buf := NewGeometryBuffer(8)
	_, _ = buf.AppendVertex(Vertex{})
	_, _ = buf.AppendVertex(Vertex{})
	if err := buf.AppendTriangle(0, 1, 2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err := buf.AppendQuad(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
}

func TestResetKeepsCapacity(t *testing.T) {
	buf := NewGeometryBuffer(16)
	for i := 0; i < 4; i++ {
		_, _ = buf.AppendVertex(Vertex{})
	}
	_ = buf.AppendQuad(0)
	buf.Reset()
	if buf.VertexCount() != 0 || buf.IndexCount() != 0 {
		t.Fatalf("counts after reset: %d/%d", buf.VertexCount(), buf.IndexCount())
	}
	if buf.VertexCap() != 16 || buf.IndexCap() != 24 {
		t.Fatalf("capacity after reset: %d/%d", buf.VertexCap(), buf.IndexCap())
	}
}

func TestVertexBytes(t *testing.T) {
	buf := NewGeometryBuffer(8)
	if buf.VertexBytes() != nil {
		t.Fatalf("empty buffer should upload nothing")
	}
	_, _ = buf.AppendVertex(Vertex{})
	_, _ = buf.AppendVertex(Vertex{})
	if got, want := len(buf.VertexBytes()), 2*VertexSize; got != want {
		t.Fatalf("bytes: got %d, want %d", got, want)
	}
	if VertexSize != 10*4 {
		t.Fatalf("vertex size: got %d, want 40", VertexSize)
	}
}

func TestMisuse(t *testing.T) {
	a, _, _ := newTestAssembler(16)
	if err := a.Vertex(0, 0, 0); !errors.Is(err, ErrNotBuilding) {
		t.Fatalf("vertex while idle: %v", err)
	}
	if err := a.Color(mgl32.Vec4{1, 0, 0, 1}); !errors.Is(err, ErrNotBuilding) {
		t.Fatalf("color while idle: %v", err)
	}
	if err := a.Texture(1, 0, 0, 1); !errors.Is(err, ErrNotBuilding) {
		t.Fatalf("texture while idle: %v", err)
	}
	if _, err := a.End(); !errors.Is(err, ErrNotBuilding) {
		t.Fatalf("end while idle: %v", err)
	}
	_ = a.Begin(Triangles)
	if err := a.Begin(Quads); !errors.Is(err, ErrAlreadyBuilding) {
		t.Fatalf("nested begin: %v", err)
	}
	if a.Mode() != Triangles {
		t.Fatalf("nested begin changed mode to %v", a.Mode())
	}
}

func TestPendingAttributes(t *testing.T) {
	a, buf, slots := newTestAssembler(16)
	red := mgl32.Vec4{1, 0, 0, 1}
	_ = a.Begin(Triangles)
	_ = a.Color(red)
	_ = a.Texture(7, 0.25, 0.75, 3)
	_ = a.Vertex(1, 2, 0)
	_ = a.Vertex(3, 4, 0)
	_ = a.Texture(7, 1, 1, 9) // rejected, no-op
	_ = a.Vertex(5, 6, 0)
	_, _ = a.End()

	v := buf.Vertices()
	if v[0].Slot != 3 || v[0].UV != (mgl32.Vec2{0.25, 0.75}) || v[0].Color != red {
		t.Fatalf("first vertex: %+v", v[0])
	}
	if v[1].Slot != 0 || v[1].Textured() {
		t.Fatalf("slot should reset after emit, got %v", v[1].Slot)
	}
	if v[1].Color != red {
		t.Fatalf("color should persist, got %v", v[1].Color)
	}
	if v[2].Slot != 0 {
		t.Fatalf("rejected texture call changed slot to %v", v[2].Slot)
	}
	if slots.Get(3) != 7 || slots.Get(0) != 0 {
		t.Fatalf("slot table: %v %v", slots.Get(3), slots.Get(0))
	}
}

func TestSlotTable(t *testing.T) {
	var st SlotTable
	for slot := 1; slot <= 8; slot++ {
		err := st.Set(slot, gpu.TextureID(100+slot))
		if slot == 8 && !errors.Is(err, ErrInvalidSlot) {
			t.Fatalf("slot 8 should be rejected, got %v", err)
		}
	}
	if err := st.Set(0, 5); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("slot 0 should be rejected, got %v", err)
	}
	if st.Get(0) != 0 {
		t.Fatalf("slot 0 overwritten")
	}
	if err := st.Set(2, 0); !errors.Is(err, ErrNilTexture) {
		t.Fatalf("nil texture: %v", err)
	}
	if st.Used() != 7 {
		t.Fatalf("used: got %d, want 7", st.Used())
	}
	st.Reset()
	if st.Used() != 0 {
		t.Fatalf("used after reset: %d", st.Used())
	}
}

func TestSamplersWithSixBound(t *testing.T) {
	var st SlotTable
	for slot := 1; slot <= 6; slot++ {
		_ = st.Set(slot, gpu.TextureID(slot*10))
	}
	_ = st.Set(8, 80)
	var bound []int
	for slot, tex := range st.Bound() {
		if tex != gpu.TextureID(slot*10) {
			t.Fatalf("slot %d: got texture %d", slot, tex)
		}
		bound = append(bound, slot)
	}
	if !reflect.DeepEqual(bound, []int{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("bound slots: got %v", bound)
	}
	want := [MaxTextureSlots]int32{0, 1, 2, 3, 4, 5, 6, 0}
	if got := st.Samplers(); got != want {
		t.Fatalf("samplers: got %v, want %v", got, want)
	}
}

func TestSlotAcquire(t *testing.T) {
	var st SlotTable
	_ = st.Set(1, 10)
	s, err := st.Acquire(20)
	if err != nil || s != 2 {
		t.Fatalf("acquire new: slot %d err %v", s, err)
	}
	if s, _ = st.Acquire(10); s != 1 {
		t.Fatalf("acquire existing: got slot %d, want 1", s)
	}
	for i := 3; i < MaxTextureSlots; i++ {
		if _, err := st.Acquire(gpu.TextureID(100 + i)); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}
	if _, err := st.Acquire(999); !errors.Is(err, ErrSlotsExhausted) {
		t.Fatalf("expected exhaustion, got %v", err)
	}
	if _, err := st.Acquire(0); !errors.Is(err, ErrNilTexture) {
		t.Fatalf("expected nil texture, got %v", err)
	}
}

func BenchmarkQuadBatch(b *testing.B) {
	a, buf, _ := newTestAssembler(4096)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		_ = a.Begin(Quads)
		for q := 0; q < 1024; q++ {
			x := float32(q)
			_ = a.Vertex(x, 0, 0)
			_ = a.Vertex(x+1, 0, 0)
			_ = a.Vertex(x+1, 1, 0)
			_ = a.Vertex(x, 1, 0)
		}
		_, _ = a.End()
	}
}
