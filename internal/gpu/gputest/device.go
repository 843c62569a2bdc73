// Package gputest provides an in-memory gpu.Device that records every call
// for inspection in tests.
package gputest

import (
	"errors"
	"fmt"

	"mini2d/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Draw is one recorded DrawIndexed call together with the state it saw.
type Draw struct {
	Mesh     gpu.MeshID
	Program  gpu.ProgramID
	Count    int
	Vertices int
	Indices  []uint32
	Bound    map[int]gpu.TextureID
	Samplers []int32
}

// Texture is the recorded state of one texture object.
type Texture struct {
	Width, Height int
	Format        gpu.PixelFormat
	Pixels        []byte
	Allocations   int
	Updates       int
}

type mesh struct {
	layout      gpu.VertexLayout
	maxVertices int
	maxIndices  int
	vertices    []byte
	indices     []uint32
}

type program struct {
	vs, fs   string
	uniforms map[string]int32
}

// Device records calls instead of talking to a driver.
type Device struct {
	// Uniforms lists the uniform names every compiled program reports as
	// active. Defaults to the names the default 2D shader declares.
	Uniforms []string
	// CompileErr, when set, is returned by the next CompileProgram call.
	CompileErr error
	// PendingErrs are handed out by the next Err call.
	PendingErrs []uint32

	ViewportW, ViewportH int
	Clears               []mgl32.Vec4
	Draws                []Draw
	Uploads              int
	Current              gpu.ProgramID

	next     uint32
	programs map[gpu.ProgramID]*program
	meshes   map[gpu.MeshID]*mesh
	textures map[gpu.TextureID]*Texture
	bound    map[int]gpu.TextureID
	// uniform values keyed by location
	ints   map[int32][]int32
	floats map[int32][]float32
	mats   map[int32]mgl32.Mat4
	locs   map[int32]string
}

var _ gpu.Device = (*Device)(nil)

// New returns an empty recording device.
func New() *Device {
	return &Device{
		Uniforms: []string{"u_projection", "u_textures"},
		programs: make(map[gpu.ProgramID]*program),
		meshes:   make(map[gpu.MeshID]*mesh),
		textures: make(map[gpu.TextureID]*Texture),
		bound:    make(map[int]gpu.TextureID),
		ints:     make(map[int32][]int32),
		floats:   make(map[int32][]float32),
		mats:     make(map[int32]mgl32.Mat4),
		locs:     make(map[int32]string),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) Info() gpu.Info {
	return gpu.Info{Vendor: "gputest", Renderer: "recording device", Version: "4.1"}
}

func (d *Device) Viewport(width, height int) {
	d.ViewportW, d.ViewportH = width, height
}

func (d *Device) Clear(color mgl32.Vec4) {
	d.Clears = append(d.Clears, color)
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (gpu.ProgramID, error) {
	if err := d.CompileErr; err != nil {
		d.CompileErr = nil
		return 0, err
	}
	if vertexSrc == "" || fragmentSrc == "" {
		return 0, fmt.Errorf("%w: empty source", gpu.ErrShaderCompile)
	}
	id := gpu.ProgramID(d.handle())
	p := &program{vs: vertexSrc, fs: fragmentSrc, uniforms: make(map[string]int32)}
	for _, name := range d.Uniforms {
		loc := int32(d.handle())
		p.uniforms[name] = loc
		d.locs[loc] = name
	}
	d.programs[id] = p
	return id, nil
}

func (d *Device) DeleteProgram(p gpu.ProgramID) {
	delete(d.programs, p)
	if d.Current == p {
		d.Current = 0
	}
}

func (d *Device) UseProgram(p gpu.ProgramID) { d.Current = p }

func (d *Device) UniformLocation(p gpu.ProgramID, name string) int32 {
	prog, ok := d.programs[p]
	if !ok {
		return -1
	}
	loc, ok := prog.uniforms[name]
	if !ok {
		return -1
	}
	return loc
}

func (d *Device) SetUniformInts(loc int32, v []int32) {
	d.ints[loc] = append([]int32(nil), v...)
}

func (d *Device) SetUniformFloats(loc int32, components int, v []float32) {
	d.floats[loc] = append([]float32(nil), v...)
}

func (d *Device) SetUniformMat4(loc int32, m mgl32.Mat4) { d.mats[loc] = m }

func (d *Device) CreateMesh(layout gpu.VertexLayout, maxVertices, maxIndices int) (gpu.MeshID, error) {
	if layout.Stride <= 0 || maxVertices <= 0 || maxIndices <= 0 {
		return 0, errors.New("gputest: invalid mesh parameters")
	}
	id := gpu.MeshID(d.handle())
	d.meshes[id] = &mesh{layout: layout, maxVertices: maxVertices, maxIndices: maxIndices}
	return id, nil
}

func (d *Device) UploadMesh(m gpu.MeshID, vertices []byte, indices []uint32) {
	ms, ok := d.meshes[m]
	if !ok {
		d.PendingErrs = append(d.PendingErrs, 0x0502)
		return
	}
	if len(vertices) > ms.maxVertices*int(ms.layout.Stride) || len(indices) > ms.maxIndices {
		d.PendingErrs = append(d.PendingErrs, 0x0501)
		return
	}
	ms.vertices = append(ms.vertices[:0], vertices...)
	ms.indices = append(ms.indices[:0], indices...)
	d.Uploads++
}

func (d *Device) DrawIndexed(m gpu.MeshID, count int) {
	ms, ok := d.meshes[m]
	if !ok {
		d.PendingErrs = append(d.PendingErrs, 0x0502)
		return
	}
	bound := make(map[int]gpu.TextureID, len(d.bound))
	for unit, t := range d.bound {
		bound[unit] = t
	}
	var samplers []int32
	if p, ok := d.programs[d.Current]; ok {
		samplers = append(samplers, d.ints[p.uniforms["u_textures"]]...)
	}
	n := count
	if n > len(ms.indices) {
		n = len(ms.indices)
	}
	d.Draws = append(d.Draws, Draw{
		Mesh:     m,
		Program:  d.Current,
		Count:    count,
		Vertices: len(ms.vertices) / int(ms.layout.Stride),
		Indices:  append([]uint32(nil), ms.indices[:n]...),
		Bound:    bound,
		Samplers: samplers,
	})
}

func (d *Device) DeleteMesh(m gpu.MeshID) { delete(d.meshes, m) }

func (d *Device) CreateTexture(width, height int, format gpu.PixelFormat, pixels []byte) (gpu.TextureID, error) {
	if err := gpu.CheckPixels(width, height, format, pixels); err != nil {
		return 0, err
	}
	id := gpu.TextureID(d.handle())
	d.textures[id] = &Texture{
		Width:       width,
		Height:      height,
		Format:      format,
		Pixels:      append([]byte(nil), pixels...),
		Allocations: 1,
	}
	return id, nil
}

func (d *Device) ReplaceTexture(t gpu.TextureID, width, height int, format gpu.PixelFormat, pixels []byte) {
	tex, ok := d.textures[t]
	if !ok {
		d.PendingErrs = append(d.PendingErrs, 0x0501)
		return
	}
	tex.Width, tex.Height, tex.Format = width, height, format
	tex.Pixels = append(tex.Pixels[:0], pixels...)
	tex.Allocations++
}

func (d *Device) UpdateTexture(t gpu.TextureID, width, height int, format gpu.PixelFormat, pixels []byte) {
	tex, ok := d.textures[t]
	if !ok || width > tex.Width || height > tex.Height {
		d.PendingErrs = append(d.PendingErrs, 0x0501)
		return
	}
	copy(tex.Pixels, pixels)
	tex.Updates++
}

func (d *Device) BindTexture(unit int, t gpu.TextureID) {
	if t == 0 {
		delete(d.bound, unit)
		return
	}
	d.bound[unit] = t
}

func (d *Device) DeleteTexture(t gpu.TextureID) {
	delete(d.textures, t)
	for unit, b := range d.bound {
		if b == t {
			delete(d.bound, unit)
		}
	}
}

func (d *Device) Err() error {
	var errs []error
	for _, code := range d.PendingErrs {
		errs = append(errs, gpu.ErrorForCode(code))
	}
	d.PendingErrs = nil
	return errors.Join(errs...)
}

// Texture returns the recorded state of t, or nil once deleted.
func (d *Device) Texture(t gpu.TextureID) *Texture { return d.textures[t] }

// Textures returns the number of live textures.
func (d *Device) Textures() int { return len(d.textures) }

// Programs returns the number of live programs.
func (d *Device) Programs() int { return len(d.programs) }

// Meshes returns the number of live meshes.
func (d *Device) Meshes() int { return len(d.meshes) }

// Mat4 returns the matrix last stored under the named uniform of p.
func (d *Device) Mat4(p gpu.ProgramID, name string) (mgl32.Mat4, bool) {
	m, ok := d.mats[d.UniformLocation(p, name)]
	return m, ok
}

// Ints returns the ints last stored under the named uniform of p.
func (d *Device) Ints(p gpu.ProgramID, name string) []int32 {
	return d.ints[d.UniformLocation(p, name)]
}

// Floats returns the floats last stored under the named uniform of p.
func (d *Device) Floats(p gpu.ProgramID, name string) []float32 {
	return d.floats[d.UniformLocation(p, name)]
}

// LastDraw returns the most recent draw call.
func (d *Device) LastDraw() (Draw, bool) {
	if len(d.Draws) == 0 {
		return Draw{}, false
	}
	return d.Draws[len(d.Draws)-1], true
}
