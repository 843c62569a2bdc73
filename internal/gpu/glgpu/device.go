// Package glgpu implements gpu.Device on OpenGL 4.1 core.
package glgpu

import (
	"errors"
	"fmt"
	"strings"

	"mini2d/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type mesh struct {
	vao, vbo, ibo uint32
}

// Device drives the OpenGL context current on the calling thread.
type Device struct {
	meshes map[gpu.MeshID]mesh
	nextID uint32
}

var _ gpu.Device = (*Device)(nil)

// New loads the GL function pointers and sets the state the 2D renderer
// relies on. A context must be current.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return &Device{meshes: make(map[gpu.MeshID]mesh)}, nil
}

func (d *Device) Info() gpu.Info {
	return gpu.Info{
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
	}
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Shaders

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (gpu.ProgramID, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertexShader)
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("%w: %s", gpu.ErrProgramLink, strings.TrimRight(log, "\x00"))
	}
	return gpu.ProgramID(program), nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		kind := "vertex"
		if shaderType == gl.FRAGMENT_SHADER {
			kind = "fragment"
		}
		return 0, fmt.Errorf("%w: %s: %s", gpu.ErrShaderCompile, kind, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (d *Device) DeleteProgram(p gpu.ProgramID) { gl.DeleteProgram(uint32(p)) }

func (d *Device) UseProgram(p gpu.ProgramID) { gl.UseProgram(uint32(p)) }

func (d *Device) UniformLocation(p gpu.ProgramID, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) SetUniformInts(loc int32, v []int32) {
	if len(v) == 0 {
		return
	}
	gl.Uniform1iv(loc, int32(len(v)), &v[0])
}

func (d *Device) SetUniformFloats(loc int32, components int, v []float32) {
	if len(v) == 0 || components <= 0 {
		return
	}
	count := int32(len(v) / components)
	switch components {
	case 1:
		gl.Uniform1fv(loc, count, &v[0])
	case 2:
		gl.Uniform2fv(loc, count, &v[0])
	case 3:
		gl.Uniform3fv(loc, count, &v[0])
	case 4:
		gl.Uniform4fv(loc, count, &v[0])
	}
}

func (d *Device) SetUniformMat4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

// Meshes

func (d *Device) CreateMesh(layout gpu.VertexLayout, maxVertices, maxIndices int) (gpu.MeshID, error) {
	if layout.Stride <= 0 || maxVertices <= 0 || maxIndices <= 0 {
		return 0, fmt.Errorf("create mesh: invalid size %d vertices, %d indices", maxVertices, maxIndices)
	}
	var m mesh
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ibo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, maxVertices*int(layout.Stride), nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, maxIndices*4, nil, gl.DYNAMIC_DRAW)

	for _, a := range layout.Attributes {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointer(a.Location, a.Size, glType(a.Type), false, layout.Stride, gl.PtrOffset(a.Offset))
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	d.nextID++
	id := gpu.MeshID(d.nextID)
	d.meshes[id] = m
	return id, nil
}

func glType(t gpu.AttribType) uint32 {
	switch t {
	case gpu.AttribFloat32:
		return gl.FLOAT
	}
	return gl.FLOAT
}

func (d *Device) UploadMesh(id gpu.MeshID, vertices []byte, indices []uint32) {
	m, ok := d.meshes[id]
	if !ok {
		return
	}
	if len(vertices) > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices), gl.Ptr(vertices))
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	}
	if len(indices) > 0 {
		// The element binding is VAO state; bind the VAO so it stays attached.
		gl.BindVertexArray(m.vao)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ibo)
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(indices)*4, gl.Ptr(indices))
		gl.BindVertexArray(0)
	}
}

func (d *Device) DrawIndexed(id gpu.MeshID, count int) {
	m, ok := d.meshes[id]
	if !ok || count <= 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (d *Device) DeleteMesh(id gpu.MeshID) {
	m, ok := d.meshes[id]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &m.ibo)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
	delete(d.meshes, id)
}

// Textures

func glFormat(f gpu.PixelFormat) uint32 {
	if f == gpu.FormatRGB {
		return gl.RGB
	}
	return gl.RGBA
}

func (d *Device) CreateTexture(width, height int, format gpu.PixelFormat, pixels []byte) (gpu.TextureID, error) {
	if err := gpu.CheckPixels(width, height, format, pixels); err != nil {
		return 0, err
	}
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	f := glFormat(format)
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(f), int32(width), int32(height), 0, f, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return gpu.TextureID(texture), nil
}

func (d *Device) ReplaceTexture(t gpu.TextureID, width, height int, format gpu.PixelFormat, pixels []byte) {
	f := glFormat(format)
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(f), int32(width), int32(height), 0, f, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (d *Device) UpdateTexture(t gpu.TextureID, width, height int, format gpu.PixelFormat, pixels []byte) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(width), int32(height), glFormat(format), gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (d *Device) BindTexture(unit int, t gpu.TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) DeleteTexture(t gpu.TextureID) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

// Err drains the GL error queue.
func (d *Device) Err() error {
	var errs []error
	// glGetError can keep reporting after context loss; cap the drain.
	for i := 0; i < 16; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		errs = append(errs, gpu.ErrorForCode(code))
	}
	return errors.Join(errs...)
}
