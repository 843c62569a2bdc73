package renderer

import (
	"errors"

	"mini2d/internal/graphics/batch"
)

// Surface is the window side of the renderer: where frames are presented.
type Surface interface {
	FramebufferSize() (width, height int)
	SwapBuffers()
}

var (
	ErrBatchOpen = errors.New("renderer: flush while a batch is open")
	ErrDestroyed = errors.New("renderer: renderer destroyed")
)

// Re-exported so callers only import the renderer.
const (
	Triangles = batch.Triangles
	Quads     = batch.Quads
)

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X, Y, W, H float32
}

// Stats counts the work done since the last ResetStats.
type Stats struct {
	Flushes   int
	DrawCalls int
	Vertices  int
	Indices   int
	Textures  int // texture slots bound across draw calls
	Dropped   int // primitives lost to overflow
}

// Default shader. Vertex layout matches batch.Layout; slot 0 draws the vertex
// color, slots 1..7 draw the bound texture alone.
const (
	DefaultVertexShader = `#version 410 core
layout(location = 0) in vec3 a_position;
layout(location = 1) in vec4 a_color;
layout(location = 2) in vec2 a_uv;
layout(location = 3) in float a_slot;

uniform mat4 u_projection;

out vec4 v_color;
out vec2 v_uv;
flat out int v_slot;

void main() {
	v_color = a_color;
	v_uv = a_uv;
	v_slot = int(a_slot + 0.5);
	gl_Position = u_projection * vec4(a_position, 1.0);
}
`

	DefaultFragmentShader = `#version 410 core
in vec4 v_color;
in vec2 v_uv;
flat in int v_slot;

uniform sampler2D u_textures[8];

out vec4 frag_color;

void main() {
	switch (v_slot) {
	case 1: frag_color = texture(u_textures[1], v_uv); break;
	case 2: frag_color = texture(u_textures[2], v_uv); break;
	case 3: frag_color = texture(u_textures[3], v_uv); break;
	case 4: frag_color = texture(u_textures[4], v_uv); break;
	case 5: frag_color = texture(u_textures[5], v_uv); break;
	case 6: frag_color = texture(u_textures[6], v_uv); break;
	case 7: frag_color = texture(u_textures[7], v_uv); break;
	default: frag_color = v_color; break;
	}
}
`

	// TintFragmentShader multiplies textured vertices by their color. Used by
	// DrawText and by callers passing TintShader to Begin.
	TintFragmentShader = `#version 410 core
in vec4 v_color;
in vec2 v_uv;
flat in int v_slot;

uniform sampler2D u_textures[8];

out vec4 frag_color;

void main() {
	switch (v_slot) {
	case 1: frag_color = v_color * texture(u_textures[1], v_uv); break;
	case 2: frag_color = v_color * texture(u_textures[2], v_uv); break;
	case 3: frag_color = v_color * texture(u_textures[3], v_uv); break;
	case 4: frag_color = v_color * texture(u_textures[4], v_uv); break;
	case 5: frag_color = v_color * texture(u_textures[5], v_uv); break;
	case 6: frag_color = v_color * texture(u_textures[6], v_uv); break;
	case 7: frag_color = v_color * texture(u_textures[7], v_uv); break;
	default: frag_color = v_color; break;
	}
}
`
)

// Uniforms every batch shader must declare.
const (
	UniformProjection = "u_projection"
	UniformTextures   = "u_textures"
)
