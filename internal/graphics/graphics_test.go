package graphics

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mini2d/internal/gpu"
	"mini2d/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewTextureValidation(t *testing.T) {
	dev := gputest.New()
	tests := []struct {
		name     string
		data     []byte
		w, h, ch int
		want     error
	}{
		{"rgba", make([]byte, 2*2*4), 2, 2, 4, nil},
		{"rgb", make([]byte, 3*1*3), 3, 1, 3, nil},
		{"two channels", make([]byte, 8), 2, 2, 2, gpu.ErrUnsupportedChannels},
		{"short", make([]byte, 3), 2, 2, 4, gpu.ErrTextureSize},
		{"zero size", nil, 0, 0, 4, gpu.ErrTextureSize},
	}
	for _, tt := range tests {
		tex, err := NewTexture(dev, tt.data, tt.w, tt.h, tt.ch)
		if tt.want == nil {
			if err != nil || !tex.Valid() {
				t.Fatalf("%s: unexpected error %v", tt.name, err)
			}
			continue
		}
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
	if dev.Textures() != 2 {
		t.Fatalf("live textures: got %d, want 2", dev.Textures())
	}
}

func TestTextureCopiesPixels(t *testing.T) {
	dev := gputest.New()
	data := []byte{1, 2, 3, 4}
	tex, err := NewTexture(dev, data, 1, 1, 4)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	data[0] = 99
	if got := dev.Texture(tex.ID).Pixels[0]; got != 1 {
		t.Fatalf("caller mutation leaked into texture: got %d", got)
	}
}

func TestTextureUpdate(t *testing.T) {
	dev := gputest.New()
	tex, _ := NewTexture(dev, make([]byte, 2*2*4), 2, 2, 4)
	id := tex.ID

	if err := tex.Update(make([]byte, 2*2*4), 2, 2, 4); err != nil {
		t.Fatalf("same size update: %v", err)
	}
	rec := dev.Texture(id)
	if rec.Allocations != 1 || rec.Updates != 1 {
		t.Fatalf("same size should not reallocate: allocs %d updates %d", rec.Allocations, rec.Updates)
	}

	if err := tex.Update(make([]byte, 4*4*3), 4, 4, 3); err != nil {
		t.Fatalf("resize update: %v", err)
	}
	if tex.ID != id || tex.Width != 4 || tex.Channels != 3 {
		t.Fatalf("resize: id %d size %dx%d ch %d", tex.ID, tex.Width, tex.Height, tex.Channels)
	}
	if rec.Allocations != 2 || rec.Width != 4 {
		t.Fatalf("resize should reallocate under the same handle: %+v", rec)
	}

	tex.Destroy()
	tex.Destroy()
	if tex.Valid() || dev.Textures() != 0 {
		t.Fatalf("destroy: valid=%v live=%d", tex.Valid(), dev.Textures())
	}
	if err := tex.Update(make([]byte, 4), 1, 1, 4); !errors.Is(err, ErrNilTexture) {
		t.Fatalf("update after destroy: got %v", err)
	}
}

func TestShaderUniforms(t *testing.T) {
	dev := gputest.New()
	dev.Uniforms = []string{"u_projection", "u_textures", "u_tint"}
	s, err := NewShader(dev, "vs", "fs")
	if err != nil {
		t.Fatalf("new shader: %v", err)
	}
	if err := s.Require("u_projection", "u_textures"); err != nil {
		t.Fatalf("require: %v", err)
	}
	if _, err := s.UniformLocation("u_missing"); !errors.Is(err, ErrUniformNotFound) {
		t.Fatalf("missing uniform: got %v", err)
	}

	s.Use()
	tint, _ := s.UniformLocation("u_tint")
	if err := s.SetUniform(tint, mgl32.Vec4{1, 0.5, 0, 1}); err != nil {
		t.Fatalf("set vec4: %v", err)
	}
	if got := dev.Floats(s.ID, "u_tint"); len(got) != 4 || got[1] != 0.5 {
		t.Fatalf("u_tint: got %v", got)
	}
	if err := s.SetUniform(tint, "nope"); !errors.Is(err, ErrUniformType) {
		t.Fatalf("bad type: got %v", err)
	}
	if err := s.SetUniform(-1, int32(1)); !errors.Is(err, ErrUniformNotFound) {
		t.Fatalf("negative location: got %v", err)
	}

	m := mgl32.Ortho(0, 10, 10, 0, -1, 1)
	s.SetMatrix4("u_projection", m)
	if got, ok := dev.Mat4(s.ID, "u_projection"); !ok || got != m {
		t.Fatalf("u_projection not stored")
	}
	s.SetInts("u_textures", []int32{0, 1, 2})
	if got := dev.Ints(s.ID, "u_textures"); len(got) != 3 || got[2] != 2 {
		t.Fatalf("u_textures: got %v", got)
	}

	s.Destroy()
	if dev.Programs() != 0 {
		t.Fatalf("program not deleted")
	}
	if _, err := s.UniformLocation("u_tint"); !errors.Is(err, ErrNilShader) {
		t.Fatalf("destroyed shader: got %v", err)
	}
}

func TestShaderCompileError(t *testing.T) {
	dev := gputest.New()
	dev.CompileErr = gpu.ErrShaderCompile
	if _, err := NewShader(dev, "vs", "fs"); !errors.Is(err, gpu.ErrShaderCompile) {
		t.Fatalf("got %v, want compile error", err)
	}
}

func TestLoadShaderFromFiles(t *testing.T) {
	dir := t.TempDir()
	vs := filepath.Join(dir, "quad.vert")
	fs := filepath.Join(dir, "quad.frag")
	_ = os.WriteFile(vs, []byte("#version 410 core\nvoid main() {}\n"), 0o644)
	_ = os.WriteFile(fs, []byte("#version 410 core\nvoid main() {}\n"), 0o644)

	dev := gputest.New()
	if _, err := LoadShader(dev, vs, fs); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := LoadShader(dev, filepath.Join(dir, "missing.vert"), fs); err == nil || !strings.Contains(err.Error(), "vertex") {
		t.Fatalf("missing vertex file: got %v", err)
	}
}

func TestTextureCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, twoRowImage(200)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	_ = f.Close()

	dev := gputest.New()
	cache := NewTextureCache(dev, false)
	a, err := cache.Get(path)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := cache.Get(path)
	if a != b || dev.Textures() != 1 {
		t.Fatalf("second get should hit the cache")
	}
	if a.Channels != 4 {
		t.Fatalf("translucent png should keep alpha, got %d channels", a.Channels)
	}
	if _, err := cache.Get(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatalf("missing file should fail")
	}
	cache.Release(path)
	if cache.Len() != 0 || dev.Textures() != 0 {
		t.Fatalf("release: len %d live %d", cache.Len(), dev.Textures())
	}
	_, _ = cache.Get(path)
	cache.Clear()
	if cache.Len() != 0 || dev.Textures() != 0 {
		t.Fatalf("clear: len %d live %d", cache.Len(), dev.Textures())
	}
}

func TestDefaultFont(t *testing.T) {
	dev := gputest.New()
	f, err := DefaultFont(dev, 16)
	if err != nil {
		t.Fatalf("default font: %v", err)
	}
	defer f.Destroy()

	a := f.Atlas
	if _, ok := a.Glyphs['A']; !ok {
		t.Fatalf("atlas missing 'A'")
	}
	if g := a.Glyphs[' ']; g.Width != 0 || g.Advance <= 0 {
		t.Fatalf("space glyph: %+v", g)
	}
	h := a.Image.Bounds().Dy()
	if h&(h-1) != 0 {
		t.Fatalf("atlas height %d is not a power of two", h)
	}

	quads := a.Layout("Hi there", 10, 20, 1)
	if len(quads) != 7 {
		t.Fatalf("quads: got %d, want 7", len(quads))
	}
	for _, q := range quads {
		if q.U0 < 0 || q.U1 > 1 || q.V0 < 0 || q.V1 > 1 || q.U0 >= q.U1 {
			t.Fatalf("bad uv %+v", q)
		}
		if q.Y+q.H <= 20 {
			t.Fatalf("glyph entirely above the text origin: %+v", q)
		}
	}
	if quads[1].X <= quads[0].X {
		t.Fatalf("pen did not advance")
	}

	w1, h1 := a.Measure("Hi", 1)
	w2, h2 := a.Measure("Hi\nHi", 1)
	if w1 != w2 || h2 != 2*h1 {
		t.Fatalf("measure: %v,%v vs %v,%v", w1, h1, w2, h2)
	}
	tw, th := a.Measure("Hi", 2)
	if tw != 2*w1 || th != 2*h1 {
		t.Fatalf("measure scale: %v,%v", tw, th)
	}
	if tex := dev.Texture(f.Texture.ID); tex == nil || tex.Format != gpu.FormatRGBA {
		t.Fatalf("atlas texture not uploaded as rgba")
	}
}
