package graphics

import (
	"errors"
	"fmt"
	"os"

	"mini2d/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrNilShader       = errors.New("graphics: nil shader")
	ErrUniformNotFound = errors.New("graphics: uniform not found")
	ErrUniformType     = errors.New("graphics: unsupported uniform value type")
)

// Shader represents a linked shader program
type Shader struct {
	ID gpu.ProgramID

	dev       gpu.Device
	locations map[string]int32
}

// NewShader compiles and links a program from vertex and fragment source.
func NewShader(dev gpu.Device, vertexSrc, fragmentSrc string) (*Shader, error) {
	program, err := dev.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Shader{ID: program, dev: dev, locations: make(map[string]int32)}, nil
}

// LoadShader creates a new shader program from vertex and fragment shader source files
func LoadShader(dev gpu.Device, vertexPath, fragmentPath string) (*Shader, error) {
	vertexSource, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("could not read vertex shader file: %w", err)
	}

	fragmentSource, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("could not read fragment shader file: %w", err)
	}

	return NewShader(dev, string(vertexSource), string(fragmentSource))
}

// Use activates the shader program
func (s *Shader) Use() {
	s.dev.UseProgram(s.ID)
}

// Destroy releases the program. The shader must not be used afterwards.
func (s *Shader) Destroy() {
	if s == nil || s.ID == 0 {
		return
	}
	s.dev.DeleteProgram(s.ID)
	s.ID = 0
}

// UniformLocation looks name up once and caches the result.
func (s *Shader) UniformLocation(name string) (int32, error) {
	if s == nil || s.ID == 0 {
		return -1, ErrNilShader
	}
	loc, ok := s.locations[name]
	if !ok {
		loc = s.dev.UniformLocation(s.ID, name)
		s.locations[name] = loc
	}
	if loc < 0 {
		return -1, fmt.Errorf("%w: %q", ErrUniformNotFound, name)
	}
	return loc, nil
}

// Require fails unless every named uniform is active in the program.
func (s *Shader) Require(names ...string) error {
	for _, name := range names {
		if _, err := s.UniformLocation(name); err != nil {
			return err
		}
	}
	return nil
}

// SetUniform uploads value to loc. The program must be in use.
func (s *Shader) SetUniform(loc int32, value any) error {
	if loc < 0 {
		return ErrUniformNotFound
	}
	switch v := value.(type) {
	case bool:
		var i int32
		if v {
			i = 1
		}
		s.dev.SetUniformInts(loc, []int32{i})
	case int:
		s.dev.SetUniformInts(loc, []int32{int32(v)})
	case int32:
		s.dev.SetUniformInts(loc, []int32{v})
	case []int32:
		s.dev.SetUniformInts(loc, v)
	case float32:
		s.dev.SetUniformFloats(loc, 1, []float32{v})
	case []float32:
		s.dev.SetUniformFloats(loc, 1, v)
	case mgl32.Vec2:
		s.dev.SetUniformFloats(loc, 2, v[:])
	case mgl32.Vec3:
		s.dev.SetUniformFloats(loc, 3, v[:])
	case mgl32.Vec4:
		s.dev.SetUniformFloats(loc, 4, v[:])
	case mgl32.Mat4:
		s.dev.SetUniformMat4(loc, v)
	default:
		return fmt.Errorf("%w: %T", ErrUniformType, value)
	}
	return nil
}

func (s *Shader) set(name string, value any) {
	loc, err := s.UniformLocation(name)
	if err != nil {
		return
	}
	_ = s.SetUniform(loc, value)
}

// SetInts sets an integer array uniform such as a sampler array
func (s *Shader) SetInts(name string, values []int32) { s.set(name, values) }

// SetMatrix4 sets a 4x4 matrix uniform
func (s *Shader) SetMatrix4(name string, value mgl32.Mat4) { s.set(name, value) }
