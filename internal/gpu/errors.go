package gpu

import (
	"errors"
	"fmt"
)

var (
	ErrShaderCompile       = errors.New("gpu: shader compilation failed")
	ErrProgramLink         = errors.New("gpu: shader program linking failed")
	ErrUnsupportedChannels = errors.New("gpu: texture data must have 3 or 4 channels")
	ErrTextureSize         = errors.New("gpu: texture data does not match its dimensions")
)

// Driver error taxonomy, mirroring the codes glGetError can report.
var (
	ErrInvalidEnum                 = errors.New("gpu: invalid enum")
	ErrInvalidValue                = errors.New("gpu: invalid value")
	ErrInvalidOperation            = errors.New("gpu: invalid operation")
	ErrStackOverflow               = errors.New("gpu: stack overflow")
	ErrStackUnderflow              = errors.New("gpu: stack underflow")
	ErrOutOfMemory                 = errors.New("gpu: out of memory")
	ErrInvalidFramebufferOperation = errors.New("gpu: invalid framebuffer operation")
	ErrUnknown                     = errors.New("gpu: unknown error")
)

// ErrorForCode maps a raw glGetError code to its sentinel. Zero maps to nil.
func ErrorForCode(code uint32) error {
	switch code {
	case 0:
		return nil
	case 0x0500:
		return ErrInvalidEnum
	case 0x0501:
		return ErrInvalidValue
	case 0x0502:
		return ErrInvalidOperation
	case 0x0503:
		return ErrStackOverflow
	case 0x0504:
		return ErrStackUnderflow
	case 0x0505:
		return ErrOutOfMemory
	case 0x0506:
		return ErrInvalidFramebufferOperation
	}
	return fmt.Errorf("%w (0x%x)", ErrUnknown, code)
}

// CheckPixels validates that pixels holds exactly width*height pixels of format.
func CheckPixels(width, height int, format PixelFormat, pixels []byte) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrTextureSize, width, height)
	}
	want := width * height * format.BytesPerPixel()
	if len(pixels) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrTextureSize, len(pixels), want)
	}
	return nil
}
